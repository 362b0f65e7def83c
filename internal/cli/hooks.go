package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/observability"
)

// logHooks reports session and playback events at debug level.
// It is registered when --verbose is set.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SessionHooks  = logHooks{}
	_ observability.PlaybackHooks = logHooks{}
)

func (h logHooks) OnLoad(_ context.Context, path string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("loaded", "path", path, "nodes", nodes, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCommit(_ context.Context, path string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("commit failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("committed", "path", path, "bytes", bytes, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnClose(_ context.Context, path string, err error) {
	h.logger.Debug("closed", "path", path, "error", err)
}

func (h logHooks) OnCompile(_ context.Context, steps, warnings int, d time.Duration, err error) {
	h.logger.Debug("compiled", "steps", steps, "warnings", warnings, "took", d.Round(time.Microsecond), "error", err)
}

func (h logHooks) OnStep(_ context.Context, from, to uint64) {
	h.logger.Debug("step", "from", from, "to", to)
}
