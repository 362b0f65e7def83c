// Package cli implements the novelgraph command-line interface.
//
// The commands work on a story project directory (see --project): they
// scaffold projects, edit the story graph node by node, validate and play
// the story in the terminal, export diagrams, and serve a read-only HTTP
// preview. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - new, info, validate: create and inspect a project
//   - node, answer, connect, disconnect, initial, text, assign, image: edit
//     the story graph; every edit is written back to the game file
//   - export: DOT, SVG, PDF, PNG or normalized JSON
//   - play: interactive player built on bubbletea
//   - serve: HTTP preview of the story and its playback steps
//   - cache: inspect and clear the thumbnail cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports session and playback events. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/novelgraph/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with short timestamps
// ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took, e.g. "Exported story.svg (1.234s)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default when the
// context carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
