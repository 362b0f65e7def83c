package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Generated story.svg")

	if !strings.Contains(buf.String(), "Generated story.svg (") {
		t.Errorf("progress output = %q, want message with duration", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnLoad(ctx, "game.json", 3, time.Millisecond, nil)
	h.OnCommit(ctx, "game.json", 0, 0, errors.New("disk full"))
	h.OnCompile(ctx, 2, 1, time.Millisecond, nil)
	h.OnStep(ctx, 1, 4)

	out := buf.String()
	for _, want := range []string{"loaded", "nodes=3", "commit failed", "disk full", "compiled", "steps=2", "from=1", "to=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestVerboseRegistersHooks(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	dir := t.TempDir()
	root.SetArgs([]string{"-v", "new", dir})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(observability.Reset)

	buf.Reset()
	root = c.RootCommand()
	root.SetArgs([]string{"-v", "-p", dir, "info"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(buf.String(), "loaded") {
		t.Errorf("verbose run did not log the load hook:\n%s", buf.String())
	}
}
