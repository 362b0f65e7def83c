package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/buildinfo"
	"github.com/matzehuels/novelgraph/pkg/editor"
	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/observability"
	"github.com/matzehuels/novelgraph/pkg/project"
	"github.com/matzehuels/novelgraph/pkg/session"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "novelgraph"

	// defaultAddr is the listen address of the preview server.
	defaultAddr = "localhost:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// dir is the project directory every project command works on.
	dir     string
	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), dir: "."}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Novelgraph edits and plays node-graph visual novels",
		Long:         `Novelgraph manages visual novel projects: a story graph of scenes, choices and variables stored as JSON, with tools to edit, export, preview and play it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.SetSessionHooks(logHooks{c.Logger})
				observability.SetPlaybackHooks(logHooks{c.Logger})
			}
			out = cmd.OutOrStdout()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.dir, "project", "p", ".", "project directory")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.answerCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.disconnectCommand())
	root.AddCommand(c.initialCommand())
	root.AddCommand(c.textCommand())
	root.AddCommand(c.assignCommand())
	root.AddCommand(c.imageCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Helpers
// =============================================================================

// openProject opens the project named by --project.
func (c *CLI) openProject() (*project.Project, error) {
	return project.Open(c.dir)
}

// withSession opens a session on the project and runs fn. When fn
// succeeds the session is closed, which commits writable sessions; when it
// fails the session is discarded so no part of the edit is saved.
func (c *CLI) withSession(ctx context.Context, opts session.Options, fn func(*session.Session) error) error {
	p, err := c.openProject()
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)
	sess, err := session.Open(ctx, p, opts)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		if derr := sess.Discard(); derr != nil {
			sess.Logger().Warn("discard session", "err", derr)
		}
		return err
	}
	return sess.Close()
}

// Session modes of the commands.
var (
	editing = session.Options{}
	reading = session.Options{ReadOnly: true}
)

// apply runs one editor action inside a writable session.
func (c *CLI) apply(ctx context.Context, a editor.Action, ref string, in editor.Input) error {
	return c.withSession(ctx, editing, func(sess *session.Session) error {
		t, err := resolveTarget(sess.Graph, ref)
		if err != nil {
			return err
		}
		ctl := editor.New(sess.Graph, sess.Thumbs)
		ctl.Logger = sess.Logger()
		return ctl.Apply(a, t, in)
	})
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseID parses a decimal node or answer id.
func parseID(s string) (story.ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return story.NoID, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", s)
	}
	return story.ID(v), nil
}

// resolveTarget maps an id to the node or answer it names.
func resolveTarget(g *story.Graph, ref string) (editor.Target, error) {
	id, err := parseID(ref)
	if err != nil {
		return editor.Target{}, err
	}
	if g.Node(id) != nil {
		return editor.Target{Node: id}, nil
	}
	if ans, choice := g.Answer(id); ans != nil {
		return editor.Target{Node: choice.ID, Answer: id}, nil
	}
	return editor.Target{}, errors.New(errors.ErrCodeNotFound, "no node or answer with id %d", id)
}

// outRef returns the outgoing connector of a node or answer.
func outRef(g *story.Graph, ref string) (story.ConnRef, error) {
	t, err := resolveTarget(g, ref)
	if err != nil {
		return story.ConnRef{}, err
	}
	if t.Answer != story.NoID {
		ans, _ := g.Answer(t.Answer)
		return ans.OutRef(), nil
	}
	n := g.Node(t.Node)
	if n.Out == nil {
		return story.ConnRef{}, errors.New(errors.ErrCodeInvalidInput, "%s %d has no outgoing connector", n.Kind, n.ID)
	}
	return n.OutRef(), nil
}

// inRef returns the incoming connector of a node.
func inRef(g *story.Graph, ref string) (story.ConnRef, error) {
	id, err := parseID(ref)
	if err != nil {
		return story.ConnRef{}, err
	}
	n := g.Node(id)
	if n == nil {
		return story.ConnRef{}, errors.New(errors.ErrCodeNotFound, "no node with id %d", id)
	}
	if n.In == nil {
		return story.ConnRef{}, errors.New(errors.ErrCodeInvalidInput, "%s %d has no incoming connector", n.Kind, n.ID)
	}
	return n.InRef(), nil
}
