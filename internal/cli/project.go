package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/project"
	"github.com/matzehuels/novelgraph/pkg/session"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// newCommand creates the "new" command that scaffolds a project.
func (c *CLI) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new [dir]",
		Short: "Create a new story project",
		Long: `Create a story project directory.

The directory gets an empty game.json, the image folders and a
novelgraph.toml with default settings. Existing files are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.dir
			if len(args) == 1 {
				dir = args[0]
			}
			p, err := project.Create(dir)
			if err != nil {
				return err
			}
			printSuccess("Created project %s", StyleHighlight.Render(p.Dir))
			printFile(p.GameFile)
			printFile(filepath.Join(p.Dir, project.SettingsFile))
			printNewline()
			printNextStep("Add a first scene", fmt.Sprintf("%s -p %s node add image", appName, dir))
			return nil
		},
	}
}

// infoCommand creates the "info" command that summarizes a project.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show a summary of the story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), reading, func(sess *session.Session) error {
				g := sess.Graph
				printKeyValue("Project", sess.Project.Dir)
				printKeyValue("Game file", filepath.Base(sess.Project.GameFile))
				printKeyValue("Canvas", fmt.Sprintf("%dx%d", sess.Project.Settings.Canvas.Width, sess.Project.Settings.Canvas.Height))
				printKeyValue("Nodes", kindSummary(g))

				initial := "none"
				if n := g.Initial(); n != nil {
					initial = fmt.Sprintf("%d (%s)", n.ID, n.Kind)
				}
				printKeyValue("Initial", initial)

				steps := -1
				if st, err := compileStory(cmd.Context(), g); st != nil {
					steps = len(st.Steps)
					if err != nil {
						printWarning("%s", errors.UserMessage(err))
					}
				}
				printStats(g.NodeCount(), g.ArrowCount(), steps)
				return nil
			})
		},
	}
}

// kindSummary counts the nodes of each kind, e.g. "3 image, 1 choice".
func kindSummary(g *story.Graph) string {
	counts := make(map[story.Kind]int)
	for _, n := range g.Nodes() {
		counts[n.Kind]++
	}
	var parts []string
	for k := story.KindCircle; k <= story.KindVariable; k++ {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

// validateCommand creates the "validate" command that checks the story can
// be played.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the story can be played",
		Long: `Load the story and compile it for playback.

Warnings (such as variable nodes that do not hold an assignment) are
printed. The command fails when the story cannot be loaded or has no
starting scene.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), reading, func(sess *session.Session) error {
				st, err := compileStory(cmd.Context(), sess.Graph)
				if st != nil {
					for _, w := range st.Warnings {
						printWarning("%s", w)
					}
				}
				if err != nil {
					return err
				}
				printSuccess("Story is playable")
				printStats(sess.Graph.NodeCount(), sess.Graph.ArrowCount(), len(st.Steps))
				return nil
			})
		},
	}
}
