package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/editor"
	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/session"
	"github.com/matzehuels/novelgraph/pkg/story"
)

const (
	// placeGap separates a node placed without --at from the existing graph.
	placeGap     = 60
	circleRadius = 40
)

// addActions maps node kinds to the menu action that creates them.
var addActions = map[story.Kind]editor.Action{
	story.KindImage:    editor.ActionAddImage,
	story.KindChoice:   editor.ActionAddChoice,
	story.KindVariable: editor.ActionAddVariable,
}

// =============================================================================
// node
// =============================================================================

// nodeCommand groups the node subcommands.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, remove and list story nodes",
	}
	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeListCommand())
	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var at, text string

	cmd := &cobra.Command{
		Use:       "add <image|choice|variable|circle>",
		Short:     "Add a node",
		ValidArgs: []string{"image", "choice", "variable", "circle"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := story.ParseKind(args[0])
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				pos, err := placement(sess, at)
				if err != nil {
					return err
				}
				id, err := addNode(sess, kind, pos)
				if err != nil {
					return err
				}
				if text != "" {
					if err := setText(sess, id, text); err != nil {
						return err
					}
				}
				printSuccess("Added %s %s", kind, StyleNumber.Render(fmt.Sprintf("#%d", id)))
				if n := sess.Graph.Node(id); kind == story.KindChoice && len(n.Answers) > 0 {
					printDetail("answer #%d", n.Answers[0].ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "position as x,y (default: right of the graph)")
	cmd.Flags().StringVar(&text, "text", "", "scene text or variable assignment")
	return cmd
}

// addNode creates a node of kind at pos and returns its id.
func addNode(sess *session.Session, kind story.Kind, pos geom.Point) (story.ID, error) {
	g := sess.Graph
	a, ok := addActions[kind]
	if !ok {
		return g.Add(story.NewCircle(pos, circleRadius, geom.White)), nil
	}
	ctl := editor.New(g, sess.Thumbs)
	if err := ctl.Apply(a, editor.Target{}, editor.Input{At: pos}); err != nil {
		return story.NoID, err
	}
	nodes := g.Nodes()
	return nodes[len(nodes)-1].ID, nil
}

// placement parses --at, or picks a spot right of the graph.
func placement(sess *session.Session, at string) (geom.Point, error) {
	if at != "" {
		return parsePoint(at)
	}
	g := sess.Graph
	if g.NodeCount() == 0 {
		s := sess.Project.Settings.CanvasSize()
		return geom.Pt(geom.Half(s.W), geom.Half(s.H)), nil
	}
	b := g.Bounds()
	return geom.Pt(b.X+b.W+placeGap+geom.Half(story.DefaultSceneSize.W), b.Y+geom.Half(b.H)), nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid position %q (want x,y)", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return geom.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid position %q (want x,y)", s)
	}
	return geom.Pt(x, y), nil
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a node and its arrows",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				t, err := resolveTarget(sess.Graph, args[0])
				if err != nil {
					return err
				}
				if t.Answer != story.NoID {
					return errors.New(errors.ErrCodeInvalidInput, "#%d is an answer of choice #%d; use answer rm", t.Answer, t.Node)
				}
				ctl := editor.New(sess.Graph, sess.Thumbs)
				ctl.Logger = sess.Logger()
				if err := ctl.Apply(editor.ActionDelete, t, editor.Input{}); err != nil {
					return err
				}
				printSuccess("Removed %s", StyleNumber.Render(fmt.Sprintf("#%d", t.Node)))
				return nil
			})
		},
	}
}

func (c *CLI) nodeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the nodes of the story",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), reading, func(sess *session.Session) error {
				if sess.Graph.NodeCount() == 0 {
					printInfo("The story is empty")
					return nil
				}
				emit(nodeTable(sess.Graph))
				return nil
			})
		},
	}
}

// nodeTable renders one row per node, answers indented below their choice.
func nodeTable(g *story.Graph) string {
	var rows [][]string
	for _, n := range g.Nodes() {
		mark := ""
		if n.Initial {
			mark = "▸"
		}
		rows = append(rows, []string{
			mark,
			strconv.FormatUint(uint64(n.ID), 10),
			n.Kind.String(),
			n.Text(),
			fmt.Sprintf("%g,%g", n.Pos.X, n.Pos.Y),
			strconv.Itoa(len(g.Outgoing(n.ID))),
		})
		for _, a := range n.Answers {
			rows = append(rows, []string{
				"",
				strconv.FormatUint(uint64(a.ID), 10),
				"  answer",
				a.Label.Text,
				"",
				strconv.Itoa(len(g.Outgoing(a.ID))),
			})
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Text", "Position", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			if col == 4 || col == 5 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// answer
// =============================================================================

// answerCommand groups the answer subcommands.
func (c *CLI) answerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Add and remove answers of choice nodes",
	}
	cmd.AddCommand(c.answerAddCommand())
	cmd.AddCommand(c.answerRemoveCommand())
	return cmd
}

func (c *CLI) answerAddCommand() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "add <choice-id>",
		Short: "Append an answer to a choice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				id, err := sess.Graph.AddAnswer(choice)
				if err != nil {
					return err
				}
				if text != "" {
					if err := setText(sess, id, text); err != nil {
						return err
					}
				}
				printSuccess("Added answer %s to choice %d", StyleNumber.Render(fmt.Sprintf("#%d", id)), choice)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "answer label")
	return cmd
}

func (c *CLI) answerRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <answer-id>",
		Aliases: []string{"remove"},
		Short:   "Remove an answer and its arrows",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.apply(cmd.Context(), editor.ActionDeleteAnswer, args[0], editor.Input{}); err != nil {
				return err
			}
			printSuccess("Removed answer %s", StyleNumber.Render("#"+args[0]))
			return nil
		},
	}
}

// =============================================================================
// arrows
// =============================================================================

func (c *CLI) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <from> <to>",
		Short: "Draw an arrow from a node or answer to a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				g := sess.Graph
				from, err := outRef(g, args[0])
				if err != nil {
					return err
				}
				to, err := inRef(g, args[1])
				if err != nil {
					return err
				}
				if !g.Connect(from, to) {
					return errors.New(errors.ErrCodeInvalidInput, "cannot connect %s to %s (already connected or same node)", args[0], args[1])
				}
				printSuccess("Connected %s %s %s", args[0], StyleDim.Render(iconArrow), args[1])
				return nil
			})
		},
	}
}

func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <id>",
		Short: "Remove every arrow touching a node or answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				g := sess.Graph
				t, err := resolveTarget(g, args[0])
				if err != nil {
					return err
				}
				removed := 0
				if t.Answer != story.NoID {
					ans, _ := g.Answer(t.Answer)
					removed = g.Disconnect(ans.OutRef())
				} else {
					n := g.Node(t.Node)
					if n.In != nil {
						removed += g.Disconnect(n.InRef())
					}
					if n.Out != nil {
						removed += g.Disconnect(n.OutRef())
					}
				}
				printSuccess("Removed %d arrows", removed)
				return nil
			})
		},
	}
}

// =============================================================================
// properties
// =============================================================================

func (c *CLI) initialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "initial <id>",
		Short: "Toggle the node the story starts at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				t, err := resolveTarget(sess.Graph, args[0])
				if err != nil {
					return err
				}
				ctl := editor.New(sess.Graph, sess.Thumbs)
				if err := ctl.Apply(editor.ActionSetInitial, editor.Target{Node: t.Node}, editor.Input{}); err != nil {
					return err
				}
				if n := sess.Graph.Initial(); n != nil {
					printSuccess("Story starts at %s", StyleNumber.Render(fmt.Sprintf("#%d", n.ID)))
				} else {
					printWarning("The story has no starting node")
				}
				return nil
			})
		},
	}
}

func (c *CLI) textCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "text <id> <text>",
		Short: "Set the text of a scene or an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.apply(cmd.Context(), editor.ActionSetText, args[0], editor.Input{Text: args[1]}); err != nil {
				return err
			}
			printSuccess("Updated %s", StyleNumber.Render("#"+args[0]))
			return nil
		},
	}
}

func (c *CLI) assignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <expression>",
		Short: `Set the assignment of a variable node, e.g. "gold += 10"`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := story.ParseAssignment(args[1])
			if err != nil {
				return err
			}
			if err := c.apply(cmd.Context(), editor.ActionSetAssignment, args[0], editor.Input{Assignment: a}); err != nil {
				return err
			}
			printSuccess("Variable %s: %s", StyleNumber.Render("#"+args[0]), StyleValue.Render(a.String()))
			return nil
		},
	}
}

func (c *CLI) imageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "image <id> <file>",
		Short: "Import an image into the project and show it in a scene",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), editing, func(sess *session.Session) error {
				t, err := resolveTarget(sess.Graph, args[0])
				if err != nil {
					return err
				}
				rel, err := sess.Project.ImportImage(args[1])
				if err != nil {
					return err
				}
				ctl := editor.New(sess.Graph, sess.Thumbs)
				if err := ctl.Apply(editor.ActionImportImage, t, editor.Input{ImagePath: rel}); err != nil {
					return err
				}
				printSuccess("Scene %s shows %s", StyleNumber.Render("#"+args[0]), rel)
				return nil
			})
		},
	}
}

// setText applies the SetText action to a node or answer id.
func setText(sess *session.Session, id story.ID, text string) error {
	t, err := resolveTarget(sess.Graph, strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return err
	}
	return editor.New(sess.Graph, sess.Thumbs).Apply(editor.ActionSetText, t, editor.Input{Text: text})
}
