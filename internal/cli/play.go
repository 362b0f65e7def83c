package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/observability"
	"github.com/matzehuels/novelgraph/pkg/playback"
	"github.com/matzehuels/novelgraph/pkg/session"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Player styles
var (
	sceneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 2).
			Width(60)
	choiceSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	choiceNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	varStyle            = lipgloss.NewStyle().Foreground(colorGray)
)

// playCommand creates the play command that walks the story in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var route string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the story in the terminal",
		Long: `Play the story from its initial scene.

Scenes that offer choices wait for one to be picked with the arrow keys and
enter (or its number). Other scenes continue on any key.

With --route the story is played without the interface: each entry is the
index of the transition to follow, and every scene shown is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), reading, func(sess *session.Session) error {
				st, err := compileStory(cmd.Context(), sess.Graph)
				if err != nil {
					return err
				}
				pl, err := playback.NewPlayer(st)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("route") {
					return playRoute(cmd.Context(), pl, route)
				}
				m := newPlayerModel(cmd.Context(), pl)
				_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
				return err
			})
		},
	}

	cmd.Flags().StringVar(&route, "route", "", "comma-separated transition indexes to follow without the interface")
	return cmd
}

// compileStory compiles g and reports the result to the playback hooks.
func compileStory(ctx context.Context, g *story.Graph) (*playback.Story, error) {
	start := time.Now()
	st, err := playback.Compile(g)
	steps, warnings := 0, 0
	if st != nil {
		steps, warnings = len(st.Steps), len(st.Warnings)
	}
	observability.Playback().OnCompile(ctx, steps, warnings, time.Since(start), err)
	return st, err
}

// follow takes transition i and reports the step to the hooks.
func follow(ctx context.Context, pl *playback.Player, i int) error {
	from := pl.Current().Node
	if err := pl.Step(i); err != nil {
		return err
	}
	if to := pl.Current().Node; to != from {
		observability.Playback().OnStep(ctx, uint64(from), uint64(to))
	}
	return nil
}

// parseRoute parses "0,1,0" into transition indexes.
func parseRoute(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var route []int
	for _, part := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid route entry %q", part)
		}
		route = append(route, i)
	}
	return route, nil
}

// playRoute follows route and prints every step shown.
func playRoute(ctx context.Context, pl *playback.Player, route string) error {
	indexes, err := parseRoute(route)
	if err != nil {
		return err
	}
	printStep(pl.Current())
	for _, i := range indexes {
		if pl.Done() {
			break
		}
		if err := follow(ctx, pl, i); err != nil {
			return err
		}
		printStep(pl.Current())
	}
	if pl.Done() {
		printSuccess("The end")
	}
	return nil
}

func printStep(s *playback.Step) {
	printInfo("%s %s", StyleNumber.Render(fmt.Sprintf("#%d", s.Node)), StyleValue.Render(s.Text))
	for i, t := range s.Transitions {
		if t.Kind == playback.Choice {
			printDetail("%d) %s", i, t.Label)
		}
	}
}

// =============================================================================
// playerModel - Interactive story player
// =============================================================================

// playerModel is the bubbletea model for the story player.
type playerModel struct {
	ctx    context.Context
	player *playback.Player
	cursor int
	err    error
}

func newPlayerModel(ctx context.Context, pl *playback.Player) playerModel {
	return playerModel{ctx: ctx, player: pl}
}

func (m playerModel) Init() tea.Cmd {
	return nil
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}

	step := m.player.Current()
	if m.player.Done() {
		return m, tea.Quit
	}
	if !step.HasChoices() {
		return m.take(0), nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(step.Transitions)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.take(m.cursor), nil
	default:
		if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 && n <= len(step.Transitions) {
			return m.take(n - 1), nil
		}
	}
	return m, nil
}

// take follows transition i and resets the cursor.
func (m playerModel) take(i int) playerModel {
	m.err = follow(m.ctx, m.player, i)
	m.cursor = 0
	return m
}

func (m playerModel) View() string {
	var b strings.Builder
	step := m.player.Current()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Scene %d", step.Node)))
	b.WriteString("\n")
	text := step.Text
	if step.Image != "" {
		text += "\n\n" + StyleDim.Render(step.Image)
	}
	b.WriteString(sceneStyle.Render(text))
	b.WriteString("\n\n")

	switch {
	case m.player.Done():
		b.WriteString(StyleSuccess.Render("The end"))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("any key: quit"))
	case step.HasChoices():
		for i, t := range step.Transitions {
			line := fmt.Sprintf("%d. %s", i+1, t.Label)
			if i == m.cursor {
				b.WriteString(choiceSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(choiceNormalStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ choose  q quit"))
	default:
		b.WriteString(StyleDim.Render("any key: continue  q quit"))
	}

	if vars := m.player.Vars(); len(vars) > 0 {
		b.WriteString("\n\n")
		b.WriteString(varStyle.Render(formatVars(vars)))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(errors.UserMessage(m.err)))
	}
	return b.String()
}

// formatVars renders the variables sorted by name.
func formatVars(vars map[string]float64) string {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s = %s", k, strconv.FormatFloat(vars[k], 'g', -1, 64))
	}
	return strings.Join(parts, "  ")
}
