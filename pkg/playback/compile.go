// Package playback compiles a story graph into the steps a reader walks
// through.
//
// Every scene (Image node) becomes a [Step]. Its transitions are derived
// from its outgoing arrows:
//
//   - If one of the successors is a Choice node, the first such choice is
//     collapsed into the scene: one labelled [Choice] transition per answer
//     that leads somewhere, pointing at the scene that answer's arrow reaches.
//   - Otherwise every successor scene becomes an unlabelled [Auto]
//     transition ("press any key").
//
// Variable nodes on the way are transparent: their assignments are gathered
// into [Transition.Effects] and the walk continues along their first
// outgoing arrow. Choice, Variable and Circle nodes never become steps.
//
// A choice with several predecessors is resolved once per predecessor; the
// graph itself is never rewritten.
package playback

import (
	"fmt"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// TransitionKind tells how a transition is triggered.
type TransitionKind int

const (
	// Auto transitions fire on any key.
	Auto TransitionKind = iota
	// Choice transitions are picked by the reader from labelled buttons.
	Choice
)

func (k TransitionKind) String() string {
	if k == Choice {
		return "choice"
	}
	return "auto"
}

// Transition leads from one step to another.
type Transition struct {
	Kind    TransitionKind     `json:"kind"`
	Label   string             `json:"label,omitempty"`
	Target  story.ID           `json:"target"`
	Effects []story.Assignment `json:"effects,omitempty"`
}

// Step is one displayable scene.
type Step struct {
	Node        story.ID     `json:"node"`
	Text        string       `json:"text"`
	Image       string       `json:"image,omitempty"`
	Transitions []Transition `json:"transitions"`
}

// Terminal reports whether the step has nowhere to go.
func (s *Step) Terminal() bool { return len(s.Transitions) == 0 }

// HasChoices reports whether the reader must pick a transition.
func (s *Step) HasChoices() bool {
	for _, t := range s.Transitions {
		if t.Kind == Choice {
			return true
		}
	}
	return false
}

// Story is a compiled graph.
type Story struct {
	Steps []*Step  `json:"steps"`
	Entry story.ID `json:"entry"`
	// Warnings lists non-fatal problems such as unparsable variable nodes.
	Warnings []string `json:"warnings,omitempty"`

	index map[story.ID]int
}

// Step returns the step compiled from the node id, or nil.
func (s *Story) Step(id story.ID) *Step {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.Steps[i]
}

// EntryStep returns the first step, or nil when the story has no entry point.
func (s *Story) EntryStep() *Step { return s.Step(s.Entry) }

// Compile turns g into a Story. When no scene is flagged initial the story is
// still returned, together with a NO_ENTRY_POINT error.
func Compile(g *story.Graph) (*Story, error) {
	c := &compiler{g: g, warned: make(map[story.ID]bool)}
	s := &Story{index: make(map[story.ID]int)}

	for _, n := range g.Nodes() {
		if n.Kind != story.KindImage {
			continue
		}
		step := &Step{Node: n.ID, Text: n.Text(), Image: n.Image.Path}
		step.Transitions = c.transitions(n)
		s.index[n.ID] = len(s.Steps)
		s.Steps = append(s.Steps, step)
		if n.Initial {
			s.Entry = n.ID
		}
	}
	s.Warnings = c.warnings

	if s.Entry == story.NoID {
		return s, errors.New(errors.ErrCodeNoEntryPoint, "no scene is marked as the start of the story")
	}
	return s, nil
}

type compiler struct {
	g        *story.Graph
	warnings []string
	warned   map[story.ID]bool
}

// target is where an arrow ends up after skipping variable nodes.
type target struct {
	node    *story.Node
	effects []story.Assignment
}

func (c *compiler) transitions(n *story.Node) []Transition {
	var succ []target
	for _, a := range c.g.Outgoing(n.ID) {
		if t, ok := c.follow(a.End.Node); ok {
			succ = append(succ, t)
		}
	}

	for _, t := range succ {
		if t.node.Kind == story.KindChoice {
			return c.choices(t)
		}
	}

	out := []Transition{}
	for _, t := range succ {
		out = append(out, Transition{Kind: Auto, Target: t.node.ID, Effects: t.effects})
	}
	return out
}

func (c *compiler) choices(choice target) []Transition {
	out := []Transition{}
	for _, ans := range choice.node.Answers {
		arrows := c.g.Outgoing(ans.ID)
		if len(arrows) == 0 {
			continue
		}
		t, ok := c.follow(arrows[0].End.Node)
		if !ok || t.node.Kind != story.KindImage {
			continue
		}
		effects := append(append([]story.Assignment(nil), choice.effects...), t.effects...)
		out = append(out, Transition{Kind: Choice, Label: ans.Label.Text, Target: t.node.ID, Effects: effects})
	}
	return out
}

func (c *compiler) warn(id story.ID, err error) {
	if c.warned[id] {
		return
	}
	c.warned[id] = true
	c.warnings = append(c.warnings, fmt.Sprintf("variable node %d: %s", id, errors.UserMessage(err)))
}

// follow walks from id through variable nodes to the first scene or choice.
func (c *compiler) follow(id story.ID) (target, bool) {
	var effects []story.Assignment
	seen := make(map[story.ID]bool)
	for {
		n := c.g.Node(id)
		if n == nil || seen[id] {
			return target{}, false
		}
		seen[id] = true

		switch n.Kind {
		case story.KindImage, story.KindChoice:
			return target{node: n, effects: effects}, true
		case story.KindCircle:
			return target{}, false
		case story.KindVariable:
			if a, err := n.Assignment(); err != nil {
				c.warn(n.ID, err)
			} else {
				effects = append(effects, a)
			}
			next := c.g.Outgoing(n.ID)
			if len(next) == 0 {
				return target{}, false
			}
			id = next[0].End.Node
		default:
			panic(fmt.Sprintf("playback: unknown node kind %d", n.Kind))
		}
	}
}
