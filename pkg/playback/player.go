package playback

import (
	"maps"
	"slices"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Player walks a compiled story.
type Player struct {
	story   *Story
	current *Step
	vars    map[string]float64
	history []story.ID
}

// NewPlayer starts s at its entry step.
func NewPlayer(s *Story) (*Player, error) {
	entry := s.EntryStep()
	if entry == nil {
		return nil, errors.New(errors.ErrCodeNoEntryPoint, "no scene is marked as the start of the story")
	}
	return &Player{
		story:   s,
		current: entry,
		vars:    make(map[string]float64),
		history: []story.ID{entry.Node},
	}, nil
}

// Current returns the step being shown.
func (p *Player) Current() *Step { return p.current }

// Done reports whether the current step is terminal.
func (p *Player) Done() bool { return p.current.Terminal() }

// Vars returns a copy of the variables set so far.
func (p *Player) Vars() map[string]float64 { return maps.Clone(p.vars) }

// History returns the node ids of every step shown, oldest first.
func (p *Player) History() []story.ID { return slices.Clone(p.history) }

// Step follows transition i of the current step. On a terminal step it does
// nothing.
func (p *Player) Step(i int) error {
	if p.current.Terminal() {
		return nil
	}
	if i < 0 || i >= len(p.current.Transitions) {
		return errors.New(errors.ErrCodeNoSuchTransition, "step %d has no transition %d", p.current.Node, i)
	}
	t := p.current.Transitions[i]
	next := p.story.Step(t.Target)
	if next == nil {
		return errors.New(errors.ErrCodeNoSuchTransition, "transition %d leads to unknown step %d", i, t.Target)
	}
	for _, a := range t.Effects {
		a.Apply(p.vars)
	}
	p.current = next
	p.history = append(p.history, next.Node)
	return nil
}

// Advance follows the first transition of a step that offers no choices.
func (p *Player) Advance() error {
	if p.current.HasChoices() {
		return errors.New(errors.ErrCodeNoSuchTransition, "step %d waits for a choice", p.current.Node)
	}
	return p.Step(0)
}
