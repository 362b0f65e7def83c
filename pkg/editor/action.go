package editor

import (
	"fmt"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Action is an entry of the context menu.
type Action int

const (
	ActionSetInitial Action = iota + 1
	ActionDelete
	ActionSetText
	ActionSetAssignment
	ActionImportImage
	ActionDeleteAnswer
	ActionAddImage
	ActionAddChoice
	ActionAddVariable
)

var actionNames = map[Action]string{
	ActionSetInitial:    "Initial",
	ActionDelete:        "Delete",
	ActionSetText:       "Edit text",
	ActionSetAssignment: "Edit variable",
	ActionImportImage:   "Load image",
	ActionDeleteAnswer:  "Delete answer",
	ActionAddImage:      "Add scene",
	ActionAddChoice:     "Add answers",
	ActionAddVariable:   "Add variable",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// NeedsInput reports whether the action waits for a value from the user
// before it can be applied.
func (a Action) NeedsInput() bool {
	return a == ActionSetText || a == ActionSetAssignment || a == ActionImportImage
}

// Target is what a context menu was opened on. The zero Target is the empty
// canvas.
type Target struct {
	Node   story.ID
	Answer story.ID
}

// IsCanvas reports whether the target is the empty canvas.
func (t Target) IsCanvas() bool { return t.Node == story.NoID }

// ActionsFor lists the menu entries offered for t, in display order.
func ActionsFor(g *story.Graph, t Target) []Action {
	if t.IsCanvas() {
		return []Action{ActionAddImage, ActionAddChoice, ActionAddVariable}
	}
	if t.Answer != story.NoID {
		return []Action{ActionDelete, ActionSetText, ActionDeleteAnswer}
	}
	n := g.Node(t.Node)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case story.KindImage:
		return []Action{ActionDelete, ActionSetText, ActionSetInitial, ActionImportImage}
	case story.KindVariable:
		return []Action{ActionDelete, ActionSetInitial, ActionSetAssignment}
	case story.KindCircle, story.KindChoice:
		return []Action{ActionDelete, ActionSetInitial}
	}
	panic(fmt.Sprintf("editor: unknown node kind %d", n.Kind))
}

// Input carries the values an action needs.
type Input struct {
	// At is where Add actions place the new node.
	At         geom.Point
	Text       string
	Assignment story.Assignment
	ImagePath  string
}

// Apply performs a on t. Deleting an answer's menu target removes the whole
// choice node, as the Delete entry always acts on a node.
func (c *Controller) Apply(a Action, t Target, in Input) error {
	g := c.Graph
	if !t.IsCanvas() && g.Node(t.Node) == nil {
		return errors.New(errors.ErrCodeNotFound, "node %d does not exist", t.Node)
	}

	switch a {
	case ActionAddImage:
		g.Add(story.NewImage(in.At, geom.SceneBlue))
	case ActionAddChoice:
		g.Add(story.NewChoice(in.At, geom.ChoiceBlue, true))
	case ActionAddVariable:
		g.Add(story.NewVariable(in.At, geom.VariableOrange))
	case ActionSetInitial:
		g.SetInitial(t.Node)
	case ActionDelete:
		g.Remove(t.Node)
	case ActionDeleteAnswer:
		return g.RemoveAnswer(t.Answer)
	case ActionSetText:
		if t.Answer != story.NoID {
			ans, _ := g.Answer(t.Answer)
			if ans == nil {
				return errors.New(errors.ErrCodeNotFound, "answer %d does not exist", t.Answer)
			}
			ans.Label.Text = in.Text
			return nil
		}
		if !g.Node(t.Node).SetText(in.Text) {
			return errors.New(errors.ErrCodeInvalidInput, "node %d has no text", t.Node)
		}
	case ActionSetAssignment:
		if !g.Node(t.Node).SetAssignment(in.Assignment) {
			return errors.New(errors.ErrCodeInvalidInput, "node %d is not a variable", t.Node)
		}
	case ActionImportImage:
		return g.Node(t.Node).ReplaceImage(in.ImagePath, c.Thumbs)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown action %d", int(a))
	}
	return nil
}
