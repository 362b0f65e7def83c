package story

import (
	"slices"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// answerGap is the vertical spacing between stacked answers.
const answerGap = 1

// Answer is one labelled branch of a Choice node. It is not a node of its
// own: it lives in its choice's Answers stack and owns a single output
// connector.
type Answer struct {
	ID     ID
	Choice ID
	Pos    geom.Point
	Color  geom.Color
	Label  Label
	Size   geom.Size
	Out    *Connector
}

func newAnswer(width float64) *Answer {
	return &Answer{
		Color: geom.AnswerGray,
		Size:  geom.Size{W: width, H: width / 3},
		Out:   newConnector(false, ConnectorSide),
	}
}

// OutRef returns the reference of the answer's output connector.
func (a *Answer) OutRef() ConnRef { return ConnRef{Node: a.Choice, Answer: a.ID} }

// MoveTo places the answer at p and repositions its connector.
func (a *Answer) MoveTo(p geom.Point) {
	a.Pos = p
	a.Out.Reposition(geom.Pt(p.X+a.Size.W+10, p.Y+geom.Half(a.Size.H)-10))
}

// Bounds returns the answer's body.
func (a *Answer) Bounds() geom.Rect { return geom.RectAt(a.Pos, a.Size) }

// HitTest reports whether p falls on the answer body.
func (a *Answer) HitTest(p geom.Point) bool { return a.Bounds().Contains(p) }

func (a *Answer) bind(choice, id ID) {
	a.Choice = choice
	a.ID = id
	a.Out.Ref = ConnRef{Node: choice, Answer: id}
}

// AddAnswer appends a blank answer sized to the node width and grows the
// node by the answer height plus spacing. It returns nil for non-choice
// nodes. Answers added to a node that is not yet in a Graph receive their
// identity when the node is added.
func (n *Node) AddAnswer() *Answer {
	if n.Kind != KindChoice {
		return nil
	}
	a := newAnswer(n.Size.W)
	a.bind(n.ID, NoID)
	n.Answers = append(n.Answers, a)
	n.MoveTo(n.Pos)
	return a
}

// AppendAnswer adds a fully formed answer, as read from a document, to the
// bottom of the stack.
func (n *Node) AppendAnswer(a *Answer) {
	if n.Kind != KindChoice {
		return
	}
	if a.Out == nil {
		a.Out = newConnector(false, ConnectorSide)
	}
	a.bind(n.ID, a.ID)
	n.Answers = append(n.Answers, a)
	n.MoveTo(n.Pos)
}

// RemoveAnswer removes the answer with the given id and shrinks the node.
// It reports whether an answer was removed.
func (n *Node) RemoveAnswer(id ID) bool {
	i := slices.IndexFunc(n.Answers, func(a *Answer) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	n.Answers = slices.Delete(n.Answers, i, i+1)
	n.MoveTo(n.Pos)
	return true
}

// AnswerAt returns the answer under p, or nil.
func (n *Node) AnswerAt(p geom.Point) *Answer {
	for _, a := range n.Answers {
		if a.HitTest(p) {
			return a
		}
	}
	return nil
}

// FindAnswer returns the answer with the given id, or nil.
func (n *Node) FindAnswer(id ID) *Answer {
	for _, a := range n.Answers {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// restack lays the answers out as a contiguous column from the node's
// position and derives the node height from them.
func (n *Node) restack() {
	y := n.Pos.Y
	h := 0.0
	for _, a := range n.Answers {
		a.MoveTo(geom.Pt(n.Pos.X, y))
		y += a.Size.H + answerGap
		h += a.Size.H + answerGap
	}
	n.Size.H = h
}
