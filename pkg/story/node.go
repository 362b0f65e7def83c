package story

import (
	"fmt"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// Kind is the closed set of node variants. The numeric value is the type tag
// written to story documents.
type Kind int

const (
	KindCircle   Kind = 1
	KindImage    Kind = 2
	KindChoice   Kind = 3
	KindVariable Kind = 4
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k >= KindCircle && k <= KindVariable }

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindImage:
		return "image"
	case KindChoice:
		return "choice"
	case KindVariable:
		return "variable"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindCircle; k <= KindVariable; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Default geometry of freshly created nodes.
var (
	DefaultSceneSize = geom.Size{W: 120, H: 67}
	DefaultChoiceW   = 120.0
	DefaultRadius    = 40.0
)

// bodyInset is how far the hit box of a rectangular node extends past its
// drawn body.
const bodyInset = 2

// ImageRef is the background image of a scene. Thumb is the cached,
// downscaled copy; it is derived data and never persisted.
type ImageRef struct {
	Path  string
	Thumb string
}

// Node is a vertex of the story graph. Fields that only some kinds use are
// optional components and stay nil (or empty) for the others:
//
//	Circle:   Radius, In, Out
//	Image:    Label, Size, Image, In, Out
//	Choice:   Size, Answers, In, Add
//	Variable: Label, Size, In, Out
//
// Pos is the centre for circles and the top-left corner otherwise.
type Node struct {
	ID      ID
	Kind    Kind
	Pos     geom.Point
	Color   geom.Color
	Chosen  bool
	Initial bool

	Radius  float64
	Label   *Label
	Size    *geom.Size
	Image   *ImageRef
	Answers []*Answer

	In  *Connector
	Out *Connector
	Add *Connector
}

// NewCircle creates a circle centred on center.
func NewCircle(center geom.Point, radius float64, color geom.Color) *Node {
	n := &Node{
		Kind:   KindCircle,
		Color:  color,
		Radius: radius,
		In:     newConnector(true, ConnectorSide),
		Out:    newConnector(false, ConnectorSide),
	}
	n.MoveTo(center)
	return n
}

// NewImage creates a scene node of the default size centred on center.
func NewImage(center geom.Point, color geom.Color) *Node {
	size := DefaultSceneSize
	n := &Node{
		Kind:  KindImage,
		Color: color,
		Label: &Label{},
		Size:  &size,
		Image: &ImageRef{},
		In:    newConnector(true, ConnectorSide),
		Out:   newConnector(false, ConnectorSide),
	}
	n.MoveTo(centered(center, size))
	return n
}

// NewVariable creates a variable node of the default size centred on center.
func NewVariable(center geom.Point, color geom.Color) *Node {
	size := DefaultSceneSize
	n := &Node{
		Kind:  KindVariable,
		Color: color,
		Label: &Label{},
		Size:  &size,
		In:    newConnector(true, ConnectorSide),
		Out:   newConnector(false, ConnectorSide),
	}
	n.MoveTo(centered(center, size))
	return n
}

// NewChoice creates an empty choice node with its top-left corner at pos.
// When withAnswer is set the node starts with one blank answer.
func NewChoice(pos geom.Point, color geom.Color, withAnswer bool) *Node {
	n := &Node{
		Kind:  KindChoice,
		Color: color,
		Size:  &geom.Size{W: DefaultChoiceW},
		In:    newConnector(true, ConnectorSide),
		Add:   newConnector(true, AddButtonSide),
	}
	n.MoveTo(pos)
	if withAnswer {
		n.AddAnswer()
	}
	return n
}

func centered(center geom.Point, s geom.Size) geom.Point {
	return geom.Pt(center.X-geom.Half(s.W), center.Y-geom.Half(s.H))
}

// InRef returns the reference of the node's input connector.
func (n *Node) InRef() ConnRef { return ConnRef{Node: n.ID, Receiver: true} }

// OutRef returns the reference of the node's output connector. Choice nodes
// have none; use the answers' refs instead.
func (n *Node) OutRef() ConnRef { return ConnRef{Node: n.ID} }

// MoveTo places the node at p and repositions every connector it owns.
func (n *Node) MoveTo(p geom.Point) {
	n.Pos = p
	switch n.Kind {
	case KindCircle:
		n.Out.Reposition(geom.Pt(p.X, p.Y-n.Radius-ConnectorSide+1))
		n.In.Reposition(geom.Pt(p.X, p.Y+n.Radius))
	case KindImage, KindVariable:
		mid := p.X + geom.Half(n.Size.W)
		n.In.Reposition(geom.Pt(mid, p.Y-ConnectorSide))
		n.Out.Reposition(geom.Pt(mid, p.Y+n.Size.H))
	case KindChoice:
		n.restack()
		mid := p.X + geom.Half(n.Size.W)
		n.In.Reposition(geom.Pt(mid, p.Y-ConnectorSide))
		n.Add.Reposition(geom.Pt(mid, p.Y+n.Size.H+2))
	default:
		panic(fmt.Sprintf("story: unknown node kind %d", n.Kind))
	}
}

// Bounds returns the drawn body of the node.
func (n *Node) Bounds() geom.Rect {
	switch n.Kind {
	case KindCircle:
		return geom.Circle{Center: n.Pos, Radius: n.Radius}.Bounds()
	case KindImage, KindChoice, KindVariable:
		return geom.RectAt(n.Pos, *n.Size)
	}
	panic(fmt.Sprintf("story: unknown node kind %d", n.Kind))
}

// HitTest reports whether p falls on the node body.
func (n *Node) HitTest(p geom.Point) bool {
	switch n.Kind {
	case KindCircle:
		return geom.Circle{Center: n.Pos, Radius: n.Radius}.Contains(p)
	case KindImage, KindChoice, KindVariable:
		return n.Bounds().Inset(bodyInset).Contains(p)
	}
	panic(fmt.Sprintf("story: unknown node kind %d", n.Kind))
}

// Connectors returns every arrow endpoint the node owns: its input, its
// output and, for choices, each answer's output. The add button is not an
// endpoint.
func (n *Node) Connectors() []*Connector {
	var out []*Connector
	if n.In != nil {
		out = append(out, n.In)
	}
	if n.Out != nil {
		out = append(out, n.Out)
	}
	for _, a := range n.Answers {
		out = append(out, a.Out)
	}
	return out
}

// Text returns the label text, or "" for kinds without a label.
func (n *Node) Text() string {
	if n.Label == nil {
		return ""
	}
	return n.Label.Text
}

// SetText replaces the label text. It reports false for kinds without a
// label.
func (n *Node) SetText(s string) bool {
	if n.Label == nil {
		return false
	}
	n.Label.Text = s
	return true
}

// bind stamps id onto the node and every connector it owns.
func (n *Node) bind(id ID) {
	n.ID = id
	for _, c := range []*Connector{n.In, n.Out, n.Add} {
		if c != nil {
			c.Ref.Node = id
		}
	}
	for _, a := range n.Answers {
		a.bind(id, a.ID)
	}
}
