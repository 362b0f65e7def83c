package render

import (
	"errors"
	"fmt"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

const (
	arrowWidth   = 2
	borderWidth  = 2
	markerSize   = 20
	textBaseline = 10
	crossLong    = 24
	crossShort   = 4
)

// DrawOption configures Draw.
type DrawOption func(*drawer)

type drawer struct {
	s        Surface
	viewport geom.Rect
	errs     []error
}

// WithViewport skips nodes whose body lies entirely outside r.
func WithViewport(r geom.Rect) DrawOption { return func(d *drawer) { d.viewport = r } }

// Draw paints g on s. Image failures do not stop the pass; they are joined
// into the returned error.
func Draw(s Surface, g *story.Graph, opts ...DrawOption) error {
	d := &drawer{s: s}
	for _, opt := range opts {
		opt(d)
	}

	for _, a := range g.Arrows() {
		from, to := g.Connector(a.Start), g.Connector(a.End)
		if from == nil || to == nil {
			continue
		}
		s.DrawLine(from.Center(), to.Center(), a.Color, arrowWidth)
	}
	if p, ok := g.Pending(); ok {
		if from := g.Connector(p.Origin); from != nil {
			s.DrawLine(from.Center(), p.Free, geom.Black, arrowWidth)
		}
	}

	for _, n := range g.Nodes() {
		if d.viewport != (geom.Rect{}) && !d.viewport.Overlaps(n.Bounds()) {
			continue
		}
		d.node(n)
	}
	return errors.Join(d.errs...)
}

func (d *drawer) node(n *story.Node) {
	switch n.Kind {
	case story.KindCircle:
		d.circle(n)
	case story.KindImage:
		d.scene(n)
	case story.KindChoice:
		d.choice(n)
	case story.KindVariable:
		d.variable(n)
	default:
		panic(fmt.Sprintf("render: unknown node kind %d", n.Kind))
	}
}

func border(n *story.Node) geom.Color {
	if n.Chosen {
		return geom.Highlight
	}
	return n.Color
}

func (d *drawer) connector(c *story.Connector) {
	if c != nil {
		d.s.FillRect(c.Bounds(), geom.Black)
	}
}

func (d *drawer) circle(n *story.Node) {
	d.connector(n.In)
	d.connector(n.Out)
	if n.Chosen {
		d.s.DrawCircle(n.Pos, n.Radius, geom.Highlight)
		d.s.DrawCircle(n.Pos, n.Radius-1, n.Color)
		return
	}
	d.s.DrawCircle(n.Pos, n.Radius, n.Color)
}

func (d *drawer) scene(n *story.Node) {
	body := n.Bounds()
	d.s.FillRect(body.Inset(borderWidth), border(n))
	if n.Image != nil && n.Image.Thumb != "" {
		if err := d.s.DrawImage(n.Image.Thumb, body); err != nil {
			d.errs = append(d.errs, fmt.Errorf("node %d: %w", n.ID, err))
		}
	}
	d.label(n.Label, geom.Pt(body.X+geom.Half(body.W), body.Y+body.H-textBaseline))
	d.connector(n.In)
	d.connector(n.Out)
	d.marker(n)
}

func (d *drawer) variable(n *story.Node) {
	body := n.Bounds()
	d.s.FillRect(body.Inset(borderWidth), border(n))
	d.s.FillRect(body, geom.VariableFill)
	d.label(n.Label, geom.Pt(body.X+geom.Half(body.W), body.Y+geom.Half(body.H)))
	d.connector(n.In)
	d.connector(n.Out)
	d.marker(n)
}

func (d *drawer) choice(n *story.Node) {
	d.s.FillRect(n.Bounds().Inset(borderWidth), border(n))
	d.connector(n.In)
	d.addButton(n.Add)
	for _, a := range n.Answers {
		r := a.Bounds()
		d.s.FillRect(r, a.Color)
		d.connector(a.Out)
		d.label(&a.Label, r.Center())
	}
}

func (d *drawer) addButton(c *story.Connector) {
	if c == nil {
		return
	}
	r := c.Bounds()
	mid := geom.Pt(r.X+geom.Half(r.W), r.Y+geom.Half(r.H))
	d.s.FillRect(r, geom.AddGreen)
	d.s.FillRect(geom.Rect{X: mid.X - crossShort/2, Y: mid.Y - crossLong/2, W: crossShort, H: crossLong}, geom.AddCross)
	d.s.FillRect(geom.Rect{X: mid.X - crossLong/2, Y: mid.Y - crossShort/2, W: crossLong, H: crossShort}, geom.AddCross)
}

func (d *drawer) label(l *story.Label, center geom.Point) {
	if l == nil || l.Text == "" {
		return
	}
	d.s.DrawText(l.Display(), LabelFont, center, geom.Black)
}

// marker draws the triangle pointing at the left edge of the initial node.
func (d *drawer) marker(n *story.Node) {
	if !n.Initial {
		return
	}
	mid := n.Pos.Y + geom.Half(n.Size.H)
	d.s.FillPolygon([]geom.Point{
		geom.Pt(n.Pos.X-markerSize, mid-markerSize),
		geom.Pt(n.Pos.X-markerSize, mid+markerSize),
		geom.Pt(n.Pos.X, mid),
	}, border(n))
}
