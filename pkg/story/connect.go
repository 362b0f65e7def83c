package story

import (
	"slices"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// HitKind classifies what [Graph.FindHit] found under the pointer.
type HitKind int

const (
	HitNone HitKind = iota
	HitNode
	HitConnector
)

// Hit is the result of [Graph.FindHit]. Node is set for every hit; Conn only
// for connector hits.
type Hit struct {
	Kind HitKind
	Node ID
	Conn ConnRef
}

// FindHit returns the first thing under p, visiting nodes in insertion order
// and testing each body before its connectors. Pressing a choice's add button
// appends an answer and ends the search with no hit.
func (g *Graph) FindHit(p geom.Point) Hit {
	for _, id := range g.order {
		n := g.nodes[id]
		if n.HitTest(p) {
			return Hit{Kind: HitNode, Node: id}
		}
		if n.In != nil && n.In.HitTest(p) {
			return Hit{Kind: HitConnector, Node: id, Conn: n.In.Ref}
		}
		if n.Out != nil && n.Out.HitTest(p) {
			return Hit{Kind: HitConnector, Node: id, Conn: n.Out.Ref}
		}
		if n.Add != nil && n.Add.HitTest(p) {
			_, _ = g.AddAnswer(id)
			return Hit{}
		}
		for _, a := range n.Answers {
			if a.Out.HitTest(p) {
				return Hit{Kind: HitConnector, Node: id, Conn: a.Out.Ref}
			}
		}
	}
	return Hit{}
}

// ConnectorAt returns the first arrow endpoint under p.
func (g *Graph) ConnectorAt(p geom.Point) (ConnRef, bool) {
	for _, id := range g.order {
		for _, c := range g.nodes[id].Connectors() {
			if c.HitTest(p) {
				return c.Ref, true
			}
		}
	}
	return ConnRef{}, false
}

// Connector resolves r to the live connector, or nil when r names nothing.
func (g *Graph) Connector(r ConnRef) *Connector {
	n, ok := g.nodes[r.Node]
	if !ok {
		return nil
	}
	if r.Answer != NoID {
		if r.Receiver {
			return nil
		}
		if a := n.FindAnswer(r.Answer); a != nil {
			return a.Out
		}
		return nil
	}
	if r.Receiver {
		return n.In
	}
	return n.Out
}

// Arrows returns a copy of the arrows in insertion order.
func (g *Graph) Arrows() []Arrow { return slices.Clone(g.arrows) }

// ArrowCount returns the number of arrows.
func (g *Graph) ArrowCount() int { return len(g.arrows) }

// Outgoing returns the arrows whose start is owned by id, in insertion order.
func (g *Graph) Outgoing(id ID) []Arrow {
	var out []Arrow
	for _, a := range g.arrows {
		if a.StartKey() == id {
			out = append(out, a)
		}
	}
	return out
}

// Connect joins two connectors with a black arrow. See [Graph.Link].
func (g *Graph) Connect(a, b ConnRef) bool {
	return g.Link(Arrow{Start: a, End: b, Color: geom.Black})
}

// Link stores the arrow. It is rejected, and false returned, when either
// endpoint is unresolvable, both have the same polarity, both belong to the
// same node, or an arrow over the same pair exists. The stored arrow starts
// at the output connector.
func (g *Graph) Link(arrow Arrow) bool {
	a, b := arrow.Start, arrow.End
	if g.Connector(a) == nil || g.Connector(b) == nil {
		return false
	}
	if a.Receiver == b.Receiver || a.Node == b.Node {
		return false
	}
	if a.Receiver {
		arrow.Start, arrow.End = b, a
	}
	if slices.ContainsFunc(g.arrows, arrow.Equal) {
		return false
	}
	g.arrows = append(g.arrows, arrow)
	return true
}

// Disconnect removes every arrow touching the connector and returns how many
// were removed.
func (g *Graph) Disconnect(r ConnRef) int {
	before := len(g.arrows)
	g.arrows = slices.DeleteFunc(g.arrows, func(a Arrow) bool { return a.Touches(r) })
	return before - len(g.arrows)
}

// BeginArrow starts dragging an arrow out of the connector r.
func (g *Graph) BeginArrow(r ConnRef) bool {
	c := g.Connector(r)
	if c == nil {
		return false
	}
	g.gesture = &Gesture{Origin: r, Free: c.Center()}
	return true
}

// DragTo moves the free end of the pending arrow.
func (g *Graph) DragTo(p geom.Point) {
	if g.gesture != nil {
		g.gesture.Free = p
	}
}

// Pending returns the arrow being dragged, if any.
func (g *Graph) Pending() (Gesture, bool) {
	if g.gesture == nil {
		return Gesture{}, false
	}
	return *g.gesture, true
}

// CompleteArrow releases the pending arrow at p. It reports whether an arrow
// was committed; the gesture ends either way.
func (g *Graph) CompleteArrow(p geom.Point) bool {
	if g.gesture == nil {
		return false
	}
	origin := g.gesture.Origin
	g.gesture = nil
	target, ok := g.ConnectorAt(p)
	if !ok {
		return false
	}
	return g.Connect(origin, target)
}

// CancelArrow drops the pending arrow.
func (g *Graph) CancelArrow() { g.gesture = nil }
