package story

import (
	"errors"
	"slices"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

var (
	// ErrInvalidID is returned by [Graph.AddWithID] for the zero identity and
	// for identities above [MaxID].
	ErrInvalidID = errors.New("identity must be between 1 and MaxID")

	// ErrDuplicateID is returned by [Graph.AddWithID] when the node, or one of
	// its answers, reuses an identity already present in the graph.
	ErrDuplicateID = errors.New("duplicate identity")

	// ErrUnknownNode is returned when an operation names a node that is not in
	// the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownAnswer is returned when an operation names an answer that is
	// not in the graph.
	ErrUnknownAnswer = errors.New("unknown answer")

	// ErrNotChoice is returned by answer operations on nodes that are not
	// choices.
	ErrNotChoice = errors.New("node is not a choice node")
)

// Graph is the story document: the nodes, the arrows between their
// connectors, the selection and the arrow gesture in progress.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	nodes    map[ID]*Node
	order    []ID
	answers  map[ID]ID
	arrows   []Arrow
	selected map[ID]bool
	selOrder []ID
	gesture  *Gesture
	nextID   ID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[ID]*Node),
		answers:  make(map[ID]ID),
		selected: make(map[ID]bool),
		nextID:   1,
	}
}

func (g *Graph) alloc() ID {
	for g.taken(g.nextID) {
		g.nextID++
	}
	if g.nextID > MaxID {
		panic("story: identities exhausted")
	}
	id := g.nextID
	g.nextID++
	return id
}

func (g *Graph) taken(id ID) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	_, ok := g.answers[id]
	return ok
}

func (g *Graph) reserve(id ID) {
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// Add inserts n under a fresh identity and returns it. Its answers are given
// fresh identities too.
func (g *Graph) Add(n *Node) ID {
	id := g.alloc()
	for _, a := range n.Answers {
		a.ID = g.alloc()
	}
	g.insert(n, id)
	return id
}

// AddWithID inserts n under a caller-chosen identity, as the document loader
// does. Answers that carry an identity keep it; the others are given one.
func (g *Graph) AddWithID(n *Node, id ID) error {
	if id == NoID || id > MaxID {
		return ErrInvalidID
	}
	if g.taken(id) {
		return ErrDuplicateID
	}
	seen := map[ID]bool{id: true}
	for _, a := range n.Answers {
		if a.ID == NoID {
			continue
		}
		if a.ID > MaxID {
			return ErrInvalidID
		}
		if seen[a.ID] || g.taken(a.ID) {
			return ErrDuplicateID
		}
		seen[a.ID] = true
	}
	for sid := range seen {
		g.reserve(sid)
	}
	for _, a := range n.Answers {
		if a.ID == NoID {
			a.ID = g.alloc()
		}
	}
	g.insert(n, id)
	return nil
}

func (g *Graph) insert(n *Node, id ID) {
	n.bind(id)
	g.reserve(id)
	g.nodes[id] = n
	g.order = append(g.order, id)
	for _, a := range n.Answers {
		g.answers[a.ID] = id
	}
	if n.Initial {
		g.clearInitial()
		n.Initial = true
	}
}

// Remove deletes the node, every arrow touching it or its answers, and its
// selection entry. It reports whether the node existed.
func (g *Graph) Remove(id ID) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	g.arrows = slices.DeleteFunc(g.arrows, func(a Arrow) bool { return a.ContainsNode(id) })
	g.Deselect(id)
	for _, a := range n.Answers {
		delete(g.answers, a.ID)
	}
	if g.gesture != nil && g.gesture.Origin.Node == id {
		g.gesture = nil
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(x ID) bool { return x == id })
	return true
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id ID) *Node { return g.nodes[id] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of top-level nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Answer returns the answer with the given id together with its choice.
func (g *Graph) Answer(id ID) (*Answer, *Node) {
	cid, ok := g.answers[id]
	if !ok {
		return nil, nil
	}
	n := g.nodes[cid]
	return n.FindAnswer(id), n
}

// AddAnswer appends a blank answer to the choice node and returns its id.
func (g *Graph) AddAnswer(choice ID) (ID, error) {
	n, ok := g.nodes[choice]
	if !ok {
		return NoID, ErrUnknownNode
	}
	if n.Kind != KindChoice {
		return NoID, ErrNotChoice
	}
	a := n.AddAnswer()
	a.bind(choice, g.alloc())
	g.answers[a.ID] = choice
	return a.ID, nil
}

// RemoveAnswer deletes the answer and every arrow touching its connector.
func (g *Graph) RemoveAnswer(id ID) error {
	a, n := g.Answer(id)
	if a == nil {
		return ErrUnknownAnswer
	}
	ref := a.OutRef()
	g.arrows = slices.DeleteFunc(g.arrows, func(x Arrow) bool { return x.Touches(ref) })
	if g.gesture != nil && g.gesture.Origin == ref {
		g.gesture = nil
	}
	n.RemoveAnswer(id)
	delete(g.answers, id)
	return nil
}

// SetInitial toggles the initial flag of the node. Marking a node clears the
// flag everywhere else first; marking the current initial node unmarks it.
func (g *Graph) SetInitial(id ID) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	if n.Initial {
		n.Initial = false
		return true
	}
	g.clearInitial()
	n.Initial = true
	return true
}

func (g *Graph) clearInitial() {
	for _, n := range g.nodes {
		n.Initial = false
	}
}

// Initial returns the node flagged initial, or nil.
func (g *Graph) Initial() *Node {
	for _, id := range g.order {
		if n := g.nodes[id]; n.Initial {
			return n
		}
	}
	return nil
}

// Select adds the node to the selection. Additive selections survive
// [Graph.EndGesture].
func (g *Graph) Select(id ID, additive bool) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	if _, ok := g.selected[id]; !ok {
		g.selOrder = append(g.selOrder, id)
	}
	g.selected[id] = g.selected[id] || additive
	n.Chosen = true
}

// Deselect removes the node from the selection.
func (g *Graph) Deselect(id ID) {
	if _, ok := g.selected[id]; !ok {
		return
	}
	delete(g.selected, id)
	g.selOrder = slices.DeleteFunc(g.selOrder, func(x ID) bool { return x == id })
	if n, ok := g.nodes[id]; ok {
		n.Chosen = false
	}
}

// ClearSelection empties the selection.
func (g *Graph) ClearSelection() {
	for _, id := range slices.Clone(g.selOrder) {
		g.Deselect(id)
	}
}

// EndGesture closes a pointer gesture: selections that were not made
// additively are dropped.
func (g *Graph) EndGesture() {
	for _, id := range slices.Clone(g.selOrder) {
		if !g.selected[id] {
			g.Deselect(id)
		}
	}
}

// Selected returns the selected node ids in selection order.
func (g *Graph) Selected() []ID { return slices.Clone(g.selOrder) }

// IsSelected reports whether the node is selected.
func (g *Graph) IsSelected(id ID) bool {
	_, ok := g.selected[id]
	return ok
}

// MoveSelected translates every selected node.
func (g *Graph) MoveSelected(dx, dy float64) {
	for _, id := range g.selOrder {
		n := g.nodes[id]
		n.MoveTo(n.Pos.Add(dx, dy))
	}
}

// MoveAll translates every node, panning the canvas.
func (g *Graph) MoveAll(dx, dy float64) {
	for _, id := range g.order {
		n := g.nodes[id]
		n.MoveTo(n.Pos.Add(dx, dy))
	}
}

// Bounds returns the rectangle enclosing every node body and connector.
func (g *Graph) Bounds() geom.Rect {
	var r geom.Rect
	for _, n := range g.Nodes() {
		r = r.Union(n.Bounds())
		for _, c := range n.Connectors() {
			r = r.Union(c.Bounds())
		}
		if n.Add != nil {
			r = r.Union(n.Add.Bounds())
		}
	}
	return r
}
