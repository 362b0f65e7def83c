// Package story provides the node graph a branching visual novel is edited
// as: scene, choice, variable and circle nodes placed on a 2D canvas and
// connected by directed arrows.
//
// # Overview
//
// A [Graph] is an arena of [Node] values indexed by explicit [ID]s. Nodes own
// their [Connector]s, and Choice nodes own an ordered stack of [Answer]s,
// each with a single output connector. Arrows never hold pointers: every
// endpoint is a [ConnRef], the identity of the owning node (and answer) plus
// the connector's polarity. Resolving a ConnRef through [Graph.Connector]
// yields the live connector.
//
//	g := story.New()
//	a := g.Add(story.NewImage(geom.Pt(200, 100), geom.SceneBlue))
//	b := g.Add(story.NewImage(geom.Pt(200, 300), geom.SceneBlue))
//	g.Connect(g.Node(a).OutRef(), g.Node(b).InRef())
//	g.SetInitial(a)
//
// # Node Kinds
//
// The variant set is closed. [Kind] values double as the persisted type tag:
//
//   - [KindCircle]: a disc with an output connector above and an input below
//   - [KindImage]: a scene with text, a size and an optional background image
//   - [KindChoice]: a branch point holding labelled answers
//   - [KindVariable]: an assignment such as "gold += 10" applied on the way
//
// Variant data lives in optional components ([Label], size, [ImageRef],
// answers) and behavior dispatches on [Node.Kind]. A switch over Kind that
// reaches an unknown value panics.
//
// # Arrows
//
// [Graph.Connect] enforces the arrow invariants: endpoints of opposite
// polarity, on different nodes, and no two arrows over the same unordered
// connector pair. Rejections are silent and reported as false. Stored arrows
// always run from an output connector to an input connector.
//
// # Selection and Gestures
//
// Selection is a set of node IDs. Each entry remembers whether it was made
// additively (shift held). [Graph.EndGesture] drops the non-additive entries
// when the pointer is released. An arrow being dragged is a [Gesture] with a
// fixed origin connector and a free end point.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The editor drives them from
// a single event loop.
package story
