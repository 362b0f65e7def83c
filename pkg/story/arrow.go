package story

import "github.com/matzehuels/novelgraph/pkg/geom"

// Arrow is a directed edge between two connectors. Stored arrows always run
// from an output connector (Start) to an input connector (End).
type Arrow struct {
	Start ConnRef
	End   ConnRef
	Color geom.Color
}

// Equal reports whether a and o join the same unordered connector pair.
func (a Arrow) Equal(o Arrow) bool {
	return (a.Start == o.Start && a.End == o.End) ||
		(a.Start == o.End && a.End == o.Start)
}

// ContainsNode reports whether either endpoint belongs to the node id. Answer
// endpoints belong to their choice.
func (a Arrow) ContainsNode(id ID) bool {
	return a.Start.Node == id || a.End.Node == id
}

// Touches reports whether either endpoint is the connector r.
func (a Arrow) Touches(r ConnRef) bool { return a.Start == r || a.End == r }

// StartKey returns the identity owning the start connector.
func (a Arrow) StartKey() ID { return a.Start.Owner() }

// EndKey returns the identity owning the end connector.
func (a Arrow) EndKey() ID { return a.End.Owner() }

// Gesture is an arrow being dragged out of Origin. Free is the pointer end.
type Gesture struct {
	Origin ConnRef
	Free   geom.Point
}
