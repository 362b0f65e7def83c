package story

import (
	"math"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// Hit box sides of connectors.
const (
	ConnectorSide = 20
	AddButtonSide = 30
)

// ID identifies a node or an answer within a Graph. Zero means "none".
type ID uint64

// NoID is the zero identity.
const NoID ID = 0

// MaxID is the largest identity a graph hands out or accepts, so the next
// identity after it still fits.
const MaxID ID = math.MaxUint64 - 1

// ConnRef identifies a connector by its owner and polarity. Answer is set
// when the connector belongs to an answer of the Choice node Node.
type ConnRef struct {
	Node     ID
	Answer   ID
	Receiver bool
}

// Owner returns the identity that owns the connector: the answer for answer
// connectors, otherwise the node.
func (r ConnRef) Owner() ID {
	if r.Answer != NoID {
		return r.Answer
	}
	return r.Node
}

// IsZero reports whether r references nothing.
func (r ConnRef) IsZero() bool { return r == ConnRef{} }

// Connector is a square arrow anchor attached to a node or an answer. Its
// position is derived from the owner and never set directly.
type Connector struct {
	Ref  ConnRef
	Pos  geom.Point
	Side float64
}

func newConnector(receiver bool, side float64) *Connector {
	return &Connector{Ref: ConnRef{Receiver: receiver}, Side: side}
}

// Reposition centres the connector horizontally on anchor with its top edge
// at anchor.Y.
func (c *Connector) Reposition(anchor geom.Point) {
	c.Pos = geom.Pt(anchor.X-c.Side/2, anchor.Y)
}

// Bounds returns the connector's hit box.
func (c *Connector) Bounds() geom.Rect { return geom.Square(c.Pos, c.Side) }

// HitTest reports whether p falls inside the hit box.
func (c *Connector) HitTest(p geom.Point) bool { return c.Bounds().Contains(p) }

// Center returns the midpoint of the hit box, where arrows attach.
func (c *Connector) Center() geom.Point { return c.Bounds().Center() }
