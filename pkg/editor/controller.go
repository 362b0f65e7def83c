// Package editor turns polled input into graph edits.
//
// A [Controller] consumes one [Snapshot] per frame, in the order the events
// arrived, and mutates its [story.Graph] synchronously:
//
//   - left press on a node selects it (kept after release with shift), on a
//     connector starts an arrow; release ends the gesture
//   - dragging with the left button moves the selection and the arrow end,
//     with the middle button pans the canvas
//   - right press on a connector removes its arrows, elsewhere opens the
//     context [Menu]
//   - the wheel zooms, held arrow keys pan
//
// Menu entries that need a value from the user (text, assignment, image)
// are handed back through [Controller.Request]; the presentation layer
// collects the value and calls [Controller.Apply].
package editor

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Defaults for Controller steps.
const (
	DefaultPanStep  = 20
	DefaultZoomStep = 5
)

// Request is a menu entry waiting for user input.
type Request struct {
	Action Action
	Target Target
	At     geom.Point
}

// Controller applies input to a graph.
type Controller struct {
	Graph  *story.Graph
	Thumbs story.Thumbnailer
	// PanStep is how far held arrow keys move the canvas per frame.
	PanStep float64
	// ZoomStep scales wheel movement into size change.
	ZoomStep float64
	Logger   *log.Logger

	menu    *Menu
	request *Request
}

// New creates a controller with default steps.
func New(g *story.Graph, thumbs story.Thumbnailer) *Controller {
	return &Controller{Graph: g, Thumbs: thumbs, PanStep: DefaultPanStep, ZoomStep: DefaultZoomStep}
}

func (c *Controller) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// Menu returns the open context menu, or nil.
func (c *Controller) Menu() *Menu { return c.menu }

// Request returns the pending input request and clears it.
func (c *Controller) Request() (Request, bool) {
	if c.request == nil {
		return Request{}, false
	}
	r := *c.request
	c.request = nil
	return r, true
}

// Process applies one frame of input. It reports whether anything happened
// that calls for a redraw and a commit.
func (c *Controller) Process(s Snapshot) bool {
	for _, ev := range s.Events {
		if c.menu != nil && ev.changesState() {
			if ev.Kind == PointerDown && ev.Button == ButtonLeft {
				c.chooseMenu(s.Pointer)
			}
			c.menu = nil
			break
		}
		c.handle(ev, s)
	}

	if c.pan(s.Keys) {
		return true
	}
	if c.menu != nil && s.Focused {
		c.menu.Hover = c.menu.RowAt(s.Pointer)
	}
	return len(s.Events) > 0
}

func (c *Controller) handle(ev Event, s Snapshot) {
	g := c.Graph
	switch ev.Kind {
	case PointerDown:
		switch ev.Button {
		case ButtonLeft:
			switch hit := g.FindHit(s.Pointer); hit.Kind {
			case story.HitNode:
				g.Select(hit.Node, s.Shift)
			case story.HitConnector:
				g.BeginArrow(hit.Conn)
			}
		case ButtonRight:
			switch hit := g.FindHit(s.Pointer); hit.Kind {
			case story.HitNode:
				c.openMenu(s.Pointer, hit.Node)
				g.Deselect(hit.Node)
			case story.HitConnector:
				g.Disconnect(hit.Conn)
			default:
				c.menu = newMenu(g, s.Pointer, Target{})
			}
		}

	case PointerUp:
		if ev.Button != ButtonLeft {
			return
		}
		g.EndGesture()
		if _, ok := g.Pending(); ok {
			g.CompleteArrow(s.Pointer)
		}

	case PointerMotion:
		if !s.Focused {
			return
		}
		switch {
		case s.Buttons.Has(ButtonLeft):
			g.MoveSelected(ev.Rel.X, ev.Rel.Y)
			g.DragTo(s.Pointer)
		case s.Buttons.Has(ButtonMiddle):
			g.MoveAll(ev.Rel.X, ev.Rel.Y)
		}

	case Wheel:
		if err := g.Zoom(ev.DY, c.ZoomStep, c.Thumbs); err != nil {
			c.logger().Warn("zoom left some thumbnails stale", "err", err)
		}
	}
}

// openMenu opens the menu on a node, or on the answer under p when the node
// is a choice.
func (c *Controller) openMenu(p geom.Point, id story.ID) {
	t := Target{Node: id}
	if n := c.Graph.Node(id); n != nil && n.Kind == story.KindChoice {
		if a := n.AnswerAt(p); a != nil {
			t.Answer = a.ID
		}
	}
	c.menu = newMenu(c.Graph, p, t)
}

func (c *Controller) chooseMenu(p geom.Point) {
	m := c.menu
	i := m.RowAt(p)
	if i < 0 {
		return
	}
	a := m.Actions[i]
	if a.NeedsInput() {
		c.request = &Request{Action: a, Target: m.Target, At: p}
		return
	}
	if err := c.Apply(a, m.Target, Input{At: p}); err != nil {
		c.logger().Warn("menu action failed", "action", a, "err", err)
	}
}

// pan moves the canvas for held arrow keys. The canvas moves against the
// key so the view travels with it.
func (c *Controller) pan(k Keys) bool {
	step := c.PanStep
	if step <= 0 {
		step = DefaultPanStep
	}
	var dx, dy float64
	if k.Has(KeyRight) {
		dx -= step
	}
	if k.Has(KeyLeft) {
		dx += step
	}
	if k.Has(KeyUp) {
		dy += step
	}
	if k.Has(KeyDown) {
		dy -= step
	}
	if k == 0 {
		return false
	}
	c.Graph.MoveAll(dx, dy)
	return true
}

// Draw paints the graph and the open menu on s.
func (c *Controller) Draw(s render.Surface, viewport geom.Rect) error {
	err := render.Draw(s, c.Graph, render.WithViewport(viewport))
	if c.menu != nil {
		c.menu.Draw(s)
	}
	return err
}
