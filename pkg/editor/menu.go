package editor

import (
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Menu row geometry.
const (
	MenuWidth  = 180
	MenuRowH   = 60
	menuRowGap = 1
)

var (
	menuColor   = geom.AnswerGray
	menuHover   = geom.RGB(0, 128, 128)
	menuText    = geom.White
	menuRowFont = render.Font{Size: 16, Bold: true}
)

// Menu is an open context menu. Rows are stacked downwards from Pos.
type Menu struct {
	Pos     geom.Point
	Target  Target
	Actions []Action
	// Hover is the row under the pointer, or -1.
	Hover int
}

func newMenu(g *story.Graph, pos geom.Point, t Target) *Menu {
	return &Menu{Pos: pos, Target: t, Actions: ActionsFor(g, t), Hover: -1}
}

func (m *Menu) row(i int) geom.Rect {
	return geom.Rect{X: m.Pos.X, Y: m.Pos.Y + float64(i)*(MenuRowH+menuRowGap), W: MenuWidth, H: MenuRowH}
}

// RowAt returns the index of the row under p, or -1.
func (m *Menu) RowAt(p geom.Point) int {
	for i := range m.Actions {
		if m.row(i).Contains(p) {
			return i
		}
	}
	return -1
}

// Draw paints the menu on s.
func (m *Menu) Draw(s render.Surface) {
	for i, a := range m.Actions {
		r := m.row(i)
		c := menuColor
		if i == m.Hover {
			c = menuHover
		}
		s.FillRect(r, c)
		s.DrawText(a.String(), menuRowFont, geom.Pt(r.X+geom.Half(r.W), r.Y+geom.Half(r.H)), menuText)
	}
}
