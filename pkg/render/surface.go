package render

import "github.com/matzehuels/novelgraph/pkg/geom"

// Font selects the face DrawText uses.
type Font struct {
	Size float64
	Bold bool
}

// LabelFont is the face node and answer labels are drawn with.
var LabelFont = Font{Size: 16}

// Surface is the drawing target the editor paints on.
type Surface interface {
	FillRect(r geom.Rect, c geom.Color)
	DrawCircle(center geom.Point, radius float64, c geom.Color)
	FillPolygon(pts []geom.Point, c geom.Color)
	DrawLine(p1, p2 geom.Point, c geom.Color, width float64)
	// DrawText draws text centred on center.
	DrawText(text string, f Font, center geom.Point, c geom.Color)
	// DrawImage draws the image file at path scaled into r.
	DrawImage(path string, r geom.Rect) error
}
