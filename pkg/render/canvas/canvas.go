// Package canvas implements [render.Surface] on an in-memory raster image.
//
// It is the backend behind `novelgraph export -f png`: the graph is drawn
// exactly as the editor paints it and written out as a PNG.
package canvas

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/novelgraph/pkg/fonts"
	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
)

// Canvas is a raster drawing surface.
type Canvas struct {
	dc    *gg.Context
	faces map[render.Font]font.Face
}

// New creates a white canvas of w x h pixels.
func New(w, h int) *Canvas {
	dc := gg.NewContext(w, h)
	dc.SetColor(geom.White)
	dc.Clear()
	return &Canvas{dc: dc, faces: make(map[render.Font]font.Face)}
}

// Translate shifts every later drawing call by (dx, dy).
func (c *Canvas) Translate(dx, dy float64) { c.dc.Translate(dx, dy) }

// Image returns the drawn image.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the canvas to w as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

func (c *Canvas) FillRect(r geom.Rect, col geom.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.Fill()
}

func (c *Canvas) DrawCircle(center geom.Point, radius float64, col geom.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.Fill()
}

func (c *Canvas) FillPolygon(pts []geom.Point, col geom.Color) {
	if len(pts) < 3 {
		return
	}
	c.dc.SetColor(col)
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.Fill()
}

func (c *Canvas) DrawLine(p1, p2 geom.Point, col geom.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	c.dc.Stroke()
}

func (c *Canvas) DrawText(text string, f render.Font, center geom.Point, col geom.Color) {
	c.dc.SetFontFace(c.face(f))
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(text, center.X, center.Y, 0.5, 0.5)
}

// face returns the Go font at f, falling back to the fixed bitmap face when
// the TTF data cannot be parsed.
func (c *Canvas) face(f render.Font) font.Face {
	if face, ok := c.faces[f]; ok {
		return face
	}
	face, err := fonts.Face(f.Size, f.Bold)
	if err != nil {
		face = basicfont.Face7x13
	}
	c.faces[f] = face
	return face
}

func (c *Canvas) DrawImage(path string, r geom.Rect) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	w, h := int(r.W), int(r.H)
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	c.dc.DrawImage(img, int(r.X), int(r.Y))
	return nil
}

var _ render.Surface = (*Canvas)(nil)
