package canvas

import (
	"io"
	"math"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// Margin is the space left around the graph by Fit.
const Margin = 40

// Fit creates a canvas just large enough for g and shifts it so the graph
// sits Margin pixels from the top-left corner.
func Fit(g *story.Graph) *Canvas {
	b := g.Bounds()
	w := int(math.Ceil(b.W)) + 2*Margin
	h := int(math.Ceil(b.H)) + 2*Margin
	c := New(max(w, 1), max(h, 1))
	c.Translate(Margin-b.X, Margin-b.Y)
	return c
}

// WritePNG draws g on a fitted canvas and writes it to w. Image failures are
// returned after the PNG has been written.
func WritePNG(g *story.Graph, w io.Writer) error {
	c := Fit(g)
	drawErr := render.Draw(c, g)
	if err := c.EncodePNG(w); err != nil {
		return err
	}
	return drawErr
}

// Screen creates a canvas of the given screen size that only draws nodes in
// view, as the editor window does.
func Screen(g *story.Graph, size geom.Size, w io.Writer) error {
	c := New(int(size.W), int(size.H))
	drawErr := render.Draw(c, g, render.WithViewport(geom.Rect{W: size.W, H: size.H}))
	if err := c.EncodePNG(w); err != nil {
		return err
	}
	return drawErr
}
