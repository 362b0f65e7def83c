package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/render"
	"github.com/matzehuels/novelgraph/pkg/story"
)

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestFillRect(t *testing.T) {
	c := New(50, 50)
	c.FillRect(geom.Rect{X: 10, Y: 10, W: 20, H: 20}, geom.Highlight)

	if got := rgbaAt(c.Image(), 15, 15); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside pixel = %v, want red", got)
	}
	if got := rgbaAt(c.Image(), 40, 40); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("outside pixel = %v, want white", got)
	}
}

func TestDrawCircle(t *testing.T) {
	c := New(100, 100)
	c.DrawCircle(geom.Pt(50, 50), 20, geom.Black)
	if got := rgbaAt(c.Image(), 50, 50); got != (color.RGBA{A: 255}) {
		t.Errorf("centre pixel = %v, want black", got)
	}
	if got := rgbaAt(c.Image(), 5, 5); got.R != 255 {
		t.Errorf("corner pixel = %v, want white", got)
	}
}

func TestDrawImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "green.png")
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c := New(64, 64)
	if err := c.DrawImage(path, geom.Rect{X: 16, Y: 16, W: 32, H: 32}); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if got := rgbaAt(c.Image(), 32, 32); got.G < 250 || got.R > 5 {
		t.Errorf("pixel = %v, want green", got)
	}

	if err := c.DrawImage(filepath.Join(dir, "missing.png"), geom.Rect{W: 4, H: 4}); err == nil {
		t.Error("DrawImage(missing) = nil, want error")
	}
}

func TestWritePNG(t *testing.T) {
	g := story.New()
	a := g.Node(g.Add(story.NewImage(geom.Pt(200, 100), geom.SceneBlue)))
	a.SetText("Opening")
	b := g.Node(g.Add(story.NewImage(geom.Pt(200, 400), geom.SceneBlue)))
	g.Connect(a.OutRef(), b.InRef())
	g.SetInitial(a.ID)

	var buf bytes.Buffer
	if err := WritePNG(g, &buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b0 := g.Bounds()
	if img.Bounds().Dx() < int(b0.W) || img.Bounds().Dy() < int(b0.H) {
		t.Errorf("image %v smaller than graph bounds %v", img.Bounds(), b0)
	}
}

func TestDrawTextDoesNotPanic(t *testing.T) {
	c := New(200, 50)
	c.DrawText("hello", render.LabelFont, geom.Pt(100, 25), geom.Black)
	c.DrawText("bold", render.Font{Size: 20, Bold: true}, geom.Pt(100, 25), geom.Black)
	if len(c.faces) != 2 {
		t.Errorf("cached faces = %d, want 2", len(c.faces))
	}
}
