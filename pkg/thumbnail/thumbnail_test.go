package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func newTestCache(t *testing.T) (*DirCache, string) {
	t.Helper()
	root := t.TempDir()
	c, err := NewDirCache(filepath.Join(root, "images", "temp_mini"), Options{Root: root, Logger: log.New(os.Stderr)})
	if err != nil {
		t.Fatalf("NewDirCache: %v", err)
	}
	return c, root
}

func TestPath(t *testing.T) {
	c, _ := newTestCache(t)
	tests := []struct {
		src  string
		want string
	}{
		{"images/upload/forest.png", "forest.jpeg"},
		{"/abs/cave.night.jpg", "cave.jpeg"},
		{"noext", "noext.jpeg"},
	}
	for _, tt := range tests {
		if got := c.Path(tt.src); got != filepath.Join(c.Dir(), tt.want) {
			t.Errorf("Path(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestEnsureGeneratesOnce(t *testing.T) {
	c, root := newTestCache(t)
	writePNG(t, filepath.Join(root, "images", "upload", "forest.png"), 64, 36)

	dst, err := c.Ensure("images/upload/forest.png", geom.Size{W: 32, H: 18})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	img, err := imaging.Open(dst)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("thumbnail size = %dx%d, want 32x18", b.Dx(), b.Dy())
	}
	// Black softened by the white veil.
	r, _, _, _ := img.At(16, 9).RGBA()
	if r>>8 < 80 || r>>8 > 120 {
		t.Errorf("overlay red channel = %d, want about 100", r>>8)
	}

	// A second Ensure at another size reuses the cached file.
	if _, err := c.Ensure("images/upload/forest.png", geom.Size{W: 60, H: 30}); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	img, _ = imaging.Open(dst)
	if b := img.Bounds(); b.Dx() != 32 {
		t.Errorf("Ensure regenerated an existing thumbnail: width %d", b.Dx())
	}

	if _, err := c.Regenerate("images/upload/forest.png", geom.Size{W: 60, H: 30}); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	img, _ = imaging.Open(dst)
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Errorf("regenerated size = %dx%d, want 60x30", b.Dx(), b.Dy())
	}
}

func TestEnsureErrors(t *testing.T) {
	c, root := newTestCache(t)

	_, err := c.Ensure("images/upload/gone.png", geom.Size{W: 10, H: 10})
	if !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("missing source error = %v, want %v", err, errors.ErrCodeMissingAsset)
	}

	bad := filepath.Join(root, "images", "upload", "bad.png")
	if err := os.MkdirAll(filepath.Dir(bad), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = c.Ensure("images/upload/bad.png", geom.Size{W: 10, H: 10})
	if !errors.Is(err, errors.ErrCodeThumbnail) {
		t.Errorf("undecodable source error = %v, want %v", err, errors.ErrCodeThumbnail)
	}
	if _, statErr := os.Stat(c.Path("bad.png")); !os.IsNotExist(statErr) {
		t.Error("a thumbnail file was left behind for a failed decode")
	}
}

func TestPurgeAndClose(t *testing.T) {
	c, root := newTestCache(t)
	writePNG(t, filepath.Join(root, "a.png"), 8, 8)
	writePNG(t, filepath.Join(root, "b.png"), 8, 8)
	for _, src := range []string{"a.png", "b.png"} {
		if _, err := c.Ensure(src, geom.Size{W: 4, H: 4}); err != nil {
			t.Fatalf("Ensure(%s): %v", src, err)
		}
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache holds %d files after Close, want 0", len(entries))
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestTempCacheRemovesDir(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 8, 8)
	c, err := NewTempCache(Options{Root: root})
	if err != nil {
		t.Fatalf("NewTempCache: %v", err)
	}
	dst, err := c.Ensure("a.png", geom.Size{W: 4, H: 4})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if filepath.Dir(dst) != c.Dir() {
		t.Errorf("thumbnail %s outside cache dir %s", dst, c.Dir())
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(c.Dir()); !os.IsNotExist(err) {
		t.Errorf("temp dir still present after Close (stat err %v)", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	defer c.Close()

	thumb, err := c.Ensure("a.png", geom.Size{W: 1, H: 1})
	if err != nil || thumb != "" {
		t.Errorf("Ensure = %q, %v; want no thumbnail", thumb, err)
	}
	if err := c.Purge(); err != nil {
		t.Errorf("Purge: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
