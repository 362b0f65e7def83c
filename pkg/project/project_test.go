package project

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/novelgraph/pkg/errors"
)

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	p, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.GameFile != filepath.Join(dir, DefaultGameFile) {
		t.Errorf("GameFile = %q, want %q", p.GameFile, filepath.Join(dir, DefaultGameFile))
	}
	data, err := os.ReadFile(p.GameFile)
	if err != nil || string(data) != "{}" {
		t.Errorf("game file = %q, %v; want {}", data, err)
	}
	for _, sub := range []string{p.UploadPath(), p.ThumbPath()} {
		if info, err := os.Stat(sub); err != nil || !info.IsDir() {
			t.Errorf("%s missing: %v", sub, err)
		}
	}
	if *p.Settings != *DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", p.Settings)
	}
}

func TestCreateKeepsExistingGame(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "story.json")
	if err := os.WriteFile(existing, []byte(`{"version":"1.1"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Create(dir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.GameFile != existing {
		t.Errorf("GameFile = %q, want %q", p.GameFile, existing)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultGameFile)); !os.IsNotExist(err) {
		t.Error("Create wrote game.json next to an existing game file")
	}
}

func TestOpenPicksFirstJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json"} {
		os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644)
	}
	p, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := filepath.Base(p.GameFile); got != "a.json" {
		t.Errorf("GameFile = %q, want a.json", got)
	}
}

func TestOpenErrors(t *testing.T) {
	empty := t.TempDir()
	file := filepath.Join(t.TempDir(), "x")
	os.WriteFile(file, nil, 0o644)

	tests := []struct {
		name string
		dir  string
		code errors.Code
	}{
		{"blank", " ", errors.ErrCodeInvalidPath},
		{"missing", filepath.Join(empty, "nope"), errors.ErrCodeNotFound},
		{"no game file", empty, errors.ErrCodeNotFound},
		{"not a directory", file, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.dir)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Open(%q) code = %v, want %v (err %v)", tt.dir, got, tt.code, err)
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	toml := "[canvas]\nwidth = 800\nheight = 600\n\n[editor]\npan_step = 40\n\n[thumbnail]\njpeg_quality = 500\n"
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Canvas.Width != 800 || s.Canvas.Height != 600 {
		t.Errorf("Canvas = %+v, want 800x600", s.Canvas)
	}
	if s.Editor.PanStep != 40 || s.Editor.ZoomStep != 5 {
		t.Errorf("Editor = %+v, want pan 40 zoom 5", s.Editor)
	}
	if s.Thumbnail.JPEGQuality != 90 || s.Thumbnail.Width != 120 {
		t.Errorf("Thumbnail = %+v, want defaults", s.Thumbnail)
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml")); err != nil {
		t.Errorf("LoadSettings(missing) = %v, want defaults", err)
	}
}

func TestImportImage(t *testing.T) {
	p, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(t.TempDir(), "forest.night.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	f, _ := os.Create(src)
	png.Encode(f, img)
	f.Close()

	rel, err := p.ImportImage(src)
	if err != nil {
		t.Fatalf("ImportImage: %v", err)
	}
	if rel != "images/upload/forest.jpeg" {
		t.Errorf("ImportImage = %q, want images/upload/forest.jpeg", rel)
	}
	if _, err := os.Stat(p.Resolve(rel)); err != nil {
		t.Errorf("imported file missing: %v", err)
	}

	_, err = p.ImportImage(filepath.Join(t.TempDir(), "gone.png"))
	if !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("ImportImage(missing) = %v, want %v", err, errors.ErrCodeMissingAsset)
	}
}
