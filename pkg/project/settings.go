package project

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/novelgraph/pkg/geom"
)

// SettingsFile is the name of the optional settings file in a project.
const SettingsFile = "novelgraph.toml"

// Settings holds per-project editor settings.
type Settings struct {
	Canvas    CanvasSettings    `toml:"canvas"`
	Thumbnail ThumbnailSettings `toml:"thumbnail"`
	Editor    EditorSettings    `toml:"editor"`
}

// CanvasSettings is the size of the editor window.
type CanvasSettings struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// ThumbnailSettings controls the scene previews.
type ThumbnailSettings struct {
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	JPEGQuality int `toml:"jpeg_quality"`
}

// EditorSettings controls navigation.
type EditorSettings struct {
	PanStep  float64 `toml:"pan_step"`
	ZoomStep float64 `toml:"zoom_step"`
}

// DefaultSettings returns the settings used when a project has no
// settings file.
func DefaultSettings() *Settings {
	return &Settings{
		Canvas:    CanvasSettings{Width: 1280, Height: 720},
		Thumbnail: ThumbnailSettings{Width: 120, Height: 67, JPEGQuality: 90},
		Editor:    EditorSettings{PanStep: 20, ZoomStep: 5},
	}
}

// CanvasSize returns the canvas as a geom.Size.
func (s *Settings) CanvasSize() geom.Size {
	return geom.Size{W: float64(s.Canvas.Width), H: float64(s.Canvas.Height)}
}

// ThumbnailSize returns the thumbnail size as a geom.Size.
func (s *Settings) ThumbnailSize() geom.Size {
	return geom.Size{W: float64(s.Thumbnail.Width), H: float64(s.Thumbnail.Height)}
}

// LoadSettings reads path over the defaults. A missing file yields the
// defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.fill()
	return s, nil
}

// fill replaces non-positive values with their defaults.
func (s *Settings) fill() {
	d := DefaultSettings()
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		s.Canvas = d.Canvas
	}
	if s.Thumbnail.Width <= 0 || s.Thumbnail.Height <= 0 {
		s.Thumbnail.Width, s.Thumbnail.Height = d.Thumbnail.Width, d.Thumbnail.Height
	}
	if s.Thumbnail.JPEGQuality <= 0 || s.Thumbnail.JPEGQuality > 100 {
		s.Thumbnail.JPEGQuality = d.Thumbnail.JPEGQuality
	}
	if s.Editor.PanStep <= 0 {
		s.Editor.PanStep = d.Editor.PanStep
	}
	if s.Editor.ZoomStep <= 0 {
		s.Editor.ZoomStep = d.Editor.ZoomStep
	}
}

// SaveSettings writes s to path.
func SaveSettings(path string, s *Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}
