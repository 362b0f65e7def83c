// Package fonts provides the font faces used to draw node labels.
//
// The Go fonts ship inside golang.org/x/image as TTF data, so no font files
// have to be installed on the machine rendering a story.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultSize is the label size in points.
const DefaultSize = 16

// FontFamily is the family name the faces are registered under in SVG output.
const FontFamily = "Go"

// Parsed fonts (computed once on first access).
var (
	regular, bold *truetype.Font
	parseOnce     sync.Once
	parseErr      error
)

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = truetype.Parse(gobold.TTF)
	})
	return parseErr
}

// Face returns a face of the Go font at size points. Non-positive sizes use
// DefaultSize.
func Face(size float64, isBold bool) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	f := regular
	if isBold {
		f = bold
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}
