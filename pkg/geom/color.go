package geom

import "image/color"

// Color is an 8-bit RGBA color. It is persisted as four integer channels.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// RGBA implements color.Color so a Color can be handed to image libraries.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Channels returns the color as four ints in R, G, B, A order.
func (c Color) Channels() [4]int {
	return [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
}

// FromChannels builds a Color from four ints, clamping each to 0..255.
func FromChannels(ch [4]int) Color {
	return Color{R: clamp8(ch[0]), G: clamp8(ch[1]), B: clamp8(ch[2]), A: clamp8(ch[3])}
}

func clamp8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// Editor palette.
var (
	White          = RGB(255, 255, 255)
	Black          = RGB(0, 0, 0)
	SceneBlue      = RGB(100, 100, 255)
	ChoiceBlue     = RGB(100, 100, 255)
	AnswerGray     = RGB(128, 128, 128)
	VariableOrange = RGB(255, 180, 100)
	VariableFill   = RGB(255, 255, 200)
	AddGreen       = RGB(0, 150, 0)
	AddCross       = RGB(200, 200, 200)
	Highlight      = RGB(255, 0, 0)
	ThumbOverlay   = Color{R: 255, G: 255, B: 255, A: 100}
)
