package colour

import "math"

// HSL represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSL struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// Info contains a color value in several representations.
//
// This is the shape returned by the color_info tool and used for labelling
// exported swatches.
type Info struct {
	Hex       string  `json:"hex"`       // Hex format "#RRGGBB"
	RGB       Color   `json:"rgb"`       // RGB components
	HSL       HSL     `json:"hsl"`       // HSL representation
	Luminance float64 `json:"luminance"` // WCAG relative luminance (0-1), 4 decimals
	TextColor string  `json:"text_color"`
}

// Describe returns Info for c. HSL is computed with go-colorful and
// truncated to whole degrees and percent.
func Describe(c Color) Info {
	h, s, l := c.Colorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return Info{
		Hex:       c.Hex(),
		RGB:       c,
		HSL:       HSL{H: int(h), S: int(s * 100), L: int(l * 100)},
		Luminance: math.Round(RelativeLuminance(c)*10000) / 10000,
		TextColor: BestText(c).Hex(),
	}
}
