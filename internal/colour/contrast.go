package colour

import "math"

// Luminance channel weights and the low-gamma threshold.
const (
	redWeight   = 0.2126
	greenWeight = 0.7152
	blueWeight  = 0.0722

	lowGammaThreshold = 0.03928
)

// WCAG conformance thresholds for normal and large text.
const (
	MinContrastAAA     = 7.0
	MinContrastAA      = 4.5
	MinContrastAALarge = 3.0
)

func linearize(v float64) float64 {
	if v <= lowGammaThreshold {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// RelativeLuminance returns the WCAG relative luminance of c in [0,1].
func RelativeLuminance(c Color) float64 {
	cf := c.Colorful()
	return redWeight*linearize(cf.R) + greenWeight*linearize(cf.G) + blueWeight*linearize(cf.B)
}

// Contrast returns the contrast ratio between a and b rounded to two
// decimals. The result does not depend on argument order.
func Contrast(a, b Color) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return math.Round((lighter+0.05)/(darker+0.05)*100) / 100
}

// ContrastHex parses both inputs and returns their contrast ratio.
//
// Parameters:
//   - a, b: Hex colors in #RGB or #RRGGBB form, the # optional. Order does
//     not matter.
//
// Returns:
//   - ratio: The WCAG ratio from 1 to 21, rounded to two decimals.
//   - ok: False when either input is not a valid hex color. The ratio is
//     then 0 and means "not computable", never a real contrast.
//
// # Example Usage
//
//	if ratio, ok := colour.ContrastHex("#777", "#FFF"); ok {
//	    fmt.Printf("%.2f:1 %s\n", ratio, colour.Grade(ratio)) // 4.48:1 AA Large
//	}
func ContrastHex(a, b string) (ratio float64, ok bool) {
	ca, err := ParseHex(a)
	if err != nil {
		return 0, false
	}
	cb, err := ParseHex(b)
	if err != nil {
		return 0, false
	}
	return Contrast(ca, cb), true
}

// Grade classifies a contrast ratio against the WCAG text thresholds.
func Grade(ratio float64) string {
	switch {
	case ratio >= MinContrastAAA:
		return "AAA"
	case ratio >= MinContrastAA:
		return "AA"
	case ratio >= MinContrastAALarge:
		return "AA Large"
	default:
		return "Fail"
	}
}

// BestText picks black or white, whichever reads better on bg.
// Black wins ties and any case where it already meets AA.
func BestText(bg Color) Color {
	onBlack := Contrast(Black, bg)
	onWhite := Contrast(White, bg)
	if onBlack >= MinContrastAA || onBlack >= onWhite {
		return Black
	}
	return White
}
