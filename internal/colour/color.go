package colour

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a string is not a 3- or 6-digit hex color.
var ErrInvalidHex = errors.New("invalid hex color")

// Color is an RGB color with 8-bit components.
//
// Color is comparable; equality is defined on the channel triple.
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGB builds a Color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the canonical "#RRGGBB" form in uppercase.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// RGBA implements color.Color. The color is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Colorful converts the color to a go-colorful value with channels in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// FromColor converts any color.Color to a Color, dropping alpha.
// 16-bit channels are scaled down by right-shifting 8 bits.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// RGBToHex formats integer channels as "#RRGGBB", clamping each to [0,255].
func RGBToHex(r, g, b int) string {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}.Hex()
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ParseHex parses "#RGB", "#RRGGBB", "RGB" or "RRGGBB" (any case).
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")

	var nibbles [6]uint8
	switch len(digits) {
	case 3:
		for i := 0; i < 3; i++ {
			v, ok := hexNibble(digits[i])
			if !ok {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			nibbles[2*i], nibbles[2*i+1] = v, v
		}
	case 6:
		for i := 0; i < 6; i++ {
			v, ok := hexNibble(digits[i])
			if !ok {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			nibbles[i] = v
		}
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return Color{
		R: nibbles[0]<<4 | nibbles[1],
		G: nibbles[2]<<4 | nibbles[3],
		B: nibbles[4]<<4 | nibbles[5],
	}, nil
}

// MustParseHex is like ParseHex but panics on invalid input.
// Intended for package-level literals.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsHex reports whether s is a valid 3- or 6-digit hex color.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// NormalizeHex returns the canonical form of a hex color string.
func NormalizeHex(s string) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
