package palette

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
)

// Format is an export format.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatCSS  Format = "css"
	FormatGPL  Format = "gpl"
	FormatPNG  Format = "png"
)

// SwatchSize is the edge length of one color in a PNG swatch strip.
const SwatchSize = 64

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSS, FormatGPL, FormatPNG}
}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (valid formats: %v)", s, Formats())
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatPNG
}

// Export writes colors to w in the given format. name labels the palette in
// formats that carry one.
func Export(w io.Writer, format Format, name string, colors []colour.Color) error {
	if len(colors) == 0 {
		return ErrEmptyPalette
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}

	switch format {
	case FormatJSON:
		return exportJSON(w, colors)
	case FormatCSS:
		return exportCSS(w, colors)
	case FormatGPL:
		return exportGPL(w, name, colors)
	case FormatPNG:
		return imgio.PNGEncoder()(w, SwatchStrip(colors))
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// exportJSON writes the colors as an indented JSON array of hex strings.
func exportJSON(w io.Writer, colors []colour.Color) error {
	hexes := make([]string, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(hexes)
}

func exportCSS(w io.Writer, colors []colour.Color) error {
	var b strings.Builder
	b.WriteString(":root {\n")
	for i, c := range colors {
		fmt.Fprintf(&b, "  --color-%d: %s;\n", i+1, c.Hex())
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// exportGPL writes a GIMP palette file.
func exportGPL(w io.Writer, name string, colors []colour.Color) error {
	var b strings.Builder
	b.WriteString("GIMP Palette\n")
	fmt.Fprintf(&b, "Name: %s\n", strings.ReplaceAll(name, "\n", " "))
	fmt.Fprintf(&b, "Columns: %d\n#\n", len(colors))
	for _, c := range colors {
		fmt.Fprintf(&b, "%3d %3d %3d\t%s\n", c.R, c.G, c.B, c.Hex())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// SwatchStrip renders colors side by side, SwatchSize pixels each, with each
// hex code written along the bottom of its swatch in colour.BestText.
func SwatchStrip(colors []colour.Color) *image.NRGBA {
	width := SwatchSize * len(colors)
	img := image.NewNRGBA(image.Rect(0, 0, width, SwatchSize))

	parallel.Line(SwatchSize, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				img.SetNRGBA(x, y, colors[x/SwatchSize].NRGBA())
			}
		}
	})

	for i, c := range colors {
		text := c.Hex()
		x := i*SwatchSize + (SwatchSize-labelWidth(text))/2
		y := SwatchSize - glyphHeight*labelScale - 4
		drawLabel(img, x, y, text, colour.BestText(c).NRGBA())
	}
	return img
}
