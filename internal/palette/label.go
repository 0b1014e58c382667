package palette

import (
	"image"
	"image/color"
)

// glyphs is a 3x5 pixel font covering the characters of a hex code.
var glyphs = map[rune][5]string{
	'#': {"101", "111", "101", "111", "101"},
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'A': {"010", "101", "111", "101", "101"},
	'B': {"110", "101", "110", "101", "110"},
	'C': {"011", "100", "100", "100", "011"},
	'D': {"110", "101", "101", "101", "110"},
	'E': {"111", "100", "110", "100", "111"},
	'F': {"111", "100", "110", "100", "100"},
}

const (
	glyphAdvance = 4 // 3 px glyph + 1 px gap
	glyphHeight  = 5
	labelScale   = 2
)

// labelWidth is the rendered width of text in pixels.
func labelWidth(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n*glyphAdvance - 1) * labelScale
}

// drawLabel paints text with its top-left corner at (x, y). Characters
// without a glyph leave a blank cell; pixels outside img are skipped.
func drawLabel(img *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	bounds := img.Bounds()
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if ok {
			for row, line := range glyph {
				for col, bit := range line {
					if bit != '1' {
						continue
					}
					for dy := 0; dy < labelScale; dy++ {
						for dx := 0; dx < labelScale; dx++ {
							p := image.Pt(cx+col*labelScale+dx, y+row*labelScale+dy)
							if p.In(bounds) {
								img.SetNRGBA(p.X, p.Y, fg)
							}
						}
					}
				}
			}
		}
		cx += glyphAdvance * labelScale
	}
}
