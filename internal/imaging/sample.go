package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Colors of the built-in sample image.
var (
	sampleBackground = color.NRGBA{0xF3, 0xF4, 0xF6, 0xFF}
	sampleViolet     = color.NRGBA{0x7C, 0x3A, 0xED, 0xFF}
	sampleGreen      = color.NRGBA{0x05, 0x96, 0x69, 0xFF}
	sampleRed        = color.NRGBA{0xEF, 0x44, 0x44, 0xFF}
)

// SampleImage renders the 800x400 demo image: a light gray background, a
// violet and a green circle, and a red rounded square.
func SampleImage() *image.NRGBA {
	img := imaging.New(800, 400, sampleBackground)
	fillCircle(img, 220, 200, 120, sampleViolet)
	fillCircle(img, 460, 200, 120, sampleGreen)
	fillRoundedRect(img, image.Rect(560, 110, 720, 270), 24, sampleRed)
	return img
}

func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	rect := image.Rect(cx-r, cy-r, cx+r, cy+r).Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.NRGBA, rect image.Rectangle, radius int, c color.NRGBA) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			// Distance to the nearest corner center, 0 outside the corner zones.
			cx := clampInt(x, rect.Min.X+radius, rect.Max.X-1-radius)
			cy := clampInt(y, rect.Min.Y+radius, rect.Max.Y-1-radius)
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
