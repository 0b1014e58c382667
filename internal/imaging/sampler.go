package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MaxDimension is the default cap on the larger side of a sampled image.
const MaxDimension = 800

// Sampler errors.
var (
	ErrNilImage        = errors.New("nil image")
	ErrEmptyImage      = errors.New("image has no pixels")
	ErrMalformedSample = errors.New("malformed pixel sample")
)

// PixelSample is a read-only view over an 8-bit, non-premultiplied RGBA
// buffer. Pixel (x, y) starts at Pix[y*Stride + x*4].
type PixelSample struct {
	Width  int
	Height int
	Stride int
	Pix    []uint8
}

// NewPixelSample wraps an NRGBA image without copying it.
func NewPixelSample(img *image.NRGBA) *PixelSample {
	b := img.Bounds()
	return &PixelSample{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: img.Stride,
		Pix:    img.Pix[img.PixOffset(b.Min.X, b.Min.Y):],
	}
}

// Validate checks that the buffer is large enough for its dimensions.
func (p *PixelSample) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil sample", ErrMalformedSample)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedSample, p.Width, p.Height)
	}
	if p.Stride < p.Width*4 {
		return fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrMalformedSample, p.Stride, p.Width)
	}
	need := (p.Height-1)*p.Stride + p.Width*4
	if len(p.Pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrMalformedSample, len(p.Pix), need)
	}
	return nil
}

// At returns the channels of pixel (x, y). The caller keeps x and y in range.
func (p *PixelSample) At(x, y int) (r, g, b, a uint8) {
	i := y*p.Stride + x*4
	s := p.Pix[i : i+4 : i+4]
	return s[0], s[1], s[2], s[3]
}

// SampleOptions configures Sample.
type SampleOptions struct {
	// MaxDimension caps the larger side. If zero, MaxDimension is used.
	MaxDimension int

	// Region, when set, restricts sampling to part of the image.
	Region *Region
}

// ScaledSize returns the dimensions after bounding the larger side to
// maxDim. Both sides are scaled by the same ratio and rounded to the nearest
// pixel, never below 1. Images already within the cap are unchanged.
func ScaledSize(w, h, maxDim int) (int, int) {
	larger := w
	if h > larger {
		larger = h
	}
	if larger <= maxDim {
		return w, h
	}
	ratio := float64(maxDim) / float64(larger)
	sw := int(math.Round(float64(w) * ratio))
	sh := int(math.Round(float64(h) * ratio))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// Sample renders img into a bounded NRGBA buffer and returns a view over it.
//
// Parameters:
//   - img: The image to sample.
//   - opts: Optional region, applied before scaling, and the cap on the
//     larger side (MaxDimension when zero).
//
// Returns:
//   - *PixelSample: A fresh buffer, scaled by one ratio so the larger side is
//     at most the cap. Smaller images are copied at their own size.
//   - error: Non-nil if the image cannot be sampled.
//
// # Errors
//
//   - Returns ErrNilImage or ErrEmptyImage for a missing or zero-sized image
//   - Returns error if the region is malformed or lies outside the image
//
// Nothing is retried.
//
// # Example Usage
//
//	sample, err := imaging.Sample(img, imaging.SampleOptions{
//	    Region: &imaging.Region{X1: 0, Y1: 0, X2: 200, Y2: 200},
//	})
func Sample(img image.Image, opts SampleOptions) (*PixelSample, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	maxDim := opts.MaxDimension
	if maxDim <= 0 {
		maxDim = MaxDimension
	}

	src := img
	if opts.Region != nil {
		cropped, err := Crop(img, *opts.Region)
		if err != nil {
			return nil, err
		}
		src = cropped
	}

	b := src.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), maxDim)

	var rendered *image.NRGBA
	if w == b.Dx() && h == b.Dy() {
		rendered = imaging.Clone(src)
	} else {
		rendered = imaging.Resize(src, w, h, imaging.Linear)
	}

	sample := NewPixelSample(rendered)
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	return sample, nil
}
