package quantize

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
	"github.com/ironsheep/palette-tools-mcp/internal/imaging"
)

const (
	// AlphaThreshold is the lowest alpha a pixel needs to be counted.
	AlphaThreshold = 125

	// DefaultStep is the grid spacing used when the caller passes 0.
	DefaultStep = 4

	// MaxCount is the largest count Quantize accepts. No sample has more
	// distinct buckets, so anything beyond it would be padding only.
	MaxCount = MaxBuckets
)

// ErrCountTooLarge is returned for a count above MaxCount.
var ErrCountTooLarge = errors.New("color count too large")

// CheckCount reports whether count is within MaxCount. Counts <= 0 are
// valid and yield no colors.
func CheckCount(count int) error {
	if count > MaxCount {
		return fmt.Errorf("%w: %d (maximum %d)", ErrCountTooLarge, count, MaxCount)
	}
	return nil
}

// Fallback pads results when fewer distinct colors than requested exist.
var Fallback = colour.Color{R: 0xEF, G: 0xEF, B: 0xEF}

// NormalizeStep maps 0 to DefaultStep and clamps anything else to at least 1.
func NormalizeStep(step int) int {
	if step == 0 {
		return DefaultStep
	}
	if step < 1 {
		return 1
	}
	return step
}

// Histogram is the ranked outcome of one bucketing sweep.
type Histogram struct {
	// Buckets are ordered by descending Count; ties keep first-seen order.
	Buckets []Bucket

	// Sampled is the number of grid pixels visited.
	Sampled int

	// Retained is the number of visited pixels at or above AlphaThreshold.
	Retained int
}

// Build sweeps the sample on a step grid and ranks the resulting buckets.
func Build(sample *imaging.PixelSample, step int) (*Histogram, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	step = NormalizeStep(step)

	index := make(map[BucketKey]int)
	var buckets []Bucket
	h := &Histogram{}

	for y := 0; y < sample.Height; y += step {
		for x := 0; x < sample.Width; x += step {
			h.Sampled++
			r, g, b, a := sample.At(x, y)
			if a < AlphaThreshold {
				continue
			}
			h.Retained++

			key := KeyOf(r, g, b)
			if i, ok := index[key]; ok {
				buckets[i].Count++
				continue
			}
			index[key] = len(buckets)
			buckets = append(buckets, Bucket{Key: key, Count: 1})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	h.Buckets = buckets
	return h, nil
}

// Top returns the colors of the n most frequent buckets, padded with
// Fallback to exactly n entries. n <= 0 yields an empty slice and n is
// capped at MaxCount.
func (h *Histogram) Top(n int) []colour.Color {
	if n <= 0 {
		return []colour.Color{}
	}
	if n > MaxCount {
		n = MaxCount
	}
	colors := make([]colour.Color, 0, n)
	for i := 0; i < len(h.Buckets) && i < n; i++ {
		colors = append(colors, h.Buckets[i].Key.Color())
	}
	for len(colors) < n {
		colors = append(colors, Fallback)
	}
	return colors
}

// Share returns the fraction (0-100) of retained pixels in bucket i.
func (h *Histogram) Share(i int) float64 {
	if h.Retained == 0 || i < 0 || i >= len(h.Buckets) {
		return 0
	}
	return float64(h.Buckets[i].Count) / float64(h.Retained) * 100
}

// Quantize returns exactly count representative colors of sample, most
// frequent first.
//
// The sample is visited every step pixels in both directions (see
// NormalizeStep). Pixels with alpha below AlphaThreshold are skipped and the
// rest are bucketed to 5 bits per channel, then ranked by count with ties
// kept in first-seen order. Each color is the bucket's quantized triple.
//
// Parameters:
//   - sample: The pixel buffer to quantize, usually from imaging.Sample.
//   - count: Number of colors wanted, at most MaxCount. Zero or negative
//     yields an empty slice.
//   - step: Grid spacing in pixels.
//
// Returns:
//   - []colour.Color: Exactly count colors, padded with Fallback when the
//     sample has fewer buckets.
//   - error: Non-nil for a malformed sample or a count above MaxCount.
//
// # Errors
//
//   - Returns imaging.ErrMalformedSample if the buffer does not match its size
//   - Returns ErrCountTooLarge if count exceeds MaxCount
//
// # Example Usage
//
//	sample, err := imaging.Sample(img, imaging.SampleOptions{})
//	if err != nil {
//	    return err
//	}
//	colors, err := quantize.Quantize(sample, 6, 6)
func Quantize(sample *imaging.PixelSample, count, step int) ([]colour.Color, error) {
	if err := CheckCount(count); err != nil {
		return nil, err
	}
	h, err := Build(sample, step)
	if err != nil {
		return nil, err
	}
	return h.Top(count), nil
}

// Hexes formats colors in canonical hex.
func Hexes(colors []colour.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

// Result is the outcome of Extract.
type Result struct {
	// Colors holds the extracted colors in canonical hex. It is empty (never
	// nil) when extraction failed.
	Colors []string

	// Err is the cause of a failed extraction.
	Err error
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Options configures Extract.
type Options struct {
	// Count is the number of colors to return.
	Count int

	// Step is the sampling grid spacing (0 means DefaultStep).
	Step int

	// Sample configures the sampler.
	Sample imaging.SampleOptions
}

// Extract samples img and quantizes it.
//
// Parameters:
//   - img: The decoded image.
//   - opts: Count, step and sampler settings (region, maximum dimension).
//
// Returns:
//   - Result: Colors holds opts.Count hex strings on success. On failure
//     Colors is empty and Err holds the cause.
//
// Extract never panics and has no error return. A nil or empty image, an
// invalid region or a count above MaxCount all land in Result.Err. Callers
// treat an empty Colors as "no colors extracted".
//
// # Example Usage
//
//	res := quantize.Extract(img, quantize.Options{Count: 6, Step: 6})
//	if !res.OK() {
//	    log.Printf("extraction failed: %v", res.Err)
//	}
//	fmt.Println(res.Colors)
func Extract(img image.Image, opts Options) Result {
	sample, err := imaging.Sample(img, opts.Sample)
	if err != nil {
		return Result{Colors: []string{}, Err: err}
	}
	colors, err := Quantize(sample, opts.Count, opts.Step)
	if err != nil {
		return Result{Colors: []string{}, Err: err}
	}
	return Result{Colors: Hexes(colors)}
}
