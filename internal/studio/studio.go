// Package studio ties image acquisition, color extraction, the active palette
// and saved palettes together. The MCP server and the CLI both drive a Studio.
package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
	"github.com/ironsheep/palette-tools-mcp/internal/imaging"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
	"github.com/ironsheep/palette-tools-mcp/internal/quantize"
	"github.com/ironsheep/palette-tools-mcp/internal/store"
)

// ErrBusy is returned when an extraction is already running.
var ErrBusy = errors.New("an extraction is already in progress")

// Defaults are the extraction parameters used when a request leaves them out.
// Zero fields are unset and take 6, 6 and imaging.MaxDimension; callers that
// want an explicit value validate it first (see config.Validate).
type Defaults struct {
	Count        int
	Step         int
	MaxDimension int
}

// Options configures a Studio.
type Options struct {
	Loader   *imaging.Loader
	Store    *store.PaletteStore
	Defaults Defaults
	Logger   hclog.Logger

	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// Studio is safe for concurrent use. Only one extraction runs at a time.
type Studio struct {
	loader   *imaging.Loader
	store    *store.PaletteStore
	active   *palette.Active
	defaults Defaults
	logger   hclog.Logger
	now      func() time.Time

	busy atomic.Bool
}

// New creates a Studio. Missing collaborators get in-memory defaults.
func New(opts Options) *Studio {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Loader == nil {
		opts.Loader = imaging.NewLoader(imaging.LoaderOptions{Logger: opts.Logger.Named("loader")})
	}
	if opts.Store == nil {
		opts.Store = store.New(store.NewMemoryBackend(), store.Options{Logger: opts.Logger})
	}
	if opts.Defaults.Count == 0 {
		opts.Defaults.Count = 6
	}
	if opts.Defaults.Step == 0 {
		opts.Defaults.Step = 6
	}
	if opts.Defaults.MaxDimension == 0 {
		opts.Defaults.MaxDimension = imaging.MaxDimension
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Studio{
		loader:   opts.Loader,
		store:    opts.Store,
		active:   palette.NewActive(),
		defaults: opts.Defaults,
		logger:   opts.Logger.Named("studio"),
		now:      opts.Now,
	}
}

// Loader returns the image loader.
func (s *Studio) Loader() *imaging.Loader { return s.loader }

// Defaults returns the extraction defaults.
func (s *Studio) Defaults() Defaults { return s.defaults }

// ExtractRequest describes one extraction. Nil Count or Step use the
// studio defaults.
type ExtractRequest struct {
	Source string
	Count  *int
	Step   *int
	Region *imaging.Region
}

func (s *Studio) options(req ExtractRequest) quantize.Options {
	opts := quantize.Options{
		Count: s.defaults.Count,
		Step:  s.defaults.Step,
		Sample: imaging.SampleOptions{
			MaxDimension: s.defaults.MaxDimension,
			Region:       req.Region,
		},
	}
	if req.Count != nil {
		opts.Count = *req.Count
	}
	if req.Step != nil {
		opts.Step = *req.Step
	}
	return opts
}

func (s *Studio) acquire() (release func(), err error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { s.busy.Store(false) }, nil
}

// Extract loads the image and returns its most frequent colors as hex
// strings. Only acquisition failures and ErrBusy are returned as errors. A
// failed extraction yields an empty list and a warning in the log.
func (s *Studio) Extract(ctx context.Context, req ExtractRequest) ([]string, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := s.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	opts := s.options(req)
	result := quantize.Extract(img, opts)
	if !result.OK() {
		s.logger.Warn("color extraction failed", "source", req.Source, "error", result.Err)
		return result.Colors, nil
	}
	s.logger.Debug("extracted colors", "source", req.Source, "count", opts.Count, "step", opts.Step, "colors", len(result.Colors))
	return result.Colors, nil
}

// BucketShare is one ranked color with its sample count.
type BucketShare struct {
	Hex     string  `json:"hex"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Analysis is a detailed extraction: the padded color list plus the ranked
// buckets behind it.
type Analysis struct {
	Colors   []string      `json:"colors"`
	Buckets  []BucketShare `json:"buckets"`
	Width    int           `json:"sampled_width"`
	Height   int           `json:"sampled_height"`
	Step     int           `json:"step"`
	Sampled  int           `json:"sampled_pixels"`
	Retained int           `json:"opaque_pixels"`
	Distinct int           `json:"distinct_buckets"`
}

// Analyze is Extract with bucket statistics. Buckets lists only real
// buckets, never the fallback padding.
func (s *Studio) Analyze(ctx context.Context, req ExtractRequest) (*Analysis, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := s.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	opts := s.options(req)
	empty := &Analysis{Colors: []string{}, Buckets: []BucketShare{}, Step: quantize.NormalizeStep(opts.Step)}

	if err := quantize.CheckCount(opts.Count); err != nil {
		s.logger.Warn("color extraction failed", "source", req.Source, "error", err)
		return empty, nil
	}
	sample, err := imaging.Sample(img, opts.Sample)
	if err != nil {
		s.logger.Warn("color extraction failed", "source", req.Source, "error", err)
		return empty, nil
	}
	hist, err := quantize.Build(sample, opts.Step)
	if err != nil {
		s.logger.Warn("color extraction failed", "source", req.Source, "error", err)
		return empty, nil
	}

	a := &Analysis{
		Colors:   quantize.Hexes(hist.Top(opts.Count)),
		Buckets:  []BucketShare{},
		Width:    sample.Width,
		Height:   sample.Height,
		Step:     quantize.NormalizeStep(opts.Step),
		Sampled:  hist.Sampled,
		Retained: hist.Retained,
		Distinct: len(hist.Buckets),
	}
	for i := 0; i < opts.Count && i < len(hist.Buckets); i++ {
		b := hist.Buckets[i]
		a.Buckets = append(a.Buckets, BucketShare{
			Hex:     b.Key.Color().Hex(),
			Count:   b.Count,
			Percent: hist.Share(i),
		})
	}
	return a, nil
}

// ContrastResult is a contrast check between two colors. Ratio is nil when
// either color is not valid hex.
type ContrastResult struct {
	Foreground string   `json:"foreground"`
	Background string   `json:"background"`
	Ratio      *float64 `json:"ratio"`
	Grade      string   `json:"grade,omitempty"`
}

// Contrast computes the WCAG contrast ratio of two hex colors.
func (s *Studio) Contrast(a, b string) ContrastResult {
	res := ContrastResult{Foreground: a, Background: b}
	ratio, ok := colour.ContrastHex(a, b)
	if !ok {
		return res
	}
	res.Foreground = colour.MustParseHex(a).Hex()
	res.Background = colour.MustParseHex(b).Hex()
	res.Ratio = &ratio
	res.Grade = colour.Grade(ratio)
	return res
}

// AddActive appends a color to the active palette.
func (s *Studio) AddActive(hex string) ([]string, error) {
	if err := s.active.Add(hex); err != nil {
		return s.active.Hexes(), err
	}
	return s.active.Hexes(), nil
}

// RemoveActive removes a color from the active palette and reports whether
// it was present.
func (s *Studio) RemoveActive(hex string) ([]string, bool) {
	removed := s.active.Remove(hex)
	return s.active.Hexes(), removed
}

// Active returns the active palette colors.
func (s *Studio) Active() []string {
	return s.active.Hexes()
}

// ClearActive empties the active palette.
func (s *Studio) ClearActive() {
	s.active.Clear()
}

// SaveActive stores the active palette under name. The active palette is
// left as is.
func (s *Studio) SaveActive(ctx context.Context, name string) (palette.Palette, []palette.Palette, error) {
	return s.SaveColors(ctx, name, s.active.Colors())
}

// SaveColors stores colors as a new palette, newest first.
func (s *Studio) SaveColors(ctx context.Context, name string, colors []colour.Color) (palette.Palette, []palette.Palette, error) {
	if len(colors) == 0 {
		return palette.Palette{}, nil, palette.ErrEmptyPalette
	}
	p := palette.New(name, colors, s.now())
	list := s.store.Add(ctx, p)
	s.logger.Info("palette saved", "name", p.Name, "id", p.ID, "colors", len(p.Colors))
	return p, list, nil
}

// Saved returns the saved palettes, newest first.
func (s *Studio) Saved(ctx context.Context) []palette.Palette {
	return s.store.Load(ctx)
}

// DeleteSaved removes the saved palette at index. Out-of-range indexes
// change nothing.
func (s *Studio) DeleteSaved(ctx context.Context, index int) []palette.Palette {
	return s.store.DeleteAt(ctx, index)
}

// ClearSaved removes all saved palettes.
func (s *Studio) ClearSaved(ctx context.Context) bool {
	return s.store.Clear(ctx)
}

// ExportSource selects the colors to export.
type ExportSource struct {
	// Colors, when non-empty, are exported directly.
	Colors []string

	// SavedIndex selects a saved palette when Colors is empty and
	// SavedIndex is non-nil. Otherwise the active palette is exported.
	SavedIndex *int
}

// Export writes the selected palette to w.
func (s *Studio) Export(ctx context.Context, w io.Writer, format palette.Format, src ExportSource) error {
	name, colors, err := s.resolveExport(ctx, src)
	if err != nil {
		return err
	}
	return palette.Export(w, format, name, colors)
}

func (s *Studio) resolveExport(ctx context.Context, src ExportSource) (string, []colour.Color, error) {
	switch {
	case len(src.Colors) > 0:
		colors := make([]colour.Color, 0, len(src.Colors))
		for _, h := range src.Colors {
			c, err := colour.ParseHex(h)
			if err != nil {
				return "", nil, fmt.Errorf("%q: %w", h, err)
			}
			colors = append(colors, c)
		}
		return palette.DefaultName, colors, nil
	case src.SavedIndex != nil:
		list := s.store.Load(ctx)
		i := *src.SavedIndex
		if i < 0 || i >= len(list) {
			return "", nil, fmt.Errorf("no saved palette at index %d (have %d)", i, len(list))
		}
		return list[i].Name, list[i].ParsedColors(), nil
	default:
		return "Active", s.active.Colors(), nil
	}
}
