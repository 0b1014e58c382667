package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// DefaultNamespace is the key the saved-palette list lives under.
const DefaultNamespace = "color-palette-studio.v1.palettes"

// DefaultMaxSaved caps the saved-palette list.
const DefaultMaxSaved = 100

// Options configures a PaletteStore.
type Options struct {
	Namespace string
	MaxSaved  int
	Logger    hclog.Logger
}

// PaletteStore keeps an ordered, bounded list of saved palettes, newest
// first. Storage failures are logged and reported as false or an empty list;
// they never surface as errors to the caller.
type PaletteStore struct {
	backend   Backend
	namespace string
	maxSaved  int
	logger    hclog.Logger

	// serializes read-modify-write cycles
	mu sync.Mutex
}

// New returns a PaletteStore over backend.
func New(backend Backend, opts Options) *PaletteStore {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.MaxSaved <= 0 {
		opts.MaxSaved = DefaultMaxSaved
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &PaletteStore{
		backend:   backend,
		namespace: opts.Namespace,
		maxSaved:  opts.MaxSaved,
		logger:    opts.Logger.Named("store"),
	}
}

// Namespace returns the storage key.
func (s *PaletteStore) Namespace() string { return s.namespace }

// MaxSaved returns the list cap.
func (s *PaletteStore) MaxSaved() int { return s.maxSaved }

// Load returns the saved palettes. Missing or unreadable data yields an
// empty list.
func (s *PaletteStore) Load(ctx context.Context) []palette.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *PaletteStore) load(ctx context.Context) []palette.Palette {
	data, err := s.backend.Get(ctx, s.namespace)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to read saved palettes", "namespace", s.namespace, "error", err)
		}
		return []palette.Palette{}
	}

	var list []palette.Palette
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("saved palettes are corrupt, ignoring", "namespace", s.namespace, "error", err)
		return []palette.Palette{}
	}
	if list == nil {
		return []palette.Palette{}
	}
	return list
}

// Save replaces the stored list. It reports whether the write succeeded.
func (s *PaletteStore) Save(ctx context.Context, list []palette.Palette) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

func (s *PaletteStore) save(ctx context.Context, list []palette.Palette) bool {
	if list == nil {
		list = []palette.Palette{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("failed to encode saved palettes", "error", err)
		return false
	}
	if err := s.backend.Set(ctx, s.namespace, data); err != nil {
		s.logger.Error("failed to write saved palettes", "namespace", s.namespace, "error", err)
		return false
	}
	return true
}

// Add prepends p, trims the list to MaxSaved and persists it. The updated
// list is returned even when the write fails.
func (s *PaletteStore) Add(ctx context.Context, p palette.Palette) []palette.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load(ctx)
	list := make([]palette.Palette, 0, len(current)+1)
	list = append(list, p)
	list = append(list, current...)
	if len(list) > s.maxSaved {
		list = list[:s.maxSaved]
	}
	s.save(ctx, list)
	return list
}

// DeleteAt removes the palette at index i. An out-of-range index leaves the
// list untouched and nothing is written.
func (s *PaletteStore) DeleteAt(ctx context.Context, i int) []palette.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx)
	if i < 0 || i >= len(list) {
		return list
	}
	list = append(list[:i:i], list[i+1:]...)
	s.save(ctx, list)
	return list
}

// Clear removes every saved palette.
func (s *PaletteStore) Clear(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, []palette.Palette{})
}
