// Package palette holds palette records, the actively curated palette, and
// palette exporters.
package palette

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
)

// MaxActiveColors is the most colors an actively curated palette may hold.
const MaxActiveColors = 8

// DefaultName is used when a palette is saved without a name.
const DefaultName = "Untitled"

// Palette errors.
var (
	ErrPaletteFull    = errors.New("palette is full")
	ErrDuplicateColor = errors.New("color already in palette")
	ErrEmptyPalette   = errors.New("palette is empty")
)

// Palette is a named, ordered list of colors as persisted by the store.
//
// Created is Unix milliseconds. Records written by older versions carry no
// ID; they still load.
type Palette struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Colors  []string `json:"colors"`
	Created int64    `json:"created"`
}

// New builds a palette record with a fresh ID. Blank names become
// DefaultName.
func New(name string, colors []colour.Color, now time.Time) Palette {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	hexes := make([]string, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex()
	}
	return Palette{
		ID:      uuid.NewString(),
		Name:    name,
		Colors:  hexes,
		Created: now.UnixMilli(),
	}
}

// CreatedAt returns Created as a time.Time.
func (p Palette) CreatedAt() time.Time {
	return time.UnixMilli(p.Created)
}

// ParsedColors parses the palette's colors, skipping entries that are not
// valid hex.
func (p Palette) ParsedColors() []colour.Color {
	out := make([]colour.Color, 0, len(p.Colors))
	for _, h := range p.Colors {
		if c, err := colour.ParseHex(h); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// Active is the palette a user is currently curating: ordered, without
// duplicates, and at most MaxActiveColors long. Active is safe for
// concurrent use.
type Active struct {
	mu     sync.Mutex
	colors []colour.Color
}

// NewActive returns an empty active palette.
func NewActive() *Active {
	return &Active{}
}

// Add appends a hex color.
func (a *Active) Add(hex string) error {
	c, err := colour.ParseHex(hex)
	if err != nil {
		return err
	}
	return a.AddColor(c)
}

// AddColor appends c. Colors already present (by channel equality) are
// rejected with ErrDuplicateColor, and a full palette with ErrPaletteFull.
func (a *Active) AddColor(c colour.Color) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, existing := range a.colors {
		if existing == c {
			return fmt.Errorf("%w: %s", ErrDuplicateColor, c.Hex())
		}
	}
	if len(a.colors) >= MaxActiveColors {
		return fmt.Errorf("%w: max %d colors", ErrPaletteFull, MaxActiveColors)
	}
	a.colors = append(a.colors, c)
	return nil
}

// Remove deletes a hex color and reports whether it was present.
func (a *Active) Remove(hex string) bool {
	c, err := colour.ParseHex(hex)
	if err != nil {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i, existing := range a.colors {
		if existing == c {
			a.colors = append(a.colors[:i], a.colors[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the palette.
func (a *Active) Clear() {
	a.mu.Lock()
	a.colors = nil
	a.mu.Unlock()
}

// Len returns the number of colors.
func (a *Active) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.colors)
}

// Colors returns a copy of the colors in order.
func (a *Active) Colors() []colour.Color {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]colour.Color, len(a.colors))
	copy(out, a.colors)
	return out
}

// Hexes returns the colors in canonical hex.
func (a *Active) Hexes() []string {
	colors := a.Colors()
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}
