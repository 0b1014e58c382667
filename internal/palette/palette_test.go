package palette

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
)

func TestNew(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	colors := []colour.Color{colour.MustParseHex("#7c3aed"), colour.MustParseHex("#fff")}

	p := New("  Sunset ", colors, now)
	if p.Name != "Sunset" {
		t.Errorf("Name: got %q, want Sunset", p.Name)
	}
	if !reflect.DeepEqual(p.Colors, []string{"#7C3AED", "#FFFFFF"}) {
		t.Errorf("Colors: got %v", p.Colors)
	}
	if p.Created != 1700000000123 {
		t.Errorf("Created: got %d", p.Created)
	}
	if !p.CreatedAt().Equal(now) {
		t.Errorf("CreatedAt: got %v, want %v", p.CreatedAt(), now)
	}
	if p.ID == "" {
		t.Error("ID should be set")
	}

	if other := New("x", colors, now); other.ID == p.ID {
		t.Error("IDs should be unique")
	}
}

func TestNew_DefaultName(t *testing.T) {
	p := New("   ", nil, time.Now())
	if p.Name != DefaultName {
		t.Errorf("Name: got %q, want %q", p.Name, DefaultName)
	}
}

func TestPalette_LegacyJSON(t *testing.T) {
	// Records without an id still decode.
	raw := `{"name":"Old","colors":["#112233","#ABC","bogus"],"created":1600000000000}`
	var p Palette
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.ID != "" || p.Name != "Old" {
		t.Errorf("got %+v", p)
	}
	got := p.ParsedColors()
	want := []colour.Color{{R: 0x11, G: 0x22, B: 0x33}, {R: 0xAA, G: 0xBB, B: 0xCC}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsedColors = %v, want %v", got, want)
	}
}

func TestActive_Add(t *testing.T) {
	a := NewActive()
	if err := a.Add("#7C3AED"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := a.Add("#059669"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !reflect.DeepEqual(a.Hexes(), []string{"#7C3AED", "#059669"}) {
		t.Errorf("Hexes = %v", a.Hexes())
	}
}

func TestActive_RejectsDuplicates(t *testing.T) {
	a := NewActive()
	if err := a.Add("#aabbcc"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	for _, dup := range []string{"#AABBCC", "#abc", "aabbcc"} {
		if err := a.Add(dup); !errors.Is(err, ErrDuplicateColor) {
			t.Errorf("Add(%s) error = %v, want ErrDuplicateColor", dup, err)
		}
	}
	if a.Len() != 1 {
		t.Errorf("Len: got %d, want 1", a.Len())
	}
}

func TestActive_Full(t *testing.T) {
	a := NewActive()
	for i := 0; i < MaxActiveColors; i++ {
		if err := a.AddColor(colour.Color{R: uint8(i)}); err != nil {
			t.Fatalf("AddColor(%d) failed: %v", i, err)
		}
	}
	if err := a.AddColor(colour.White); !errors.Is(err, ErrPaletteFull) {
		t.Errorf("error = %v, want ErrPaletteFull", err)
	}
	if a.Len() != MaxActiveColors {
		t.Errorf("Len: got %d, want %d", a.Len(), MaxActiveColors)
	}
}

func TestActive_InvalidHex(t *testing.T) {
	a := NewActive()
	if err := a.Add("#GGG"); !errors.Is(err, colour.ErrInvalidHex) {
		t.Errorf("error = %v, want ErrInvalidHex", err)
	}
}

func TestActive_RemoveAndClear(t *testing.T) {
	a := NewActive()
	for _, h := range []string{"#111111", "#222222", "#333333"} {
		if err := a.Add(h); err != nil {
			t.Fatal(err)
		}
	}

	if !a.Remove("#222") {
		t.Error("Remove(#222) should report true")
	}
	if a.Remove("#222222") {
		t.Error("second Remove should report false")
	}
	if a.Remove("nope") {
		t.Error("Remove of invalid hex should report false")
	}
	if !reflect.DeepEqual(a.Hexes(), []string{"#111111", "#333333"}) {
		t.Errorf("Hexes = %v", a.Hexes())
	}

	a.Clear()
	if a.Len() != 0 {
		t.Errorf("Len after Clear: got %d", a.Len())
	}
}

func TestActive_ColorsIsCopy(t *testing.T) {
	a := NewActive()
	_ = a.Add("#111111")
	colors := a.Colors()
	colors[0] = colour.White
	if a.Hexes()[0] != "#111111" {
		t.Error("mutating Colors() result changed the palette")
	}
}
