package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

type failingBackend struct {
	getErr error
	setErr error
	data   []byte
}

func (f *failingBackend) Get(context.Context, string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.data == nil {
		return nil, ErrNotFound
	}
	return f.data, nil
}

func (f *failingBackend) Set(_ context.Context, _ string, v []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data = v
	return nil
}

func (f *failingBackend) Close() error { return nil }

func named(name string) palette.Palette {
	return palette.Palette{Name: name, Colors: []string{"#112233"}, Created: 1}
}

func names(list []palette.Palette) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}

func TestPaletteStore_LoadEmpty(t *testing.T) {
	s := New(NewMemoryBackend(), Options{})
	got := s.Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("Load on empty backend: got %v, want empty non-nil list", got)
	}
}

func TestPaletteStore_Defaults(t *testing.T) {
	s := New(NewMemoryBackend(), Options{})
	if s.Namespace() != DefaultNamespace {
		t.Errorf("Namespace: got %q, want %q", s.Namespace(), DefaultNamespace)
	}
	if s.MaxSaved() != DefaultMaxSaved {
		t.Errorf("MaxSaved: got %d, want %d", s.MaxSaved(), DefaultMaxSaved)
	}
}

func TestPaletteStore_AddPrepends(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), Options{})

	s.Add(ctx, named("first"))
	list := s.Add(ctx, named("second"))

	if fmt.Sprint(names(list)) != "[second first]" {
		t.Errorf("Add result: got %v", names(list))
	}
	if fmt.Sprint(names(s.Load(ctx))) != "[second first]" {
		t.Errorf("Load after Add: got %v", names(s.Load(ctx)))
	}
}

func TestPaletteStore_AddTrims(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), Options{MaxSaved: 3})

	for i := 0; i < 5; i++ {
		s.Add(ctx, named(fmt.Sprintf("p%d", i)))
	}
	got := names(s.Load(ctx))
	if fmt.Sprint(got) != "[p4 p3 p2]" {
		t.Errorf("got %v, want [p4 p3 p2]", got)
	}
}

func TestPaletteStore_DeleteAt(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), Options{})
	for _, n := range []string{"c", "b", "a"} {
		s.Add(ctx, named(n))
	}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"negative is no-op", -1, "[a b c]"},
		{"past end is no-op", 3, "[a b c]"},
		{"middle", 1, "[a c]"},
		{"first", 0, "[c]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(s.DeleteAt(ctx, tt.index))
			if fmt.Sprint(got) != tt.want {
				t.Errorf("DeleteAt(%d): got %v, want %s", tt.index, got, tt.want)
			}
			if fmt.Sprint(names(s.Load(ctx))) != tt.want {
				t.Errorf("Load after DeleteAt(%d): got %v", tt.index, names(s.Load(ctx)))
			}
		})
	}
}

func TestPaletteStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), Options{})
	s.Add(ctx, named("x"))
	if !s.Clear(ctx) {
		t.Fatal("Clear reported failure")
	}
	if len(s.Load(ctx)) != 0 {
		t.Error("list not empty after Clear")
	}
}

func TestPaletteStore_CorruptData(t *testing.T) {
	for _, raw := range []string{"{not json", `{"name":"x"}`, "null"} {
		b := NewMemoryBackend()
		_ = b.Set(context.Background(), DefaultNamespace, []byte(raw))
		s := New(b, Options{})
		got := s.Load(context.Background())
		if got == nil || len(got) != 0 {
			t.Errorf("Load(%q): got %v, want empty list", raw, got)
		}
	}
}

func TestPaletteStore_BackendFailures(t *testing.T) {
	ctx := context.Background()

	readFail := New(&failingBackend{getErr: errors.New("boom")}, Options{})
	if got := readFail.Load(ctx); len(got) != 0 {
		t.Errorf("Load with failing backend: got %v", got)
	}

	writeFail := New(&failingBackend{setErr: errors.New("disk full")}, Options{})
	if writeFail.Save(ctx, []palette.Palette{named("x")}) {
		t.Error("Save should report false when the backend fails")
	}
	if writeFail.Clear(ctx) {
		t.Error("Clear should report false when the backend fails")
	}
	list := writeFail.Add(ctx, named("y"))
	if len(list) != 1 || list[0].Name != "y" {
		t.Errorf("Add should still return the updated list, got %v", names(list))
	}
}

func TestPaletteStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	a := New(b, Options{Namespace: "a"})
	c := New(b, Options{Namespace: "c"})

	a.Add(ctx, named("only-a"))
	if len(c.Load(ctx)) != 0 {
		t.Error("namespace c should be empty")
	}
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	if _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing): error = %v, want ErrNotFound", err)
	}

	key := "color-palette-studio.v1/palettes"
	if err := b.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := b.Get(ctx, key)
	if err != nil || string(got) != "[]" {
		t.Errorf("Get: got %q, %v", got, err)
	}

	if filepath.Dir(b.Path(key)) != dir {
		t.Errorf("key escaped directory: %s", b.Path(key))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected one file after Set, found %d", len(entries))
	}
}

func TestFileBackend_PaletteStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	New(b, Options{}).Add(ctx, named("persisted"))

	// A fresh store over the same directory sees the saved list.
	b2, _ := NewFileBackend(dir)
	got := New(b2, Options{}).Load(ctx)
	if len(got) != 1 || got[0].Name != "persisted" {
		t.Errorf("reloaded list: got %v", names(got))
	}
}

func TestNewFileBackend_EmptyDir(t *testing.T) {
	if _, err := NewFileBackend(""); err == nil {
		t.Error("expected error for empty directory")
	}
}
