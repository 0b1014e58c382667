package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/palette-tools-mcp/internal/quantize"
)

// createTestImageFile creates a solid PNG file and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult calls a tool, expects success and decodes the text content
// into out.
func toolResult(t *testing.T, s *Server, name string, args interface{}, out interface{}) {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("%s: unexpected content: %v", name, content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("%s: failed to decode result: %v", name, err)
	}
}

// toolError calls a tool and expects a JSON-RPC error with code.
func toolError(t *testing.T, s *Server, name string, args interface{}, code int) {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error == nil {
		t.Fatalf("%s: expected error, got result %v", name, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("%s: Error.Code = %d, want %d (%v)", name, resp.Error.Code, code, resp.Error.Data)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 100, 80, color.NRGBA{255, 0, 0, 255})

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
		Kind   string `json:"kind"`
	}
	toolResult(t, s, "image_load", map[string]interface{}{"source": path}, &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" || info.Kind != "file" {
		t.Errorf("format/kind: got %s/%s", info.Format, info.Kind)
	}
}

func TestHandleToolsCall_ImageLoadErrors(t *testing.T) {
	s := newTestServer()
	toolError(t, s, "image_load", map[string]interface{}{}, CodeInvalidParams)
	toolError(t, s, "image_load", map[string]interface{}{"source": "/nonexistent/image.png"}, CodeToolFailed)
}

func TestHandleToolsCall_PaletteExtract(t *testing.T) {
	s := newTestServer()

	var res struct {
		Source string   `json:"source"`
		Colors []string `json:"colors"`
	}
	toolResult(t, s, "palette_extract", map[string]interface{}{"source": "sample"}, &res)

	want := []string{"#F0F0F0", "#7838E8", "#009068", "#E84040", "#EFEFEF", "#EFEFEF"}
	if !reflect.DeepEqual(res.Colors, want) {
		t.Errorf("colors: got %v, want %v", res.Colors, want)
	}
}

func TestHandleToolsCall_PaletteExtractSolid(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 50, 50, color.NRGBA{0x12, 0x34, 0x56, 255})

	var res struct {
		Colors []string `json:"colors"`
	}
	toolResult(t, s, "palette_extract", map[string]interface{}{"source": path, "count": 2, "step": 1}, &res)

	if !reflect.DeepEqual(res.Colors, []string{"#103050", "#EFEFEF"}) {
		t.Errorf("colors: got %v", res.Colors)
	}
}

func TestHandleToolsCall_PaletteExtractVerbose(t *testing.T) {
	s := newTestServer()

	var res struct {
		Colors  []string `json:"colors"`
		Buckets []struct {
			Hex     string  `json:"hex"`
			Count   int     `json:"count"`
			Percent float64 `json:"percent"`
		} `json:"buckets"`
		Step int `json:"step"`
	}
	args := map[string]interface{}{
		"source":  "sample",
		"count":   2,
		"verbose": true,
		"region":  map[string]interface{}{"x1": 0, "y1": 0, "x2": 50, "y2": 50},
	}
	toolResult(t, s, "palette_extract", args, &res)

	if !reflect.DeepEqual(res.Colors, []string{"#F0F0F0", "#EFEFEF"}) {
		t.Errorf("colors: got %v", res.Colors)
	}
	if len(res.Buckets) != 1 || res.Buckets[0].Percent != 100 {
		t.Errorf("buckets: got %+v", res.Buckets)
	}
	if res.Step != 6 {
		t.Errorf("step: got %d, want 6", res.Step)
	}
}

func TestHandleToolsCall_PaletteExtractErrors(t *testing.T) {
	s := newTestServer()
	toolError(t, s, "palette_extract", map[string]interface{}{"source": ""}, CodeInvalidParams)
	toolError(t, s, "palette_extract", map[string]interface{}{"source": "sample", "count": "six"}, CodeInvalidParams)
	toolError(t, s, "palette_extract", map[string]interface{}{"source": "/missing.png"}, CodeToolFailed)
}

func TestHandleToolsCall_PaletteExtractCountBound(t *testing.T) {
	s := newTestServer()

	var res struct {
		Colors []string `json:"colors"`
	}
	toolResult(t, s, "palette_extract", map[string]interface{}{"source": "sample", "count": quantize.MaxCount}, &res)
	if len(res.Colors) != quantize.MaxCount {
		t.Errorf("len(colors): got %d, want %d", len(res.Colors), quantize.MaxCount)
	}

	for _, count := range []int{quantize.MaxCount + 1, 4611686018427387904} {
		toolError(t, s, "palette_extract", map[string]interface{}{"source": "sample", "count": count}, CodeInvalidParams)
		toolError(t, s, "palette_extract", map[string]interface{}{"source": "sample", "count": count, "verbose": true}, CodeInvalidParams)
	}
}

func TestRun_OversizedCountKeepsServing(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"palette_extract","arguments":{"source":"sample","count":4611686018427387904}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	s := New(Options{In: strings.NewReader(in), Out: &out})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dec := json.NewDecoder(&out)
	var responses []MCPResponse
	for dec.More() {
		var resp MCPResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		responses = append(responses, resp)
	}
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != CodeInvalidParams {
		t.Errorf("extract response: %+v", responses[0])
	}
	if responses[1].ID != float64(2) || responses[1].Error != nil {
		t.Errorf("ping response: %+v", responses[1])
	}
}

func TestHandleToolsCall_ColorContrast(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name      string
		fg, bg    string
		wantRatio interface{}
		wantGrade string
	}{
		{"black on white", "#000000", "#FFFFFF", 21.0, "AAA"},
		{"identical", "#336699", "#336699", 1.0, "Fail"},
		{"gray on white", "#777777", "#FFFFFF", 4.48, "AA Large"},
		{"invalid", "#XYZ123", "#FFFFFF", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res map[string]interface{}
			toolResult(t, s, "color_contrast", map[string]interface{}{"foreground": tt.fg, "background": tt.bg}, &res)

			if res["ratio"] != tt.wantRatio {
				t.Errorf("ratio: got %v, want %v", res["ratio"], tt.wantRatio)
			}
			if _, present := res["ratio"]; !present {
				t.Error("ratio key should always be present")
			}
			grade, _ := res["grade"].(string)
			if grade != tt.wantGrade {
				t.Errorf("grade: got %q, want %q", grade, tt.wantGrade)
			}
		})
	}
}

func TestHandleToolsCall_ColorValidate(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		in    string
		valid bool
		hex   interface{}
	}{
		{"#abc", true, "#AABBCC"},
		{"AABBCC", true, "#AABBCC"},
		{"#AB", false, nil},
		{"GGGGGG", false, nil},
	}
	for _, tt := range tests {
		var res map[string]interface{}
		toolResult(t, s, "color_validate", map[string]interface{}{"color": tt.in}, &res)
		if res["valid"] != tt.valid || res["hex"] != tt.hex {
			t.Errorf("color_validate(%q): got %v", tt.in, res)
		}
	}
}

func TestHandleToolsCall_ColorInfo(t *testing.T) {
	s := newTestServer()

	var res struct {
		Hex       string `json:"hex"`
		HSL       struct{ H, S, L int }
		TextColor string `json:"text_color"`
	}
	toolResult(t, s, "color_info", map[string]interface{}{"color": "f00"}, &res)
	if res.Hex != "#FF0000" || res.HSL.H != 0 || res.HSL.S != 100 || res.HSL.L != 50 {
		t.Errorf("got %+v", res)
	}

	toolError(t, s, "color_info", map[string]interface{}{"color": "nope"}, CodeInvalidParams)
}

func TestHandleToolsCall_ActivePalette(t *testing.T) {
	s := newTestServer()

	var res struct {
		Colors  []string `json:"colors"`
		Changed *bool    `json:"changed"`
	}
	toolResult(t, s, "palette_active_add", map[string]interface{}{"color": "#7c3aed"}, &res)
	toolResult(t, s, "palette_active_add", map[string]interface{}{"color": "059669"}, &res)
	if !reflect.DeepEqual(res.Colors, []string{"#7C3AED", "#059669"}) {
		t.Errorf("after add: got %v", res.Colors)
	}

	// Duplicate and invalid colors fail.
	toolError(t, s, "palette_active_add", map[string]interface{}{"color": "#7C3AED"}, CodeToolFailed)
	toolError(t, s, "palette_active_add", map[string]interface{}{"color": "#12"}, CodeInvalidParams)

	toolResult(t, s, "palette_active_remove", map[string]interface{}{"color": "#7C3AED"}, &res)
	if res.Changed == nil || !*res.Changed || !reflect.DeepEqual(res.Colors, []string{"#059669"}) {
		t.Errorf("after remove: got %+v", res)
	}

	res.Colors = nil
	toolResult(t, s, "palette_active_list", nil, &res)
	if !reflect.DeepEqual(res.Colors, []string{"#059669"}) {
		t.Errorf("list: got %v", res.Colors)
	}

	toolResult(t, s, "palette_active_clear", map[string]interface{}{}, &res)
	if len(res.Colors) != 0 {
		t.Errorf("after clear: got %v", res.Colors)
	}
}

func TestHandleToolsCall_ActivePaletteFull(t *testing.T) {
	s := newTestServer()
	var res struct {
		Colors []string `json:"colors"`
	}
	for i := 0; i < 8; i++ {
		toolResult(t, s, "palette_active_add", map[string]interface{}{"color": strings.Repeat(string(rune('0'+i)), 6)}, &res)
	}
	resp := callTool(t, s, "palette_active_add", map[string]interface{}{"color": "#FFFFFF"})
	if resp.Error == nil || !strings.Contains(resp.Error.Data.(string), "8") {
		t.Errorf("expected palette-full error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_SavedPalettes(t *testing.T) {
	s := newTestServer()

	// Saving an empty active palette fails.
	toolError(t, s, "palette_save", map[string]interface{}{"name": "empty"}, CodeToolFailed)

	type savedPalette struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Colors  []string `json:"colors"`
		Created int64    `json:"created"`
	}
	var res struct {
		Saved    *savedPalette  `json:"saved"`
		Palettes []savedPalette `json:"palettes"`
	}

	var active struct{}
	toolResult(t, s, "palette_active_add", map[string]interface{}{"color": "#EF4444"}, &active)
	toolResult(t, s, "palette_save", map[string]interface{}{"name": "Warm"}, &res)
	if res.Saved == nil || res.Saved.Name != "Warm" || res.Saved.ID == "" || res.Saved.Created == 0 {
		t.Fatalf("saved: got %+v", res.Saved)
	}

	toolResult(t, s, "palette_save", nil, &res)
	if len(res.Palettes) != 2 || res.Palettes[0].Name != "Untitled" || res.Palettes[1].Name != "Warm" {
		t.Errorf("palettes: got %+v", res.Palettes)
	}

	res.Palettes = nil
	toolResult(t, s, "palette_saved_list", nil, &res)
	if len(res.Palettes) != 2 {
		t.Errorf("list: got %+v", res.Palettes)
	}

	toolResult(t, s, "palette_saved_delete", map[string]interface{}{"index": 5}, &res)
	if len(res.Palettes) != 2 {
		t.Errorf("out-of-range delete: got %+v", res.Palettes)
	}
	toolResult(t, s, "palette_saved_delete", map[string]interface{}{"index": 0}, &res)
	if len(res.Palettes) != 1 || res.Palettes[0].Name != "Warm" {
		t.Errorf("delete 0: got %+v", res.Palettes)
	}
	toolError(t, s, "palette_saved_delete", map[string]interface{}{}, CodeInvalidParams)

	var cleared struct {
		Cleared bool `json:"cleared"`
	}
	toolResult(t, s, "palette_saved_clear", nil, &cleared)
	if !cleared.Cleared {
		t.Error("clear should report true")
	}
	toolResult(t, s, "palette_saved_list", nil, &res)
	if len(res.Palettes) != 0 {
		t.Errorf("after clear: got %+v", res.Palettes)
	}
}

func TestHandleToolsCall_Export(t *testing.T) {
	s := newTestServer()

	var res struct {
		Format   string `json:"format"`
		Encoding string `json:"encoding"`
		Data     string `json:"data"`
	}
	toolResult(t, s, "palette_export", map[string]interface{}{"colors": []string{"#abc", "#123456"}}, &res)
	if res.Format != "json" || res.Encoding != "text" || res.Data != "[\n  \"#AABBCC\",\n  \"#123456\"\n]\n" {
		t.Errorf("json export: got %+v", res)
	}

	toolResult(t, s, "palette_export", map[string]interface{}{"format": "png", "colors": []string{"#abc"}}, &res)
	if res.Encoding != "base64" {
		t.Errorf("png encoding: got %s", res.Encoding)
	}
	raw, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if _, err := png.Decode(strings.NewReader(string(raw))); err != nil {
		t.Errorf("invalid png: %v", err)
	}

	// The active palette is empty.
	toolError(t, s, "palette_export", map[string]interface{}{"format": "css"}, CodeToolFailed)
	toolError(t, s, "palette_export", map[string]interface{}{"format": "svg", "colors": []string{"#abc"}}, CodeInvalidParams)
	toolError(t, s, "palette_export", map[string]interface{}{"colors": []string{"zzz"}}, CodeInvalidParams)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := newTestServer()
	toolError(t, s, "image_ocr_full", map[string]interface{}{}, CodeInvalidParams)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleToolsCall(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`[1,2,3]`),
	})
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Errorf("expected invalid params error, got %+v", resp)
	}
}
