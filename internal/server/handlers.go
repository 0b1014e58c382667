package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
	"github.com/ironsheep/palette-tools-mcp/internal/imaging"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
	"github.com/ironsheep/palette-tools-mcp/internal/quantize"
	"github.com/ironsheep/palette-tools-mcp/internal/studio"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "palette_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by the caller's arguments.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || string(bytes.TrimSpace(args)) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return &paramError{err: err}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602; other tool failures return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
		}
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image
	case "image_load":
		return s.handleImageLoad(ctx, args)

	// Extraction
	case "palette_extract":
		return s.handlePaletteExtract(ctx, args)

	// Color
	case "color_contrast":
		return s.handleColorContrast(args)
	case "color_validate":
		return s.handleColorValidate(args)
	case "color_info":
		return s.handleColorInfo(args)

	// Active palette
	case "palette_active_add":
		return s.handleActiveAdd(args)
	case "palette_active_remove":
		return s.handleActiveRemove(args)
	case "palette_active_list":
		return activeResult{Colors: s.studio.Active()}, nil
	case "palette_active_clear":
		s.studio.ClearActive()
		return activeResult{Colors: s.studio.Active()}, nil

	// Saved palettes
	case "palette_save":
		return s.handlePaletteSave(ctx, args)
	case "palette_saved_list":
		return savedResult{Palettes: s.studio.Saved(ctx)}, nil
	case "palette_saved_delete":
		return s.handleSavedDelete(ctx, args)
	case "palette_saved_clear":
		ok := s.studio.ClearSaved(ctx)
		return map[string]interface{}{"cleared": ok}, nil

	// Export
	case "palette_export":
		return s.handlePaletteExport(ctx, args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Source string `json:"source"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Source) == "" {
		return nil, invalidParams("source is required")
	}
	return s.studio.Loader().LoadImageInfo(ctx, a.Source)
}

// === Extraction Handlers ===

type paletteExtractArgs struct {
	Source  string          `json:"source"`
	Count   *int            `json:"count"`
	Step    *int            `json:"step"`
	Region  *imaging.Region `json:"region,omitempty"`
	Verbose bool            `json:"verbose"`
}

type extractResult struct {
	Source string   `json:"source"`
	Colors []string `json:"colors"`
}

func (s *Server) handlePaletteExtract(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteExtractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Source) == "" {
		return nil, invalidParams("source is required")
	}
	if a.Count != nil {
		if err := quantize.CheckCount(*a.Count); err != nil {
			return nil, invalidParams("invalid count: %v", err)
		}
	}

	req := studio.ExtractRequest{
		Source: a.Source,
		Count:  a.Count,
		Step:   a.Step,
		Region: a.Region,
	}
	if a.Verbose {
		return s.studio.Analyze(ctx, req)
	}
	colors, err := s.studio.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	return extractResult{Source: a.Source, Colors: colors}, nil
}

// === Color Handlers ===

type colorContrastArgs struct {
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

func (s *Server) handleColorContrast(args json.RawMessage) (interface{}, error) {
	var a colorContrastArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.studio.Contrast(a.Foreground, a.Background), nil
}

type colorArgs struct {
	Color string `json:"color"`
}

type validateResult struct {
	Input string  `json:"input"`
	Valid bool    `json:"valid"`
	Hex   *string `json:"hex"`
}

func (s *Server) handleColorValidate(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res := validateResult{Input: a.Color}
	if c, err := colour.ParseHex(a.Color); err == nil {
		hex := c.Hex()
		res.Valid = true
		res.Hex = &hex
	}
	return res, nil
}

func (s *Server) handleColorInfo(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := colour.ParseHex(a.Color)
	if err != nil {
		return nil, &paramError{err: fmt.Errorf("%q: %w", a.Color, err)}
	}
	return colour.Describe(c), nil
}

// === Active Palette Handlers ===

type activeResult struct {
	Colors  []string `json:"colors"`
	Changed *bool    `json:"changed,omitempty"`
}

func (s *Server) handleActiveAdd(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	colors, err := s.studio.AddActive(a.Color)
	if errors.Is(err, colour.ErrInvalidHex) {
		return nil, &paramError{err: fmt.Errorf("%q: %w", a.Color, err)}
	}
	if err != nil {
		return nil, err
	}
	return activeResult{Colors: colors}, nil
}

func (s *Server) handleActiveRemove(args json.RawMessage) (interface{}, error) {
	var a colorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	colors, removed := s.studio.RemoveActive(a.Color)
	return activeResult{Colors: colors, Changed: &removed}, nil
}

// === Saved Palette Handlers ===

type savedResult struct {
	Saved    *palette.Palette  `json:"saved,omitempty"`
	Palettes []palette.Palette `json:"palettes"`
}

type paletteSaveArgs struct {
	Name string `json:"name"`
}

func (s *Server) handlePaletteSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, list, err := s.studio.SaveActive(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	return savedResult{Saved: &p, Palettes: list}, nil
}

type savedDeleteArgs struct {
	Index *int `json:"index"`
}

func (s *Server) handleSavedDelete(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a savedDeleteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Index == nil {
		return nil, invalidParams("index is required")
	}
	return savedResult{Palettes: s.studio.DeleteSaved(ctx, *a.Index)}, nil
}

// === Export Handlers ===

type paletteExportArgs struct {
	Format     string   `json:"format"`
	Colors     []string `json:"colors"`
	SavedIndex *int     `json:"saved_index"`
}

type exportResult struct {
	Format   palette.Format `json:"format"`
	Encoding string         `json:"encoding"`
	Data     string         `json:"data"`
}

func (s *Server) handlePaletteExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a paletteExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = string(palette.FormatJSON)
	}
	format, err := palette.ParseFormat(a.Format)
	if err != nil {
		return nil, &paramError{err: err}
	}

	var buf bytes.Buffer
	src := studio.ExportSource{Colors: a.Colors, SavedIndex: a.SavedIndex}
	if err := s.studio.Export(ctx, &buf, format, src); err != nil {
		if errors.Is(err, colour.ErrInvalidHex) {
			return nil, &paramError{err: err}
		}
		return nil, err
	}

	if format.Binary() {
		return exportResult{Format: format, Encoding: "base64", Data: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
	}
	return exportResult{Format: format, Encoding: "text", Data: buf.String()}, nil
}
