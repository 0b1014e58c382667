// Package server implements the MCP (Model Context Protocol) server for the
// palette tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - image_load: Load an image (file, URL, data URI or "sample") and report metadata
//
// Extraction:
//   - palette_extract: Most frequent quantized colors, optionally with bucket statistics
//
// Color:
//   - color_contrast: WCAG contrast ratio and grade
//   - color_validate: Hex validation and canonical form
//   - color_info: Hex, RGB, HSL, luminance and text color
//
// Active palette (at most 8 colors, no duplicates):
//   - palette_active_add, palette_active_remove
//   - palette_active_list, palette_active_clear
//
// Saved palettes (newest first, at most 100):
//   - palette_save: Save the active palette
//   - palette_saved_list, palette_saved_delete, palette_saved_clear
//
// Export:
//   - palette_export: JSON, CSS, GIMP palette or PNG swatch strip
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments or unknown tools, -32000 for tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// A contrast check on invalid hex is not an error; the result carries a null
// ratio.
//
// # Usage
//
//	srv := server.New(server.Options{Studio: st, Logger: logger, Version: version})
//	if err := srv.Run(ctx); err != nil {
//	    logger.Error("server error", "error", err)
//	}
package server
