package server

import "github.com/ironsheep/palette-tools-mcp/internal/quantize"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var sourceProperty = map[string]interface{}{
	"type":        "string",
	"description": "Image source: absolute file path, http(s) URL, data:image/...;base64 URI, or \"sample\" for the built-in demo image",
}

var regionProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional region to sample (x1,y1 inclusive; x2,y2 exclusive)",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer"},
		"y1": map[string]interface{}{"type": "integer"},
		"x2": map[string]interface{}{"type": "integer"},
		"y2": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"x1", "y1", "x2", "y2"},
}

func hexProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description + " (#RGB or #RRGGBB, leading # optional)",
	}
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "image_load",
			Description: "Load an image and return its dimensions, format and alpha support. The decoded image is cached for later extraction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
				},
				"required": []string{"source"},
			},
		},

		// Extraction
		{
			Name:        "palette_extract",
			Description: "Extract the most frequent colors of an image. Pixels are bucketed to 5 bits per channel on a sampling grid; the list is padded with #EFEFEF to exactly 'count' entries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 6",
						"default":     6,
						"maximum":     quantize.MaxCount,
					},
					"step": map[string]interface{}{
						"type":        "integer",
						"description": "Sampling grid spacing in pixels (lower = more accurate, slower). Default 6",
						"default":     6,
					},
					"region": regionProperty,
					"verbose": map[string]interface{}{
						"type":        "boolean",
						"description": "Include per-bucket pixel counts and percentages",
						"default":     false,
					},
				},
				"required": []string{"source"},
			},
		},

		// Color
		{
			Name:        "color_contrast",
			Description: "Compute the WCAG 2.x contrast ratio between two colors, rounded to 2 decimals, with its conformance grade. The ratio is null when either color is not valid hex.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"foreground": hexProperty("Text color"),
					"background": hexProperty("Background color"),
				},
				"required": []string{"foreground", "background"},
			},
		},
		{
			Name:        "color_validate",
			Description: "Check whether a string is a valid hex color and return its canonical #RRGGBB form.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": hexProperty("Color to validate"),
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "color_info",
			Description: "Describe a color: canonical hex, RGB, HSL, relative luminance and the better text color (black or white) to place on it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": hexProperty("Color to describe"),
				},
				"required": []string{"color"},
			},
		},

		// Active palette
		{
			Name:        "palette_active_add",
			Description: "Add a color to the active palette (max 8 colors, no duplicates).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": hexProperty("Color to add"),
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "palette_active_remove",
			Description: "Remove a color from the active palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": hexProperty("Color to remove"),
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "palette_active_list",
			Description: "List the colors of the active palette in order.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "palette_active_clear",
			Description: "Remove every color from the active palette.",
			InputSchema: emptySchema(),
		},

		// Saved palettes
		{
			Name:        "palette_save",
			Description: "Save the active palette under a name. Saved palettes are kept newest first, at most 100.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Palette name. Default \"Untitled\"",
					},
				},
			},
		},
		{
			Name:        "palette_saved_list",
			Description: "List saved palettes, newest first.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "palette_saved_delete",
			Description: "Delete the saved palette at a 0-based index. Out-of-range indexes change nothing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based position in the saved list",
					},
				},
				"required": []string{"index"},
			},
		},
		{
			Name:        "palette_saved_clear",
			Description: "Delete every saved palette.",
			InputSchema: emptySchema(),
		},

		// Export
		{
			Name:        "palette_export",
			Description: "Export a palette as JSON, CSS custom properties, a GIMP palette, or a PNG swatch strip (base64). Exports the given colors, else the saved palette at 'saved_index', else the active palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"json", "css", "gpl", "png"},
						"description": "Export format. Default json",
						"default":     "json",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Explicit colors to export",
					},
					"saved_index": map[string]interface{}{
						"type":        "integer",
						"description": "0-based index of a saved palette to export",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
