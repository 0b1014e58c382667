package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ironsheep/palette-tools-mcp/internal/colour"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// writeJSON writes v as JSON. Terminals get indented output, pipes get one
// compact line.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if isTerminal(w) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// swatch renders a two-cell truecolor block for c.
func swatch(c colour.Color) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
}

// colorLine formats one hex color, with a swatch when color output is on.
func colorLine(hex string, color bool) string {
	if !color {
		return hex
	}
	c, err := colour.ParseHex(hex)
	if err != nil {
		return hex
	}
	return swatch(c) + " " + hex
}
