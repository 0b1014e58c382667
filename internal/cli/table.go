package cli

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ANSI CSI sequences, as emitted by swatch.
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// visibleWidth returns the terminal display width of s, ignoring escape
// sequences and counting wide runes (CJK, emoji) as two cells.
func visibleWidth(s string) int {
	if s == "" {
		return 0
	}
	if strings.ContainsRune(s, 0x1b) {
		s = ansiRe.ReplaceAllString(s, "")
	}
	g := uniseg.NewGraphemes(s)
	width := 0
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// Table aligns rows of cells into columns.
type Table struct {
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		padding: 2,
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	r := make([]string, len(t.headers))
	copy(r, row)
	t.rows = append(t.rows, r)
}

// Render formats the table. Trailing spaces are trimmed from every line.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	t.renderRow(&b, t.headers, widths)

	sep := make([]string, len(t.headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.renderRow(&b, sep, widths)

	for _, row := range t.rows {
		t.renderRow(&b, row, widths)
	}
	return b.String()
}

func (t *Table) renderRow(b *strings.Builder, cells []string, widths []int) {
	var line strings.Builder
	for i, cell := range cells {
		line.WriteString(cell)
		if i < len(cells)-1 {
			pad := widths[i] - visibleWidth(cell) + t.padding
			line.WriteString(strings.Repeat(" ", pad))
		}
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}
