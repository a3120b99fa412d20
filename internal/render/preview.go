package render

import (
	"fmt"
	"io"
	"strings"
)

// NoDataMessage is printed instead of a table when there are no rows.
const NoDataMessage = "No data to display."

// DefaultMaxCellWidth bounds ASCII cell width so wide CSVs stay readable.
const DefaultMaxCellWidth = 40

// Preview is the preview view's content: projected cells in header order and
// at most one open description panel.
type Preview struct {
	Caption     string
	Headers     []string
	Cells       [][]string
	OpenHeader  string
	Description string
}

// RenderPreview writes p to w. The open header is marked with "*" and its
// description follows the table.
func RenderPreview(w io.Writer, p Preview, m Mode) error {
	if len(p.Headers) == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	t := NewTable(m)
	if p.Caption != "" {
		t.Title(p.Caption)
	}
	labels := make([]string, len(p.Headers))
	for i, h := range p.Headers {
		labels[i] = h
		if p.OpenHeader != "" && h == p.OpenHeader {
			labels[i] = h + " *"
		}
	}
	t.Header(labels...)
	for _, row := range p.Cells {
		t.Row(row...)
	}
	if m == ASCII {
		t.MaxWidth(len(p.Headers), DefaultMaxCellWidth)
	}

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	if p.OpenHeader != "" {
		fmt.Fprintf(&b, "\n%s: %s\n", p.OpenHeader, p.Description)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
