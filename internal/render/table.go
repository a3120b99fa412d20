// Package render draws CSV previews and listings as terminal or Markdown
// tables.
package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Box-drawn terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a flag value to a Mode; anything but "markdown"/"md" is ASCII.
func ParseMode(s string) Mode {
	switch s {
	case "markdown", "md":
		return Markdown
	default:
		return ASCII
	}
}

// Table accumulates a header, rows and an optional title, then renders once.
type Table struct {
	writer table.Writer
	mode   Mode
}

// NewTable returns an empty Table rendering in m.
func NewTable(m Mode) *Table {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &Table{writer: w, mode: m}
}

// Title sets a caption shown above ASCII tables. Markdown output ignores it.
func (t *Table) Title(s string) {
	if t.mode == ASCII {
		t.writer.SetTitle(s)
	}
}

// Header sets the column headers.
func (t *Table) Header(cols ...string) {
	t.writer.AppendHeader(stringsRow(cols))
}

// Row appends a data row.
func (t *Table) Row(cells ...string) {
	t.writer.AppendRow(stringsRow(cells))
}

// MaxWidth wraps every column's content beyond n runes. Zero means unlimited.
func (t *Table) MaxWidth(columns, n int) {
	if n <= 0 {
		return
	}
	cfgs := make([]table.ColumnConfig, columns)
	for i := range cfgs {
		cfgs[i] = table.ColumnConfig{
			Number:           i + 1,
			WidthMax:         n,
			WidthMaxEnforcer: text.WrapSoft,
		}
	}
	t.writer.SetColumnConfigs(cfgs)
}

// String renders the table in its Mode.
func (t *Table) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}

func stringsRow(vals []string) table.Row {
	row := make(table.Row, len(vals))
	for i, v := range vals {
		row[i] = v
	}
	return row
}
