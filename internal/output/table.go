package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/report"
)

func init() {
	RegisterFormatter(NewTableFormatter())
}

// TableFormatter writes a view as an aligned terminal table preceded by the
// breadcrumb and the active controls.
type TableFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TableFormatter)(nil)

// NewTableFormatter returns a new TableFormatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the format name.
func (t *TableFormatter) Name() string {
	return "table"
}

// Format writes the view as a table to w.
func (t *TableFormatter) Format(v explore.View, w io.Writer) error {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	title := v.Title
	if title == "" {
		title = v.Chart
	}
	if _, err := fmt.Fprintf(w, "%s  %s\n", bold.Sprint(title), dim.Sprint(strings.Join(v.Breadcrumb, " > "))); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	if s := statusLine(v); s != "" {
		if _, err := fmt.Fprintf(w, "%s\n", dim.Sprint(s)); err != nil {
			return fmt.Errorf("write table header: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "%d of %d rows\n\n", len(v.Rows), v.Total); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}

	if len(v.Rows) == 0 {
		return nil
	}

	cols := Columns(v)
	first := v.Rows[0].Record
	defs := make([]report.Column, len(cols))
	for i, c := range cols {
		defs[i] = report.Column{Header: c}
		if val, ok := first.Get(c); ok && val.Kind() == record.KindNumber {
			defs[i].Align = report.AlignRight
		}
	}
	tbl := report.NewTable(defs...)
	for i := range v.Rows {
		tbl.AddRow(cells(v, i, cols)...)
	}
	return tbl.Render(w)
}
