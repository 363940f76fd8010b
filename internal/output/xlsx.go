// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewXLSXFormatter())
}

// XLSX sheet names.
const (
	ViewSheet  = "view"
	StateSheet = "state"
)

// XLSXFormatter writes a view as an Excel workbook: the visible rows on one
// sheet with typed cells, the exploration state on a second.
type XLSXFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*XLSXFormatter)(nil)

// NewXLSXFormatter returns a new XLSXFormatter.
func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

// Name returns the format name.
func (x *XLSXFormatter) Name() string {
	return "xlsx"
}

// Format writes the workbook to w.
func (x *XLSXFormatter) Format(v explore.View, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if err := f.SetSheetName("Sheet1", ViewSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	cols := Columns(v)
	if len(cols) > 0 {
		header := make([]any, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		if err := f.SetSheetRow(ViewSheet, "A1", &header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for i, row := range v.Rows {
			values := make([]any, len(cols))
			for j, c := range cols {
				if val, ok := row.Record.Get(c); ok {
					values[j] = val.Any()
				}
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(ViewSheet, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(cols), 1)
			_ = f.SetCellStyle(ViewSheet, "A1", last, style)
		}
	}

	if _, err := f.NewSheet(StateSheet); err != nil {
		return fmt.Errorf("create state sheet: %w", err)
	}
	state := [][2]string{
		{"chart", v.Chart},
		{"title", v.Title},
		{"path", strings.Join(v.Breadcrumb, " / ")},
		{"controls", statusLine(v)},
		{"visible", fmt.Sprint(len(v.Rows))},
		{"total", fmt.Sprint(v.Total)},
		{"metrics", strings.Join(v.Metrics, ", ")},
	}
	for i, kv := range state {
		row := []any{kv[0], kv[1]}
		if err := f.SetSheetRow(StateSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
