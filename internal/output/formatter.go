// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package output defines the Formatter interface for writing chart views in
// various formats.
package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/vidlens/vidlens/internal/explore"
)

// Formatter writes a derived chart view to the given writer in a specific format.
type Formatter interface {
	// Name returns the format name (e.g., "table", "json", "markdown").
	Name() string

	// Format writes the view to w.
	Format(v explore.View, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, formatNames())
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// formatNames returns a comma-separated sorted list of registered format
// names. Callers hold fmtMu.
func formatNames() string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// Columns returns the fields a tabular rendering shows for v: the x field,
// then the y fields, then any remaining fields of the first row in name
// order. Radar views lead with their subject and metrics.
func Columns(v explore.View) []string {
	var cols []string
	seen := make(map[string]bool)
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			cols = append(cols, f)
		}
	}

	add(v.XField)
	if v.Kind == explore.KindRadar {
		for _, m := range v.Metrics {
			add(m)
		}
	} else {
		for _, y := range v.YFields {
			add(y)
		}
	}
	if len(v.Rows) > 0 {
		for _, f := range v.Rows[0].Record.Fields() {
			add(f)
		}
	}
	return cols
}

// cells returns the display strings of row i of v for cols.
func cells(v explore.View, i int, cols []string) []string {
	out := make([]string, len(cols))
	rec := v.Rows[i].Record
	for j, c := range cols {
		if val, ok := rec.Get(c); ok {
			out[j] = val.String()
		}
	}
	return out
}

// statusLine summarises the non-default controls of v, e.g.
// "category=Music | sort views:desc | window 2..5".
func statusLine(v explore.View) string {
	var parts []string
	for _, f := range v.Filters.Fields() {
		val, _ := v.Filters.Get(f)
		parts = append(parts, f+"="+val.String())
	}
	if v.Sort.Field != "" {
		parts = append(parts, "sort "+v.Sort.String())
	}
	if v.Window.IsSet() {
		start, end := v.Window.Bounds()
		parts = append(parts, fmt.Sprintf("window %s..%s", start, end))
	}
	return strings.Join(parts, " | ")
}
