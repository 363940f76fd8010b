// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vidlens/vidlens/internal/record"
)

// Direction is a sort direction. The zero value is Descending.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// String returns "desc" or "asc".
func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection accepts asc/ascending and desc/descending, case-insensitive.
// The empty string is Descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("invalid sort direction %q (must be asc or desc)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// SortSpec selects the sort field and direction. An empty Field leaves the
// input order untouched.
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// ParseSortSpec parses "field" or "field:asc" / "field:desc".
func ParseSortSpec(s string) (SortSpec, error) {
	field, dir, _ := strings.Cut(s, ":")
	d, err := ParseDirection(dir)
	if err != nil {
		return SortSpec{}, err
	}
	return SortSpec{Field: strings.TrimSpace(field), Direction: d}, nil
}

// String renders the sort as "field:dir".
func (s SortSpec) String() string {
	if s.Field == "" {
		return ""
	}
	return s.Field + ":" + s.Direction.String()
}

// ApplySort returns rows ordered by spec.Field. The sort is stable: rows with
// equal keys keep their input order. A missing or null field sorts as the
// lowest value, so such rows come first ascending and last descending.
func ApplySort(rows record.Rows, spec SortSpec) record.Rows {
	out := slices.Clone(rows)
	if spec.Field == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b record.Row) int {
		av, _ := a.Record.Get(spec.Field)
		bv, _ := b.Record.Get(spec.Field)
		c := av.Compare(bv)
		if spec.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}
