// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package explore implements the interactive chart exploration engine:
// filtering, sorting, zoom windows, drill-down navigation and metric
// selection over an immutable dataset. Every operation is a pure function
// of its inputs; chart state changes by replacing values, never by mutating
// shared fields.
package explore

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/vidlens/vidlens/internal/record"
)

// FilterSpec maps field names to the single value each field must equal.
// A field without an entry is unconstrained. The zero FilterSpec has no
// constraints.
type FilterSpec struct {
	constraints map[string]record.Value
}

// With returns a copy of f constraining field to v. A null v clears the
// field, as does an empty field name (which is otherwise ignored).
func (f FilterSpec) With(field string, v record.Value) FilterSpec {
	if field == "" {
		return f
	}
	if v.IsNull() {
		return f.Without(field)
	}
	next := maps.Clone(f.constraints)
	if next == nil {
		next = make(map[string]record.Value, 1)
	}
	next[field] = v
	return FilterSpec{constraints: next}
}

// Without returns a copy of f with field unconstrained.
func (f FilterSpec) Without(field string) FilterSpec {
	if _, ok := f.constraints[field]; !ok {
		return f
	}
	next := maps.Clone(f.constraints)
	delete(next, field)
	return FilterSpec{constraints: next}
}

// Get returns the constraint on field, if any.
func (f FilterSpec) Get(field string) (record.Value, bool) {
	v, ok := f.constraints[field]
	return v, ok
}

// Fields returns the constrained fields in sorted order.
func (f FilterSpec) Fields() []string {
	return slices.Sorted(maps.Keys(f.constraints))
}

// Len returns the number of active constraints.
func (f FilterSpec) Len() int { return len(f.constraints) }

// MarshalJSON encodes the constraints as an object of field → value.
func (f FilterSpec) MarshalJSON() ([]byte, error) {
	if f.constraints == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.constraints)
}

// UnmarshalJSON decodes an object of field → value. Null entries are
// dropped.
func (f *FilterSpec) UnmarshalJSON(data []byte) error {
	var raw map[string]record.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var next FilterSpec
	for k, v := range raw {
		next = next.With(k, v)
	}
	*f = next
	return nil
}

// ApplyFilters keeps the rows whose value for every constrained field is
// exactly equal to the constraint. Input order is preserved. A row missing
// a constrained field never matches.
func ApplyFilters(rows record.Rows, spec FilterSpec) record.Rows {
	out := make(record.Rows, 0, len(rows))
	for _, row := range rows {
		if matches(row.Record, spec) {
			out = append(out, row)
		}
	}
	return out
}

func matches(r record.Record, spec FilterSpec) bool {
	for field, want := range spec.constraints {
		got, ok := r.Get(field)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Option is one selectable value of a filter descriptor.
type Option struct {
	Value record.Value `json:"value"`
	Label string       `json:"label"`
}

// FilterDescriptor declares a filter selector rendered for a chart.
// When Options is empty the allowed values are the distinct values of Key in
// the data currently on screen.
type FilterDescriptor struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []Option `json:"options,omitempty"`
}

// ResolveOptions returns d's allowed options, deriving them from data when
// none are declared. Declared options are read as the kind of d.Key in data.
// Derived options keep first-seen order.
func (d FilterDescriptor) ResolveOptions(data *record.Dataset) []Option {
	if len(d.Options) > 0 {
		kind := data.KindOf(d.Key)
		out := slices.Clone(d.Options)
		for i := range out {
			out[i].Value = record.Coerce(out[i].Value, kind)
		}
		return out
	}
	distinct := data.Distinct(d.Key)
	out := make([]Option, len(distinct))
	for i, v := range distinct {
		out[i] = Option{Value: v, Label: v.String()}
	}
	return out
}

// Allows reports whether v is one of d's options for data.
func (d FilterDescriptor) Allows(v record.Value, data *record.Dataset) bool {
	for _, opt := range d.ResolveOptions(data) {
		if opt.Value.Equal(v) {
			return true
		}
	}
	return false
}
