// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package record

import (
	"encoding/json"
	"maps"
	"slices"
)

// Record maps field names to values. A Record handed to a Dataset must not
// be modified afterwards.
type Record map[string]Value

// Get returns the named field and whether it is present and non-null.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r[field]
	if !ok || v.IsNull() {
		return Null(), false
	}
	return v, true
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// Row is a record together with its position in the dataset it came from.
// Index is the record's identity: derived views reorder and drop rows but
// never renumber them.
type Row struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
}

// Rows is a derived sequence of rows.
type Rows []Row

// Indices returns the dataset positions of rs in order.
func (rs Rows) Indices() []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Index
	}
	return out
}

// Records returns the records of rs in order.
func (rs Rows) Records() []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = r.Record
	}
	return out
}

// Dataset is an ordered, immutable sequence of records. It is replaced
// wholesale on refetch and never patched in place.
type Dataset struct {
	records []Record
}

// NewDataset builds a dataset from records. The slice is copied so later
// appends by the caller do not leak into the dataset.
func NewDataset(records []Record) *Dataset {
	return &Dataset{records: slices.Clone(records)}
}

// Empty returns a dataset with no records.
func Empty() *Dataset { return &Dataset{} }

// Len returns the number of records. A nil dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the record at position i.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Rows returns every record as a row in dataset order.
func (d *Dataset) Rows() Rows {
	if d == nil {
		return Rows{}
	}
	out := make(Rows, len(d.records))
	for i, r := range d.records {
		out[i] = Row{Index: i, Record: r}
	}
	return out
}

// Records returns a copy of the record slice.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return slices.Clone(d.records)
}

// Distinct returns the distinct non-null values of field in first-seen order.
func (d *Dataset) Distinct(field string) []Value {
	var out []Value
	for _, r := range d.Rows() {
		v, ok := r.Record.Get(field)
		if !ok {
			continue
		}
		if !slices.ContainsFunc(out, v.Equal) {
			out = append(out, v)
		}
	}
	return out
}

// KindOf returns the kind of the first non-null value of field, or KindNull
// when no record carries it.
func (d *Dataset) KindOf(field string) Kind {
	for _, r := range d.Rows() {
		if v, ok := r.Record.Get(field); ok && !v.IsNull() {
			return v.Kind()
		}
	}
	return KindNull
}

// MarshalJSON encodes the dataset as a JSON array of objects.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	if d == nil || d.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.records)
}

// UnmarshalJSON decodes a JSON array of objects.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	d.records = records
	return nil
}
