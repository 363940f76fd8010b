// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package expand

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// OtherBucket labels base rows that lack the child field.
const OtherBucket = "other"

// GroupBy decomposes a segment into the base rows behind it: rows whose
// MatchField renders as the segment label, grouped by ChildField with
// ValueField summed. Children are ordered by value, largest first.
type GroupBy struct {
	Base       BaseFunc
	MatchField string
	ChildField string
	LabelField string
	ValueField string
}

func newGroupBy(opts Options, base BaseFunc) (explore.Expander, error) {
	var errs []error
	if base == nil {
		errs = append(errs, errors.New("group_by requires a base dataset"))
	}
	if opts.MatchField == "" {
		errs = append(errs, errors.New("group_by requires match_field"))
	}
	if opts.ChildField == "" {
		errs = append(errs, errors.New("group_by requires child_field"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &GroupBy{
		Base:       base,
		MatchField: opts.MatchField,
		ChildField: opts.ChildField,
		LabelField: opts.LabelField,
		ValueField: opts.ValueField,
	}, nil
}

type group struct {
	label string
	value float64
	count int
}

// Expand groups the matching base rows. No matching rows yields an empty
// dataset, which the navigator refuses.
func (g *GroupBy) Expand(seg explore.Segment) (*record.Dataset, error) {
	base := g.Base()
	if base == nil {
		return nil, fmt.Errorf("no base data loaded for %q", seg.Label)
	}

	var groups []*group
	index := make(map[string]*group)
	for _, row := range base.Rows() {
		m, ok := row.Record.Get(g.MatchField)
		if !ok || m.String() != seg.Label {
			continue
		}
		key := OtherBucket
		if c, ok := row.Record.Get(g.ChildField); ok && c.String() != "" {
			key = c.String()
		}
		grp, ok := index[key]
		if !ok {
			grp = &group{label: key}
			index[key] = grp
			groups = append(groups, grp)
		}
		if v, ok := row.Record.Get(g.ValueField); ok {
			n, _ := v.Num()
			grp.value += n
		}
		grp.count++
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		}
		return 0
	})

	children := make([]record.Record, len(groups))
	for i, grp := range groups {
		children[i] = record.Record{
			g.LabelField: record.String(grp.label),
			g.ValueField: record.Number(grp.value),
			"count":      record.Int(int64(grp.count)),
		}
	}
	return record.NewDataset(children), nil
}
