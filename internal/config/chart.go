package config

import (
	"fmt"
	"slices"

	"github.com/vidlens/vidlens/internal/expand"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// Build converts the chart configuration into the engine configuration for
// chart id. base supplies the raw rows group-by expanders decompose.
func (c ChartConfig) Build(id string, base expand.BaseFunc) (*explore.ChartConfig, error) {
	sort, err := explore.ParseSortSpec(c.Sort)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", id, err)
	}

	exp, err := expand.New(expand.Options{
		Strategy:   c.Expand.Strategy,
		LabelField: c.Expand.LabelField,
		ValueField: c.Expand.ValueField,
		Ratios:     c.Expand.Ratios,
		MatchField: c.Expand.MatchField,
		ChildField: c.Expand.ChildField,
	}, base)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", id, err)
	}

	filters := make([]explore.FilterDescriptor, len(c.Filters))
	for i, f := range c.Filters {
		d := explore.FilterDescriptor{Key: f.Key, Label: f.Label}
		if d.Label == "" {
			d.Label = f.Key
		}
		for _, o := range f.Options {
			d.Options = append(d.Options, explore.Option{Value: record.String(o), Label: o})
		}
		filters[i] = d
	}

	return &explore.ChartConfig{
		ID:             id,
		Title:          c.Title,
		Kind:           explore.ChartKind(c.Kind),
		XField:         c.XField,
		YFields:        slices.Clone(c.YFields),
		AxisField:      c.AxisField,
		SubjectField:   c.SubjectField,
		Filters:        filters,
		MetricSuperset: slices.Clone(c.Metrics),
		DefaultSort:    sort,
		RootLabel:      c.RootLabel,
		Expander:       exp,
	}, nil
}
