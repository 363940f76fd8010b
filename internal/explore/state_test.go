// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/record"
)

// pipelineFixture is five rows over two categories spread across days 1-5.
func pipelineFixture() *record.Dataset {
	row := func(cat string, views, day float64) record.Record {
		return record.Record{
			"category": record.String(cat),
			"views":    record.Number(views),
			"day":      record.Number(day),
		}
	}
	return record.NewDataset([]record.Record{
		row("A", 100, 1),
		row("B", 500, 2),
		row("A", 300, 2),
		row("A", 200, 4),
		row("A", 50, 5),
	})
}

func pipelineConfig() *ChartConfig {
	return &ChartConfig{
		ID:             "views",
		Title:          "Views",
		Kind:           KindBar,
		XField:         "category",
		YFields:        []string{"views"},
		AxisField:      "day",
		Filters:        []FilterDescriptor{{Key: "category", Label: "Category"}},
		MetricSuperset: []string{"views", "likes"},
		Expander:       echoExpander,
	}
}

func reduceAll(t *testing.T, cfg *ChartConfig, s State, cmds ...Command) State {
	t.Helper()
	for _, cmd := range cmds {
		var err error
		s, _, err = Reduce(cfg, s, cmd)
		require.NoError(t, err)
	}
	return s
}

func TestNewState_Defaults(t *testing.T) {
	cfg := pipelineConfig()
	cfg.DefaultSort = SortSpec{Field: "views"}
	s := NewState(cfg, pipelineFixture())

	assert.Zero(t, s.Filters.Len())
	assert.Equal(t, SortSpec{Field: "views"}, s.Sort)
	assert.False(t, s.Window.IsSet())
	assert.Equal(t, "day", s.Window.Axis())
	assert.True(t, s.ShowBrush)
	assert.Equal(t, []string{"Views"}, s.Drill.Labels())
	assert.Equal(t, []string{"views", "likes"}, s.Metrics.Selection())
}

func TestVisible_FilterSortWindow(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()),
		SetFilter{Field: "category", Value: record.String("A")},
		SetSort{Spec: SortSpec{Field: "views", Direction: Descending}},
		SetWindow{Start: record.Number(2), End: record.Number(4)},
	)

	assert.Equal(t, []int{2, 3}, Visible(s).Indices())
}

func TestVisible_CommandOrderIrrelevant(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()),
		SetWindow{Start: record.Number(4), End: record.Number(2)},
		SetSort{Spec: SortSpec{Field: "views", Direction: Descending}},
		SetFilter{Field: "category", Value: record.String("A")},
	)

	assert.Equal(t, []int{2, 3}, Visible(s).Indices())
}

func TestReduce_RefetchResetsDrillAndWindow(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()),
		Descend{Index: 0},
		Descend{Index: 1},
		SetWindow{Start: record.Number(0), End: record.Number(1)},
		SetFilter{Field: "category", Value: record.String("A")},
		ToggleBrush{},
		ToggleMetric{ID: "likes"},
	)
	require.Equal(t, 3, s.Drill.Depth())
	require.True(t, s.Window.IsSet())

	fresh := record.NewDataset([]record.Record{{"category": record.String("C"), "views": record.Number(1), "day": record.Number(9)}})
	s, outcome, err := Reduce(cfg, s, ReplaceDataset{Data: fresh})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	assert.Equal(t, 1, s.Drill.Depth())
	assert.Same(t, fresh, s.Drill.Top().Data)
	assert.False(t, s.Window.IsSet())
	assert.Zero(t, s.Filters.Len())
	assert.False(t, s.ShowBrush, "brush visibility is a presentation choice and survives a refetch")
	assert.Equal(t, []string{"views", "likes"}, s.Metrics.Selection(), "metric selection returns to the mount default")
	assert.Equal(t, []int{0}, Visible(s).Indices())
}

func TestReduce_InvalidFilterValueIgnored(t *testing.T) {
	cfg := pipelineConfig()
	s := NewState(cfg, pipelineFixture())

	next, outcome, err := Reduce(cfg, s, SetFilter{Field: "category", Value: record.String("Z")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, s, next)

	// Fields without a descriptor accept any value.
	next, outcome, err = Reduce(cfg, s, SetFilter{Field: "owner", Value: record.String("nobody")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Empty(t, Visible(next))
}

func TestReduce_NullFilterClears(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()), SetFilter{Field: "category", Value: record.String("B")})
	require.Equal(t, []int{1}, Visible(s).Indices())

	s = reduceAll(t, cfg, s, SetFilter{Field: "category", Value: record.Null()})
	assert.Len(t, Visible(s), 5)
}

func TestReduce_WindowLeavesFiltersAlone(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()),
		SetFilter{Field: "category", Value: record.String("A")},
		Descend{Index: 0},
	)
	before := s

	s = reduceAll(t, cfg, s, SetWindow{Start: record.Number(1), End: record.Number(2)}, ResetWindow{})
	assert.Equal(t, before.Filters, s.Filters)
	assert.Equal(t, before.Drill.Labels(), s.Drill.Labels())
	assert.Equal(t, before.Window, s.Window)
}

func TestReduce_FiltersLeaveDrillAlone(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()), Descend{Index: 2})
	s = reduceAll(t, cfg, s, SetFilter{Field: "name", Value: record.String("A-sub1")}, ClearFilters{})
	assert.Equal(t, []string{"Views", "A"}, s.Drill.Labels())
}

func TestReduce_NoopOutcomes(t *testing.T) {
	cfg := pipelineConfig()
	s := NewState(cfg, pipelineFixture())

	tests := []struct {
		name string
		cmd  Command
		want Outcome
	}{
		{"back at root", Back{}, OutcomeIgnored},
		{"reset unset window", ResetWindow{}, OutcomeIgnored},
		{"clear absent filter", ClearFilter{Field: "category"}, OutcomeIgnored},
		{"clear no filters", ClearFilters{}, OutcomeIgnored},
		{"descend out of range", Descend{Index: 99}, OutcomeIgnored},
		{"null window bound", SetWindow{Start: record.Null(), End: record.Number(1)}, OutcomeIgnored},
		{"unknown metric", ToggleMetric{ID: "nonexistent"}, OutcomeRejected},
		{"unknown selection", SetSelection{IDs: []string{"views", "shares"}}, OutcomeRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, outcome, err := Reduce(cfg, s, tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, s, next)
		})
	}
}

func TestReduce_DescendFailureKeepsState(t *testing.T) {
	cfg := pipelineConfig()
	cfg.Expander = ExpandFunc(func(Segment) (*record.Dataset, error) { return record.Empty(), nil })
	s := NewState(cfg, pipelineFixture())

	next, outcome, err := Reduce(cfg, s, Descend{Index: 0})
	assert.Equal(t, OutcomeRejected, outcome)
	assert.ErrorIs(t, err, ErrEmptyExpansion)
	assert.Equal(t, s, next)

	// The failure is one-shot: a later descend can still succeed.
	cfg.Expander = echoExpander
	next, outcome, err = Reduce(cfg, s, Descend{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 2, next.Drill.Depth())
}

func TestRender_View(t *testing.T) {
	cfg := pipelineConfig()
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()), SetFilter{Field: "category", Value: record.String("A")})

	v := Render(cfg, s)
	assert.Equal(t, "views", v.Chart)
	assert.Equal(t, 5, v.Total)
	assert.Len(t, v.Rows, 4)
	assert.Equal(t, []string{"Views"}, v.Breadcrumb)
	assert.True(t, v.Drillable)
	assert.False(t, v.CanGoBack)
	require.Len(t, v.FilterControls, 1)
	require.NotNil(t, v.FilterControls[0].Selected)
	assert.Equal(t, record.String("A"), *v.FilterControls[0].Selected)
	assert.Len(t, v.FilterControls[0].Options, 2)
}

func TestRender_RadarProjects(t *testing.T) {
	cfg := &ChartConfig{
		ID:             "radar",
		Kind:           KindRadar,
		SubjectField:   "category",
		MetricSuperset: []string{"views", "day"},
	}
	s := reduceAll(t, cfg, NewState(cfg, pipelineFixture()), SetSelection{IDs: []string{"views"}})

	v := Render(cfg, s)
	require.Len(t, v.Rows, 5)
	assert.Equal(t, []string{"category", "views"}, v.Rows[0].Record.Fields())
	assert.Equal(t, []string{"views"}, v.Metrics)
}

func decodeDataset(t *testing.T, raw string) *record.Dataset {
	t.Helper()
	var d record.Dataset
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func TestReduce_TextInputMatchesStringData(t *testing.T) {
	data := decodeDataset(t, `[
		{"date":"2024-01-05","code":"007","views":1},
		{"date":"2024-02-10","code":"008","views":2}
	]`)
	require.Equal(t, record.KindString, data.KindOf("date"))
	cfg := &ChartConfig{
		ID:        "codes",
		XField:    "code",
		AxisField: "date",
		Filters: []FilterDescriptor{
			{Key: "code"},
			{Key: "date", Options: []Option{{Value: record.String("2024-01-05")}, {Value: record.String("2024-02-10")}}},
		},
	}

	tests := []struct {
		name string
		cmd  Command
	}{
		{"numeric-looking category", SetFilter{Field: "code", Value: record.String("007")}},
		{"date-only category", SetFilter{Field: "date", Value: record.String("2024-01-05")}},
		{"date-only window", SetWindow{Start: record.String("2024-01-31"), End: record.String("2024-01-01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, outcome, err := Reduce(cfg, NewState(cfg, data), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, OutcomeApplied, outcome)
			assert.Equal(t, []int{0}, Visible(s).Indices())
		})
	}
}

func TestReduce_TextInputReadAsFieldKind(t *testing.T) {
	jan := func(day int) record.Value { return record.Time(time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)) }
	data := record.NewDataset([]record.Record{
		{"code": record.Number(7), "pub": jan(5)},
		{"code": record.Number(8), "pub": jan(20)},
	})
	cfg := &ChartConfig{ID: "typed", XField: "code", AxisField: "pub", Filters: []FilterDescriptor{{Key: "code"}}}

	s, outcome, err := Reduce(cfg, NewState(cfg, data), SetFilter{Field: "code", Value: record.String("007")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, []int{0}, Visible(s).Indices())

	s, outcome, err = Reduce(cfg, NewState(cfg, data), SetWindow{Start: record.String("2024-01-01"), End: record.String("2024-01-10")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, []int{0}, Visible(s).Indices())
}

func TestReduce_WindowKindMismatchIgnored(t *testing.T) {
	data := decodeDataset(t, `[{"date":"2024-01-05","views":1}]`)
	cfg := &ChartConfig{ID: "dates", XField: "date", AxisField: "date"}
	s := NewState(cfg, data)

	next, outcome, err := Reduce(cfg, s, SetWindow{
		Start: record.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		End:   record.Time(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, s, next)
	assert.Len(t, Visible(next), 1)
}
