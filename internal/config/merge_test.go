package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OverWins(t *testing.T) {
	base := &Config{
		OutputFormat: "table",
		Source:       SourceConfig{BaseURL: "http://a", Limit: 50, Timeout: "10s"},
		Assistant:    AssistantConfig{Model: "m1", History: 5},
	}
	over := &Config{
		OutputFormat: "json",
		Source:       SourceConfig{Limit: 10},
		Assistant:    AssistantConfig{History: 2},
	}

	got := Merge(base, over)
	assert.Equal(t, "json", got.OutputFormat)
	assert.Equal(t, "http://a", got.Source.BaseURL)
	assert.Equal(t, 10, got.Source.Limit)
	assert.Equal(t, "10s", got.Source.Timeout)
	assert.Equal(t, "m1", got.Assistant.Model)
	assert.Equal(t, 2, got.Assistant.History)
}

func TestMerge_ChartsReplaceByID(t *testing.T) {
	base := &Config{Charts: map[string]ChartConfig{
		"trend": {Kind: "line", XField: "date", AxisField: "day"},
		"radar": {Kind: "radar"},
	}}
	over := &Config{Charts: map[string]ChartConfig{
		"trend": {Kind: "bar", XField: "date"},
		"extra": {Kind: "pie", XField: "name"},
	}}

	got := Merge(base, over)
	require.Len(t, got.Charts, 3)
	assert.Equal(t, "bar", got.Charts["trend"].Kind)
	assert.Empty(t, got.Charts["trend"].AxisField, "charts replace whole, not field by field")
	assert.Equal(t, "radar", got.Charts["radar"].Kind)

	assert.Len(t, base.Charts, 2, "merge must not modify its inputs")
	assert.Equal(t, "line", base.Charts["trend"].Kind)
}

func TestMerge_NilOver(t *testing.T) {
	base := Default()
	got := Merge(base, nil)
	assert.Equal(t, base, got)
	assert.NotSame(t, base, got)
}

func TestMerge_EmptyBaseCharts(t *testing.T) {
	got := Merge(&Config{}, &Config{Charts: map[string]ChartConfig{"a": {Kind: "bar"}}})
	assert.Contains(t, got.Charts, "a")
}
