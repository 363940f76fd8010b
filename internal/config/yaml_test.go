// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/testable"
)

const sampleYAML = `output_format: json
default_chart: views
source:
  base_url: http://crawler:8000
  timeout: 3s
  limit: 20
charts:
  views:
    title: Views by category
    kind: bar
    dataset: performance
    x_field: title
    y_fields: [views, likes]
    sort: views:asc
    filters:
      - key: category
        options: [Music, Games]
    expand:
      strategy: group_by
      match_field: tname
      child_field: author
      value_field: view
assistant:
  history: 3
`

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sampleYAML), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "http://crawler:8000", cfg.Source.BaseURL)
	assert.Equal(t, 20, cfg.Source.Limit)
	require.Contains(t, cfg.Charts, "views")

	views := cfg.Charts["views"]
	assert.Equal(t, []string{"views", "likes"}, views.YFields)
	require.Len(t, views.Filters, 1)
	assert.Equal(t, []string{"Music", "Games"}, views.Filters[0].Options)
	assert.Equal(t, "group_by", views.Expand.Strategy)
	assert.Equal(t, 3, cfg.Assistant.History)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `
output_format = "markdown"

[source]
path = "videos.jsonl"

[charts.trend]
kind = "line"
dataset = "timeseries"
x_field = "date"
axis_field = "day"
y_fields = ["total_views"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "videos.jsonl", cfg.Source.Path)
	assert.Equal(t, "day", cfg.Charts["trend"].AxisField)
}

func TestLoad_YAMLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("output_format: json\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(`output_format = "markdown"`), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("charts: [unclosed"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
}

func TestLoad_ReadError(t *testing.T) {
	orig := FS
	t.Cleanup(func() { FS = orig })
	FS = &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, errors.New("permission denied") },
	}

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "permission denied")
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := Default()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))

	back, err := Decode(buf.Bytes(), "yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestWriteTOML_RoundTrip(t *testing.T) {
	cfg := Default()
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, cfg))

	back, err := Decode(buf.Bytes(), "toml")
	require.NoError(t, err)
	assert.Equal(t, cfg.Charts["categories"].Expand, back.Charts["categories"].Expand)
	assert.Equal(t, cfg.Source, back.Source)
}
