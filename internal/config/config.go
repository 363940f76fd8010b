// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package config handles .vidlens.yaml and .vidlens.toml configuration files.
package config

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Config represents the contents of a .vidlens.yaml file.
type Config struct {
	OutputFormat string                 `yaml:"output_format,omitempty" toml:"output_format,omitempty"`
	DefaultChart string                 `yaml:"default_chart,omitempty" toml:"default_chart,omitempty"`
	Source       SourceConfig           `yaml:"source,omitempty" toml:"source,omitempty"`
	Charts       map[string]ChartConfig `yaml:"charts,omitempty" toml:"charts,omitempty"`
	Assistant    AssistantConfig        `yaml:"assistant,omitempty" toml:"assistant,omitempty"`
	Store        StoreConfig            `yaml:"store,omitempty" toml:"store,omitempty"`
	Server       ServerConfig           `yaml:"server,omitempty" toml:"server,omitempty"`
}

// SourceConfig locates the video data.
type SourceConfig struct {
	// BaseURL is the crawler backend. Path, when set, reads a local export
	// (.json, .jsonl or .xlsx) instead.
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty"`

	Timeout         string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	RefreshInterval string `yaml:"refresh_interval,omitempty" toml:"refresh_interval,omitempty"`
	Limit           int    `yaml:"limit,omitempty" toml:"limit,omitempty"`
	// PageSize switches the backend to paged requests of this many rows,
	// fetched concurrently up to Limit rows. Zero uses a single request.
	PageSize int `yaml:"page_size,omitempty" toml:"page_size,omitempty"`

	// CookieEnv names the environment variable holding the backend session
	// cookie. The cookie itself never appears in configuration.
	CookieEnv string `yaml:"cookie_env,omitempty" toml:"cookie_env,omitempty"`
}

// TimeoutDuration returns the parsed request timeout, or DefaultTimeout.
func (s SourceConfig) TimeoutDuration() time.Duration {
	return parseDuration(s.Timeout, DefaultTimeout)
}

// RefreshDuration returns the parsed refresh interval, or
// DefaultRefreshInterval. Zero disables periodic refresh.
func (s SourceConfig) RefreshDuration() time.Duration {
	return parseDuration(s.RefreshInterval, DefaultRefreshInterval)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// ChartConfig describes one dashboard chart.
type ChartConfig struct {
	Title string `yaml:"title,omitempty" toml:"title,omitempty"`
	Kind  string `yaml:"kind,omitempty" toml:"kind,omitempty"`
	// Dataset names the builder that derives this chart's rows from the
	// raw videos (raw, timeseries, categories, performance, radar).
	Dataset string `yaml:"dataset,omitempty" toml:"dataset,omitempty"`
	Order   int    `yaml:"order,omitempty" toml:"order,omitempty"`

	XField       string   `yaml:"x_field,omitempty" toml:"x_field,omitempty"`
	YFields      []string `yaml:"y_fields,omitempty" toml:"y_fields,omitempty"`
	AxisField    string   `yaml:"axis_field,omitempty" toml:"axis_field,omitempty"`
	SubjectField string   `yaml:"subject_field,omitempty" toml:"subject_field,omitempty"`

	Filters   []FilterConfig `yaml:"filters,omitempty" toml:"filters,omitempty"`
	Metrics   []string       `yaml:"metrics,omitempty" toml:"metrics,omitempty"`
	Sort      string         `yaml:"sort,omitempty" toml:"sort,omitempty"`
	RootLabel string         `yaml:"root_label,omitempty" toml:"root_label,omitempty"`

	Expand ExpandConfig `yaml:"expand,omitempty" toml:"expand,omitempty"`
}

// FilterConfig declares a filter selector. Options are parsed as values
// (numbers, dates or strings); none means options come from the data.
type FilterConfig struct {
	Key     string   `yaml:"key" toml:"key"`
	Label   string   `yaml:"label,omitempty" toml:"label,omitempty"`
	Options []string `yaml:"options,omitempty" toml:"options,omitempty"`
}

// ExpandConfig selects a drill-down strategy. An empty strategy leaves the
// chart non-drillable.
type ExpandConfig struct {
	Strategy   string    `yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	LabelField string    `yaml:"label_field,omitempty" toml:"label_field,omitempty"`
	ValueField string    `yaml:"value_field,omitempty" toml:"value_field,omitempty"`
	Ratios     []float64 `yaml:"ratios,omitempty" toml:"ratios,omitempty"`
	MatchField string    `yaml:"match_field,omitempty" toml:"match_field,omitempty"`
	ChildField string    `yaml:"child_field,omitempty" toml:"child_field,omitempty"`
}

// AssistantConfig configures the data assistant.
type AssistantConfig struct {
	// Provider is "anthropic" or "none".
	Provider  string `yaml:"provider,omitempty" toml:"provider,omitempty"`
	Model     string `yaml:"model,omitempty" toml:"model,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty"`
	// History is the number of earlier turns sent with each question.
	History int `yaml:"history,omitempty" toml:"history,omitempty"`
}

// StoreConfig locates the snapshot and report store.
type StoreConfig struct {
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// CompressionLevel is the zstd level, 1 (fastest) to 4 (best).
	CompressionLevel int `yaml:"compression_level,omitempty" toml:"compression_level,omitempty"`
}

// ServerConfig configures the dashboard API.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty"`
}

// FileName is the expected config file name in a project directory.
const FileName = ".vidlens.yaml"

// TOMLFileName is the TOML variant, read when FileName is absent.
const TOMLFileName = ".vidlens.toml"

// ChartIDs returns the configured chart ids ordered by Order, then id.
func (c *Config) ChartIDs() []string {
	ids := make([]string, 0, len(c.Charts))
	for id := range c.Charts {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return cmp.Or(cmp.Compare(c.Charts[a].Order, c.Charts[b].Order), strings.Compare(a, b))
	})
	return ids
}
