// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package config

import (
	"path/filepath"
	"time"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/expand"
	"github.com/vidlens/vidlens/internal/llm"
)

// Built-in defaults.
const (
	DefaultBaseURL         = "http://localhost:8000"
	DefaultTimeout         = 10 * time.Second
	DefaultRefreshInterval = 5 * time.Minute
	DefaultLimit           = 50
	DefaultCookieEnv       = "VIDLENS_COOKIE"
	DefaultProvider        = "anthropic"
	DefaultMaxTokens       = 1024
	DefaultHistory         = 5
	DefaultCompression     = 2
	DefaultAddr            = "127.0.0.1:8080"
	DefaultChartID         = "performance"
)

// Default returns the built-in configuration: the local crawler backend and
// the four dashboard charts.
func Default() *Config {
	return &Config{
		OutputFormat: "table",
		DefaultChart: DefaultChartID,
		Source: SourceConfig{
			BaseURL:         DefaultBaseURL,
			Timeout:         DefaultTimeout.String(),
			RefreshInterval: DefaultRefreshInterval.String(),
			Limit:           DefaultLimit,
			CookieEnv:       DefaultCookieEnv,
		},
		Charts: DefaultCharts(),
		Assistant: AssistantConfig{
			Provider:  DefaultProvider,
			Model:     llm.DefaultAnthropicModel,
			MaxTokens: DefaultMaxTokens,
			History:   DefaultHistory,
		},
		Store: StoreConfig{
			Path:             filepath.Join(GlobalDataDir(), "store"),
			CompressionLevel: DefaultCompression,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// DefaultCharts returns the dashboard charts: a daily trend line, a
// drillable category pie, a filterable performance bar chart and a radar
// comparison across categories.
func DefaultCharts() map[string]ChartConfig {
	return map[string]ChartConfig{
		"trend": {
			Title:     "Daily trend",
			Kind:      "line",
			Dataset:   aggregate.DatasetTimeSeries,
			Order:     1,
			XField:    "date",
			YFields:   []string{"total_views", "total_likes", "videos"},
			AxisField: "date",
			Sort:      "day:asc",
		},
		"categories": {
			Title:     "Category share",
			Kind:      "pie",
			Dataset:   aggregate.DatasetCategories,
			Order:     2,
			XField:    "name",
			YFields:   []string{"value"},
			Sort:      "value:desc",
			RootLabel: "All categories",
			Expand: ExpandConfig{
				Strategy:   expand.StrategyRatio,
				LabelField: "name",
				ValueField: "value",
			},
		},
		"performance": {
			Title:   "Video performance",
			Kind:    "bar",
			Dataset: aggregate.DatasetPerformance,
			Order:   3,
			XField:  "title",
			YFields: []string{"views", "likes", "coins", "shares"},
			Filters: []FilterConfig{{Key: "category", Label: "Category"}},
			Sort:    "views:desc",
		},
		"radar": {
			Title:        "Category comparison",
			Kind:         "radar",
			Dataset:      aggregate.DatasetRadar,
			Order:        4,
			XField:       "subject",
			SubjectField: "subject",
			Metrics:      append([]string(nil), aggregate.RadarMetrics...),
		},
	}
}
