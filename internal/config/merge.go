// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package config

import "maps"

// Merge overlays over onto base and returns the result. Non-zero fields of
// over win; zero-value fields fall through to base. Charts merge by id: a
// chart present in over replaces the base chart of the same id entirely.
// Neither input is modified.
func Merge(base, over *Config) *Config {
	result := *base
	result.Charts = maps.Clone(base.Charts)
	if over == nil {
		return &result
	}

	result.OutputFormat = pick(over.OutputFormat, base.OutputFormat)
	result.DefaultChart = pick(over.DefaultChart, base.DefaultChart)

	result.Source.BaseURL = pick(over.Source.BaseURL, base.Source.BaseURL)
	result.Source.Path = pick(over.Source.Path, base.Source.Path)
	result.Source.Timeout = pick(over.Source.Timeout, base.Source.Timeout)
	result.Source.RefreshInterval = pick(over.Source.RefreshInterval, base.Source.RefreshInterval)
	result.Source.Limit = pick(over.Source.Limit, base.Source.Limit)
	result.Source.PageSize = pick(over.Source.PageSize, base.Source.PageSize)
	result.Source.CookieEnv = pick(over.Source.CookieEnv, base.Source.CookieEnv)

	if len(over.Charts) > 0 {
		if result.Charts == nil {
			result.Charts = make(map[string]ChartConfig, len(over.Charts))
		}
		maps.Copy(result.Charts, over.Charts)
	}

	result.Assistant.Provider = pick(over.Assistant.Provider, base.Assistant.Provider)
	result.Assistant.Model = pick(over.Assistant.Model, base.Assistant.Model)
	result.Assistant.MaxTokens = pick(over.Assistant.MaxTokens, base.Assistant.MaxTokens)
	result.Assistant.History = pick(over.Assistant.History, base.Assistant.History)

	result.Store.Path = pick(over.Store.Path, base.Store.Path)
	result.Store.CompressionLevel = pick(over.Store.CompressionLevel, base.Store.CompressionLevel)

	result.Server.Addr = pick(over.Server.Addr, base.Server.Addr)
	return &result
}

func pick[T comparable](over, base T) T {
	var zero T
	if over != zero {
		return over
	}
	return base
}
