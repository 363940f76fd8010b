package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/expand"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/output"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	if cfg.DefaultChart != "" && len(cfg.Charts) > 0 {
		if _, ok := cfg.Charts[cfg.DefaultChart]; !ok {
			errs = append(errs, fmt.Sprintf("default_chart: unknown chart %q", cfg.DefaultChart))
		}
	}

	errs = append(errs, validateSource(cfg.Source)...)

	for _, id := range cfg.ChartIDs() {
		errs = append(errs, validateChart(id, cfg.Charts[id])...)
	}

	switch cfg.Assistant.Provider {
	case "", "anthropic", "none":
		// valid
	default:
		errs = append(errs, fmt.Sprintf("assistant.provider: invalid value %q (must be anthropic or none)", cfg.Assistant.Provider))
	}
	if cfg.Assistant.MaxTokens < 0 {
		errs = append(errs, fmt.Sprintf("assistant.max_tokens: must be non-negative, got %d", cfg.Assistant.MaxTokens))
	}
	if cfg.Assistant.History < 0 || cfg.Assistant.History > 50 {
		errs = append(errs, fmt.Sprintf("assistant.history: must be between 0 and 50, got %d", cfg.Assistant.History))
	}

	if cfg.Store.CompressionLevel < 0 || cfg.Store.CompressionLevel > 4 {
		errs = append(errs, fmt.Sprintf("store.compression_level: must be between 1 and 4, got %d", cfg.Store.CompressionLevel))
	}

	if cfg.Server.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
			errs = append(errs, fmt.Sprintf("server.addr: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateSource(s SourceConfig) []string {
	var errs []string
	if s.BaseURL != "" {
		u, err := url.Parse(s.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("source.base_url: must be an http(s) URL, got %q", s.BaseURL))
		}
	}
	for _, d := range []struct{ key, val string }{
		{"source.timeout", s.Timeout},
		{"source.refresh_interval", s.RefreshInterval},
	} {
		if d.val == "" {
			continue
		}
		v, err := time.ParseDuration(d.val)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", d.key, d.val))
		} else if v < 0 {
			errs = append(errs, fmt.Sprintf("%s: must be non-negative, got %s", d.key, d.val))
		}
	}
	if s.Limit < 0 || s.Limit > 1000 {
		errs = append(errs, fmt.Sprintf("source.limit: must be between 1 and 1000, got %d", s.Limit))
	}
	if s.PageSize < 0 || s.PageSize > 100 {
		errs = append(errs, fmt.Sprintf("source.page_size: must be between 0 and 100, got %d", s.PageSize))
	}
	return errs
}

func validateChart(id string, cc ChartConfig) []string {
	var errs []string
	prefix := "charts." + id

	kind := explore.ChartKind(cc.Kind)
	if !kind.Valid() {
		errs = append(errs, fmt.Sprintf("%s.kind: invalid value %q (must be line, bar, pie, or radar)", prefix, cc.Kind))
	}
	if _, err := aggregate.Lookup(cc.Dataset); err != nil {
		errs = append(errs, fmt.Sprintf("%s.dataset: %v", prefix, err))
	}
	if cc.XField == "" && cc.SubjectField == "" {
		errs = append(errs, fmt.Sprintf("%s.x_field: required", prefix))
	}
	if cc.Sort != "" {
		if _, err := explore.ParseSortSpec(cc.Sort); err != nil {
			errs = append(errs, fmt.Sprintf("%s.sort: %v", prefix, err))
		}
	}

	seen := make(map[string]bool)
	for i, f := range cc.Filters {
		switch {
		case f.Key == "":
			errs = append(errs, fmt.Sprintf("%s.filters[%d].key: required", prefix, i))
		case seen[f.Key]:
			errs = append(errs, fmt.Sprintf("%s.filters[%d].key: duplicate filter %q", prefix, i, f.Key))
		}
		seen[f.Key] = true
	}

	if kind == explore.KindRadar {
		if cc.SubjectField == "" {
			errs = append(errs, fmt.Sprintf("%s.subject_field: required for radar charts", prefix))
		}
		if len(cc.Metrics) == 0 {
			errs = append(errs, fmt.Sprintf("%s.metrics: required for radar charts", prefix))
		}
	}
	for i, m := range cc.Metrics {
		if slices.Index(cc.Metrics, m) != i {
			errs = append(errs, fmt.Sprintf("%s.metrics[%d]: duplicate metric %q", prefix, i, m))
		}
	}

	ex := cc.Expand
	if ex.Strategy != "" {
		switch ex.Strategy {
		case expand.StrategyRatio:
			for i, r := range ex.Ratios {
				if r <= 0 || r > 1 {
					errs = append(errs, fmt.Sprintf("%s.expand.ratios[%d]: must be in (0, 1], got %g", prefix, i, r))
				}
			}
		case expand.StrategyGroupBy:
			if ex.MatchField == "" {
				errs = append(errs, fmt.Sprintf("%s.expand.match_field: required for group_by", prefix))
			}
			if ex.ChildField == "" {
				errs = append(errs, fmt.Sprintf("%s.expand.child_field: required for group_by", prefix))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s.expand.strategy: invalid value %q (must be one of %s)",
				prefix, ex.Strategy, strings.Join(expand.List(), ", ")))
		}
	}
	return errs
}
