// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package source fetches video datasets from the crawler backend or from
// local exports. A source only fetches: it never holds chart state.
package source

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/redact"
)

// Source produces the raw video dataset.
type Source interface {
	// Name identifies the source in logs and snapshots.
	Name() string

	// Fetch returns a fresh dataset. Each call refetches.
	Fetch(ctx context.Context) (*record.Dataset, error)
}

// Options configures New.
type Options struct {
	// Path reads a local export instead of the backend when set.
	Path string

	BaseURL  string
	Timeout  time.Duration
	Limit    int
	PageSize int
	// Cookie is sent with every backend request.
	Cookie string
}

// OptionsFromConfig reads source options from configuration. The cookie is
// taken from the environment variable the configuration names and is
// registered for redaction.
func OptionsFromConfig(c config.SourceConfig) Options {
	opts := Options{
		Path:     c.Path,
		BaseURL:  c.BaseURL,
		Timeout:  c.TimeoutDuration(),
		Limit:    c.Limit,
		PageSize: c.PageSize,
	}
	if c.CookieEnv != "" {
		opts.Cookie = os.Getenv(c.CookieEnv)
		redact.Register(opts.Cookie)
	}
	return opts
}

// New returns a FileSource when opts.Path is set, otherwise an HTTPSource.
func New(opts Options) (Source, error) {
	if opts.Path != "" {
		return NewFileSource(opts.Path), nil
	}
	if opts.BaseURL == "" {
		return nil, errors.New("no data source: set source.base_url or source.path")
	}
	return NewHTTPSource(opts), nil
}
