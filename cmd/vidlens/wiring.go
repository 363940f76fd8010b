// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/vidlens/vidlens/internal/assistant"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/llm"
	"github.com/vidlens/vidlens/internal/source"
	"github.com/vidlens/vidlens/internal/store"
)

// snapshotKey is the store key of the dashboard's video snapshot.
const snapshotKey = "videos"

// loadConfig resolves the effective configuration for the current
// directory and --config, and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(".", configPath)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "vidlens: failed to load config (%v)", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "vidlens: %v", err)
	}
	return cfg, nil
}

// openSource returns the configured source. A non-empty path reads that
// export and a non-empty baseURL overrides the backend.
func openSource(cfg *config.Config, path, baseURL string) (source.Source, error) {
	opts := source.OptionsFromConfig(cfg.Source)
	if baseURL != "" {
		opts.BaseURL = baseURL
		opts.Path = ""
	}
	if path != "" {
		opts.Path = path
	}
	src, err := source.New(opts)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "vidlens: %v", err)
	}
	slog.Debug("source selected", "source", src.Name())
	return src, nil
}

// openStore opens the configured store, creating its directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := cmdFS.MkdirAll(cfg.Store.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return store.Open(store.Options{Path: cfg.Store.Path, CompressionLevel: cfg.Store.CompressionLevel})
}

// newAssistant builds the configured assistant. It returns nil when the
// provider is "none".
func newAssistant(cfg *config.Config) (*assistant.Assistant, error) {
	ac := cfg.Assistant
	switch ac.Provider {
	case "none":
		return nil, nil
	case "", config.DefaultProvider:
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", ac.Provider)
	}
	var opts []llm.AnthropicOption
	if ac.Model != "" {
		opts = append(opts, llm.WithModel(ac.Model))
	}
	provider, err := llm.NewAnthropicProvider(opts...)
	if err != nil {
		return nil, err
	}
	return assistant.New(provider, assistant.Options{
		Model:     ac.Model,
		MaxTokens: ac.MaxTokens,
		History:   ac.History,
	}), nil
}
