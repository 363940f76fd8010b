// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package bootstrap sets vidlens up in a project directory: a starter
// .vidlens.yaml and, on request, an MCP client entry for `vidlens mcp serve`.
package bootstrap

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// InitConfig holds the inputs for the init command.
type InitConfig struct {
	Dir   string
	Force bool
	// TOML writes .vidlens.toml instead of .vidlens.yaml.
	TOML bool
	// MCP also registers the vidlens MCP server in .mcp.json.
	MCP bool
	// BaseURL overrides the crawler backend in the starter config.
	BaseURL string
}

// Action records a single file operation performed during init.
type Action struct {
	File        string // e.g. ".vidlens.yaml", ".mcp.json"
	Operation   string // "created", "updated", "skipped"
	Description string // human-readable detail
}

// InitResult holds the outcome of an init run.
type InitResult struct {
	Actions []Action
}

// Run writes the starter config and, when cfg.MCP is set, the MCP entry.
func Run(cfg InitConfig) (*InitResult, error) {
	result := &InitResult{}

	configAction, err := GenerateConfig(cfg)
	if err != nil {
		return nil, err
	}
	result.Actions = append(result.Actions, configAction)

	if cfg.MCP {
		mcpAction, err := GenerateMCPConfig(cfg.Dir)
		if err != nil {
			return nil, err
		}
		result.Actions = append(result.Actions, mcpAction)
	}
	return result, nil
}

const configHeader = `# vidlens project configuration.
# Charts default to the built-in dashboard (trend, categories, performance,
# radar); add entries under "charts" to override or extend them.
`

// StarterConfig is the configuration written by GenerateConfig.
func StarterConfig(baseURL string) *config.Config {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	return &config.Config{
		OutputFormat: "table",
		DefaultChart: config.DefaultChartID,
		Source: config.SourceConfig{
			BaseURL:         baseURL,
			RefreshInterval: config.DefaultRefreshInterval.String(),
			Limit:           config.DefaultLimit,
			CookieEnv:       config.DefaultCookieEnv,
		},
		Assistant: config.AssistantConfig{
			Provider: config.DefaultProvider,
			History:  config.DefaultHistory,
		},
		Server: config.ServerConfig{Addr: config.DefaultAddr},
	}
}

// GenerateConfig writes the starter config into cfg.Dir. An existing
// project config is kept unless cfg.Force is set.
func GenerateConfig(cfg InitConfig) (Action, error) {
	name := config.FileName
	if cfg.TOML {
		name = config.TOMLFileName
	}
	path := filepath.Join(cfg.Dir, name)

	for _, existing := range []string{config.FileName, config.TOMLFileName} {
		if _, err := FS.Stat(filepath.Join(cfg.Dir, existing)); err == nil && !cfg.Force {
			return Action{
				File:        existing,
				Operation:   "skipped",
				Description: "already exists (use --force to overwrite)",
			}, nil
		} else if err != nil && !os.IsNotExist(err) {
			return Action{}, fmt.Errorf("checking %s: %w", existing, err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	starter := StarterConfig(cfg.BaseURL)
	var err error
	if cfg.TOML {
		err = config.WriteTOML(&buf, starter)
	} else {
		err = config.Write(&buf, starter)
	}
	if err != nil {
		return Action{}, fmt.Errorf("encoding %s: %w", name, err)
	}

	operation := "created"
	if _, statErr := FS.Stat(path); statErr == nil {
		operation = "updated"
	}
	if err := FS.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Action{}, fmt.Errorf("writing %s: %w", name, err)
	}
	return Action{
		File:        name,
		Operation:   operation,
		Description: "starter configuration for " + starter.Source.BaseURL,
	}, nil
}
