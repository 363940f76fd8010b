// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global vidlens configuration.
// It uses $XDG_CONFIG_HOME/vidlens if set, otherwise ~/.config/vidlens.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidlens")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vidlens")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// GlobalDataDir returns the directory for vidlens data such as the store.
// It uses $XDG_DATA_HOME/vidlens if set, otherwise ~/.local/share/vidlens.
func GlobalDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidlens")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "vidlens")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	cfg, err := LoadFile(GlobalConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Resolve builds the effective configuration: built-in defaults, overlaid
// by the global file, overlaid by the project file in dir. An explicit path
// replaces the project lookup.
func Resolve(dir, explicit string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	var project *Config
	if explicit != "" {
		project, err = LoadFile(explicit)
	} else {
		project, err = Load(dir)
	}
	if err != nil {
		return nil, err
	}
	return Merge(Merge(Default(), global), project), nil
}
