// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vidlens/vidlens/internal/config"
)

// Config command flags.
var configShowFormat string

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect vidlens configuration",
	Long: `Inspect the effective vidlens configuration.

Vidlens reads .vidlens.yaml (or .vidlens.toml) from the current directory.
A global config at ~/.config/vidlens/config.yaml provides defaults, and
built-in defaults describe the four dashboard charts. Project settings
override global settings; --config replaces the project file.`,
}

// configValidateCmd checks the effective configuration.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configGetCmd retrieves a configuration value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by dot-notation key path.

Examples:
  vidlens config get output_format
  vidlens config get source.refresh_interval
  vidlens config get charts.performance
  vidlens config get charts.categories.expand.strategy`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "output format: yaml or toml")

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d charts, default %s\n",
		color.GreenString("config valid:"), len(cfg.Charts), cfg.DefaultChart)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch configShowFormat {
	case "yaml":
		return config.Write(cmd.OutOrStdout(), cfg)
	case "toml":
		return config.WriteTOML(cmd.OutOrStdout(), cfg)
	default:
		return exitError(ExitInvalidArgs, "vidlens: unknown config format %q (must be yaml or toml)", configShowFormat)
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}
	return printValue(cmd, val)
}

func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
