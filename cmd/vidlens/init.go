package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vidlens/vidlens/internal/bootstrap"
)

// Init-specific flag values.
var (
	initForce   bool
	initTOML    bool
	initMCP     bool
	initBaseURL string
)

// initCmd bootstraps vidlens in a project directory.
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Bootstrap vidlens in a project directory",
	Long: `Write a starter .vidlens.yaml pointing at the crawler backend. With --mcp,
also register 'vidlens mcp serve' in .mcp.json so MCP clients can call the
vidlens tools.

This command is non-destructive by default: it skips files that already exist.
Use --force to regenerate the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initTOML, "toml", false, "write .vidlens.toml instead of .vidlens.yaml")
	initCmd.Flags().BoolVar(&initMCP, "mcp", false, "register the MCP server in .mcp.json")
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "crawler backend base URL")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	info, err := cmdFS.Stat(dir)
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: path %q does not exist", dir)
	}
	if !info.IsDir() {
		return exitError(ExitInvalidArgs, "vidlens: %q is not a directory", dir)
	}

	slog.Info("initializing vidlens", "path", dir)
	result, err := bootstrap.Run(bootstrap.InitConfig{
		Dir:     dir,
		Force:   initForce,
		TOML:    initTOML,
		MCP:     initMCP,
		BaseURL: initBaseURL,
	})
	if err != nil {
		return fmt.Errorf("vidlens: init failed (%v)", err)
	}

	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	for _, a := range result.Actions {
		op := a.Operation
		switch op {
		case "created", "updated":
			op = green.Sprint(op)
		case "skipped":
			op = yellow.Sprint(op)
		}
		_, _ = fmt.Fprintf(w, "  %-12s %-8s %s\n", a.File, op, a.Description)
	}
	return nil
}
