// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	vidlog "github.com/vidlens/vidlens/internal/log"
	"github.com/vidlens/vidlens/internal/server"
	"github.com/vidlens/vidlens/internal/source"
)

// Serve-specific flag values.
var (
	serveAddr     string
	serveSource   string
	servePath     string
	serveJSONLogs bool
	serveNoStore  bool
)

// serveCmd runs the dashboard JSON API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	Long: `Serve the dashboard JSON API. Every configured chart is mounted once and
refreshed from the source on source.refresh_interval. Each successful fetch
is saved to the store, so the dashboard starts from the last snapshot and
keeps serving it while the backend is unreachable.

Endpoints:
  GET  /healthz
  GET  /api/charts, /api/charts/{id}
  POST /api/charts/{id}/commands, /api/charts/{id}/refresh
  POST /api/chat
  GET  /api/reports, POST /api/reports
  GET  /api/reports/{id}, DELETE /api/reports/{id}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&serveSource, "source", "", "crawler backend base URL (overrides source.base_url)")
	serveCmd.Flags().StringVar(&servePath, "dataset", "", "serve a dataset export instead of the backend")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "write logs as JSON")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "run without the snapshot and report store")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveJSONLogs {
		slog.SetDefault(vidlog.New(os.Stderr, vidlog.Options{Verbose: verbose, Quiet: quiet, JSON: true}))
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := openSource(cfg, servePath, serveSource)
	if err != nil {
		return err
	}

	opts := server.Options{Config: cfg, Source: src}
	if !serveNoStore {
		st, err := openStore(cfg)
		if err != nil {
			slog.Warn("store unavailable, reports and snapshots disabled", "path", cfg.Store.Path, "error", err)
		} else {
			defer func() { _ = st.Close() }()
			opts.Store = st
			opts.Source = source.NewCached(src, st, snapshotKey)
		}
	}

	asst, err := newAssistant(cfg)
	if err != nil {
		slog.Warn("assistant disabled", "error", err)
	}
	opts.Assistant = asst

	srv, err := server.New(opts)
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	slog.Info("dashboard API stopped")
	return nil
}
