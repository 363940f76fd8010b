// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package server serves the dashboard JSON API: one mounted chart per
// configured chart id, refreshed from a shared source, plus the assistant
// and the report center.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vidlens/vidlens/internal/assistant"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/pipeline"
	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/source"
	"github.com/vidlens/vidlens/internal/store"
)

// Options configures New.
type Options struct {
	Config *config.Config
	Source source.Source
	// Store enables the report center. Optional.
	Store *store.Store
	// Assistant enables POST /api/chat. Optional.
	Assistant *assistant.Assistant
}

// slot is one mounted chart. Handlers run concurrently, so every access to
// the chart goes through mu.
type slot struct {
	mu    sync.Mutex
	chart *explore.Chart
}

// Server owns the mounted charts and the HTTP handler over them.
type Server struct {
	src       source.Source
	refresher *source.Refresher
	pipeline  *pipeline.Pipeline
	store     *store.Store
	assistant *assistant.Assistant
	now       func() time.Time

	order []string
	slots map[string]*slot

	// videos holds the prepared videos of the newest applied refresh; group
	// by expanders and the assistant read it.
	videos atomic.Pointer[record.Dataset]

	dataMu      sync.Mutex
	issued      uint64
	applied     uint64
	refreshedAt time.Time

	sessionsMu sync.Mutex
	sessions   map[string]*assistant.Session

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	handler http.Handler
}

// New mounts every configured chart over an empty dataset. Call Refresh or
// Run to load data.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Source == nil {
		return nil, errors.New("server: source is required")
	}
	p, err := pipeline.New(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		src:       opts.Source,
		refresher: source.NewRefresher(opts.Source, opts.Config.Source.RefreshDuration()),
		pipeline:  p,
		store:     opts.Store,
		assistant: opts.Assistant,
		now:       time.Now,
		slots:     make(map[string]*slot),
		sessions:  make(map[string]*assistant.Session),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.videos.Store(record.Empty())

	for _, id := range opts.Config.ChartIDs() {
		cc, err := opts.Config.Charts[id].Build(id, s.Videos)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("server: %w", err)
		}
		s.order = append(s.order, id)
		s.slots[id] = &slot{chart: explore.Mount(cc, record.Empty())}
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler { return s.handler }

// Videos returns the prepared videos of the latest refresh.
func (s *Server) Videos() *record.Dataset { return s.videos.Load() }

// RefreshedAt returns when data was last installed, or the zero time.
func (s *Server) RefreshedAt() time.Time {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	return s.refreshedAt
}

// Refresh refetches the source and installs the derived datasets into
// every chart. Each chart's ticket is issued before the fetch starts, so a
// refresh that completes after a newer one is discarded per chart.
func (s *Server) Refresh(ctx context.Context) error {
	if s.closed.Load() {
		return errors.New("server closed")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	gen, tickets := s.begin()

	raw, err := s.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	res, err := s.pipeline.Run(ctx, raw)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	s.install(gen, tickets, res)
	return nil
}

// begin issues one ticket per chart and a generation for the shared video
// set.
func (s *Server) begin() (uint64, map[string]explore.Ticket) {
	s.dataMu.Lock()
	s.issued++
	gen := s.issued
	s.dataMu.Unlock()

	tickets := make(map[string]explore.Ticket, len(s.slots))
	for id, sl := range s.slots {
		sl.mu.Lock()
		tickets[id], _ = sl.chart.BeginFetch()
		sl.mu.Unlock()
	}
	return gen, tickets
}

func (s *Server) install(gen uint64, tickets map[string]explore.Ticket, res *pipeline.Result) {
	s.dataMu.Lock()
	if gen > s.applied {
		s.applied = gen
		s.videos.Store(res.Videos)
		s.refreshedAt = s.now().UTC()
	}
	s.dataMu.Unlock()

	applied := 0
	for id, sl := range s.slots {
		data, ok := res.Datasets[id]
		if !ok {
			continue
		}
		sl.mu.Lock()
		if sl.chart.Apply(tickets[id], data) {
			applied++
		}
		sl.mu.Unlock()
	}
	slog.Info("datasets refreshed",
		"videos", res.Videos.Len(), "charts", applied, "duration", res.Duration.Round(time.Millisecond))
}

// Warm installs the source's stored snapshot, when it has one, so the
// dashboard renders before the first fetch completes.
func (s *Server) Warm(ctx context.Context) error {
	c, ok := s.src.(*source.Cached)
	if !ok {
		return nil
	}
	data, fetchedAt, err := c.Warm()
	if err != nil {
		return err
	}
	gen, tickets := s.begin()
	res, err := s.pipeline.Run(ctx, data)
	if err != nil {
		return err
	}
	s.install(gen, tickets, res)
	slog.Info("warm start from snapshot", "fetched_at", fetchedAt.Format(time.RFC3339))
	return nil
}

// Run warms the charts, refreshes once and then keeps refreshing on the
// configured interval until ctx is done.
func (s *Server) Run(ctx context.Context) {
	if err := s.Warm(ctx); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Warn("warm start failed", "error", err)
	}
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("initial refresh failed", "error", err)
	}
	s.refresher.Run(ctx, s.Refresh)
}

// Close unmounts every chart and cancels in-flight refreshes. Responses
// that arrive later are discarded.
func (s *Server) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	for _, sl := range s.slots {
		sl.mu.Lock()
		sl.chart.Unmount()
		sl.mu.Unlock()
	}
}

// session returns the assistant session for id, creating it on first use.
func (s *Server) session(id string) *assistant.Session {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = assistant.NewSession()
		s.sessions[id] = sess
	}
	return sess
}

// view renders chart id under its lock.
func (s *Server) view(id string) (explore.View, bool) {
	sl, ok := s.slots[id]
	if !ok {
		return explore.View{}, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.chart.View(), true
}

// ListenAndServe serves the API on addr and runs the refresh loop until
// ctx is done, then shuts the listener down and closes the server.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	runCtx, stopRun := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(runCtx)
	}()
	defer func() {
		stopRun()
		wg.Wait()
		s.Close()
	}()

	errc := make(chan error, 1)
	go func() {
		slog.Info("dashboard API listening", "addr", addr, "charts", len(s.order))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
