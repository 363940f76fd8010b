// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vidlens/vidlens/internal/assistant"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/redact"
	"github.com/vidlens/vidlens/internal/report"
	"github.com/vidlens/vidlens/internal/source"
	"github.com/vidlens/vidlens/internal/store"
)

const maxRequestBody = 1 << 20

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/charts", s.handleCharts)
	mux.HandleFunc("GET /api/charts/{id}", s.handleChart)
	mux.HandleFunc("POST /api/charts/{id}/commands", s.handleCommand)
	mux.HandleFunc("POST /api/charts/{id}/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("POST /api/reports", s.handleCreateReport)
	mux.HandleFunc("GET /api/reports/{id}", s.handleGetReport)
	mux.HandleFunc("DELETE /api/reports/{id}", s.handleDeleteReport)
	return mux
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: redact.String(err.Error())})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status      string     `json:"status"`
	Charts      int        `json:"charts"`
	Videos      int        `json:"videos"`
	Stale       bool       `json:"stale"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok", Charts: len(s.order), Videos: s.Videos().Len(), Stale: s.stale()}
	if t := s.RefreshedAt(); !t.IsZero() {
		resp.RefreshedAt = &t
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stale() bool {
	c, ok := s.src.(*source.Cached)
	return ok && c.Stale()
}

// ChartSummary lists one chart in GET /api/charts.
type ChartSummary struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Kind      explore.ChartKind `json:"kind"`
	Drillable bool              `json:"drillable"`
	Rows      int               `json:"rows"`
}

func (s *Server) handleCharts(w http.ResponseWriter, _ *http.Request) {
	out := make([]ChartSummary, 0, len(s.order))
	for _, id := range s.order {
		v, _ := s.view(id)
		out = append(out, ChartSummary{ID: id, Title: v.Title, Kind: v.Kind, Drillable: v.Drillable, Rows: v.Total})
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": out})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", r.PathValue("id")))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CommandResponse is the body of POST /api/charts/{id}/commands. Notice
// explains a refused drill; the view is then unchanged.
type CommandResponse struct {
	Outcome explore.Outcome `json:"outcome"`
	Notice  string          `json:"notice,omitempty"`
	View    explore.View    `json:"view"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sl, ok := s.slots[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", id))
		return
	}
	var req explore.CommandRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sl.mu.Lock()
	outcome, err := sl.chart.Do(req)
	view := sl.chart.View()
	sl.mu.Unlock()

	resp := CommandResponse{Outcome: outcome, View: view}
	if err != nil {
		var de *explore.DrillError
		if !errors.As(err, &de) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp.Notice = de.Error()
		slog.Debug("drill refused", "chart", id, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.slots[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", id))
		return
	}
	if err := s.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	v, _ := s.view(id)
	writeJSON(w, http.StatusOK, v)
}

// ChatRequest is the body of POST /api/chat. Chart, when set, grounds the
// question in that chart's current view.
type ChatRequest struct {
	Question string `json:"question"`
	Chart    string `json:"chart,omitempty"`
	Session  string `json:"session,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("assistant is not configured"))
		return
	}
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	g := assistant.Grounding{Videos: s.Videos()}
	if req.Chart != "" {
		v, ok := s.view(req.Chart)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", req.Chart))
			return
		}
		g.View = &v
	}
	if req.Session == "" {
		req.Session = "default"
	}

	ans, err := s.assistant.Ask(r.Context(), s.session(req.Session), req.Question, g)
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		writeError(w, http.StatusBadGateway, err)
	default:
		writeJSON(w, http.StatusOK, ans)
	}
}

// ReportRequest is the body of POST /api/reports. Start is a date
// (2006-01-02); empty uses the default period for the kind.
type ReportRequest struct {
	Kind     string   `json:"kind,omitempty"`
	Start    string   `json:"start,omitempty"`
	Sections []string `json:"sections,omitempty"`
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("report store is not configured"))
		return false
	}
	return true
}

func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	if !s.requireStore(w) {
		return
	}
	metas, err := s.store.ListReports()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if metas == nil {
		metas = []store.ReportMeta{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": metas})
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req ReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := report.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	now := s.now()
	period := report.DefaultPeriod(kind, now)
	if req.Start != "" {
		start, err := time.Parse(time.DateOnly, req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid start date %q", req.Start))
			return
		}
		period = report.PeriodFor(kind, start)
	}

	rep, err := report.Generate(s.Videos(), report.Options{Period: period, Sections: req.Sections, Now: now})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SaveReport(rep); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	slog.Info("report generated", "id", rep.ID, "period", period.Label())
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	rep, err := s.store.GetReport(r.PathValue("id"))
	if err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	format := r.URL.Query().Get("format")
	switch format {
	case "", report.FormatJSON:
		writeJSON(w, http.StatusOK, rep)
	case report.FormatText, report.FormatMarkdown:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.Render(w, rep, format); err != nil {
			slog.Debug("rendering report failed", "id", rep.ID, "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown report format %q", format))
	}
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteReport(r.PathValue("id")); err != nil {
		writeError(w, storeStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func storeStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
