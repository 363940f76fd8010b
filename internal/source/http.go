// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vidlens/vidlens/internal/record"
)

// VideosPath is the backend endpoint listing crawled videos.
const VideosPath = "/api/videos"

const (
	defaultTimeout = 10 * time.Second
	defaultLimit   = 50
	// maxConcurrentPages caps parallel page requests.
	maxConcurrentPages = 4
	// maxBodySize bounds one backend response.
	maxBodySize = 32 << 20
)

// HTTPSource reads videos from the crawler backend.
type HTTPSource struct {
	baseURL  string
	client   *http.Client
	limit    int
	pageSize int
	cookie   string
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a backend source from opts.
func NewHTTPSource(opts Options) *HTTPSource {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &HTTPSource{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		limit:    limit,
		pageSize: opts.PageSize,
		cookie:   opts.Cookie,
	}
}

// Name returns the backend base URL.
func (s *HTTPSource) Name() string { return s.baseURL }

// Fetch requests the newest videos. With a page size configured, the first
// page reports the page count and the remaining pages are fetched
// concurrently, in page order in the result.
func (s *HTTPSource) Fetch(ctx context.Context) (*record.Dataset, error) {
	if s.pageSize <= 0 {
		recs, _, err := s.get(ctx, url.Values{"limit": {strconv.Itoa(s.limit)}})
		if err != nil {
			return nil, err
		}
		slog.Debug("fetched videos", "source", s.baseURL, "count", len(recs))
		return record.NewDataset(recs), nil
	}
	return s.fetchPaged(ctx)
}

func (s *HTTPSource) fetchPaged(ctx context.Context) (*record.Dataset, error) {
	first, page, err := s.get(ctx, s.pageQuery(1))
	if err != nil {
		return nil, err
	}

	pages := (s.limit + s.pageSize - 1) / s.pageSize
	if page != nil && page.TotalPages < pages {
		pages = page.TotalPages
	}

	results := make([][]record.Record, max(pages, 1))
	results[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for p := 2; p <= pages; p++ {
		g.Go(func() error {
			recs, _, err := s.get(gctx, s.pageQuery(p))
			if err != nil {
				return fmt.Errorf("page %d: %w", p, err)
			}
			results[p-1] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []record.Record
	for _, recs := range results {
		all = append(all, recs...)
	}
	if len(all) > s.limit {
		all = all[:s.limit]
	}
	slog.Debug("fetched videos", "source", s.baseURL, "pages", pages, "count", len(all))
	return record.NewDataset(all), nil
}

func (s *HTTPSource) pageQuery(page int) url.Values {
	return url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(s.pageSize)},
	}
}

// get performs one GET against the videos endpoint.
func (s *HTTPSource) get(ctx context.Context, q url.Values) ([]record.Record, *Pagination, error) {
	endpoint := s.baseURL + VideosPath + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("backend returned %d for %s: %s", resp.StatusCode, endpoint, snippet(body))
	}

	recs, page, err := decodePayload(body)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return recs, page, nil
}

// snippet returns the start of an error body for messages.
func snippet(body []byte) string {
	const n = 200
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
