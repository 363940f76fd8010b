// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/store"
	"github.com/vidlens/vidlens/internal/testable"
)

const videosJSON = `[
  {"bvid": "BV1", "title": "Cover", "view": 450, "tname": "Music", "pubdate": "2026-03-01T08:00:00Z"},
  {"bvid": "BV2", "title": "Vlog", "view": 120, "tname": null, "tags": ["a", "b"]}
]`

func TestDecodeJSON_Shapes(t *testing.T) {
	arr, err := DecodeJSON([]byte(videosJSON))
	require.NoError(t, err)
	require.Equal(t, 2, arr.Len())
	assert.Equal(t, record.Number(450), arr.At(0)["view"])
	_, isTime := arr.At(0)["pubdate"].TimeValue()
	assert.True(t, isTime)
	_, hasTags := arr.At(1)["tags"]
	assert.False(t, hasTags, "nested fields are dropped")

	env, err := DecodeJSON([]byte(`{"data": ` + videosJSON + `, "pagination": {"total": 2}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, env.Len())
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "  ", "empty payload"},
		{"scalar", "42", "must be a JSON array or object"},
		{"no data", `{"detail": "boom"}`, `no "data" array`},
		{"item not object", `[{"a": 1}, 7]`, "item 1"},
		{"malformed", `[{"a": 1}`, "decode array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.in))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDecodeJSONL(t *testing.T) {
	data, err := DecodeJSONL(strings.NewReader("{\"bvid\":\"BV1\",\"view\":1}\n\n{\"bvid\":\"BV2\",\"view\":2}\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, data.Len())

	_, err = DecodeJSONL(strings.NewReader("{\"bvid\":\"BV1\"}\nnot json\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestRowsToDataset(t *testing.T) {
	data, err := RowsToDataset([][]string{
		{"bvid", "view", "pubdate", "tname"},
		{"BV1", "450", "3/1/26 08:00", "Music"},
		{"BV2", "120", "", "", "extra"},
		{},
	})
	require.NoError(t, err)
	require.Equal(t, 2, data.Len())
	assert.Equal(t, record.Number(450), data.At(0)["view"])
	assert.Equal(t, record.Time(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)), data.At(0)["pubdate"])
	_, ok := data.At(1)["pubdate"]
	assert.False(t, ok, "empty cells are omitted")

	_, err = RowsToDataset([][]string{{"bvid", ""}})
	assert.ErrorContains(t, err, "header column 2")

	empty, err := RowsToDataset(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestFileSource_Formats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "videos.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(videosJSON), 0o600))
	jsonlPath := filepath.Join(dir, "videos.jsonl")
	require.NoError(t, os.WriteFile(jsonlPath, []byte("{\"bvid\":\"BV1\"}\n"), 0o600))

	xlsxPath := filepath.Join(dir, "videos.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"bvid", "view", "tname"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"BV1", 450, "Music"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"BV2", 120, "Games"}))
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	for path, want := range map[string]int{jsonPath: 2, jsonlPath: 1, xlsxPath: 2} {
		src := NewFileSource(path)
		assert.Equal(t, path, src.Name())
		data, err := src.Fetch(context.Background())
		require.NoError(t, err, path)
		assert.Equal(t, want, data.Len(), path)
	}

	data, err := ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, record.Number(120), data.At(1)["view"])
	assert.Equal(t, record.String("Games"), data.At(1)["tname"])
}

func TestFileSource_Errors(t *testing.T) {
	_, err := ReadFile("videos.csv")
	assert.ErrorContains(t, err, "unsupported extension")

	orig := FS
	t.Cleanup(func() { FS = orig })
	FS = &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, os.ErrPermission },
	}
	_, err = ReadFile("videos.json")
	assert.ErrorIs(t, err, os.ErrPermission)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource("videos.json").Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	src, err := New(Options{Path: "videos.json", BaseURL: "http://backend"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = New(Options{BaseURL: "http://backend/"})
	require.NoError(t, err)
	assert.Equal(t, "http://backend", src.Name())

	_, err = New(Options{})
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("TEST_VIDLENS_COOKIE", "SESSDATA=abc123")
	opts := OptionsFromConfig(config.SourceConfig{
		BaseURL:   "http://backend",
		Timeout:   "3s",
		Limit:     80,
		PageSize:  20,
		CookieEnv: "TEST_VIDLENS_COOKIE",
	})
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, 80, opts.Limit)
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, "SESSDATA=abc123", opts.Cookie)
}

func videoPage(from, n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"bvid": fmt.Sprintf("BV%d", from+i), "view": from + i}
	}
	return out
}

func TestHTTPSource_Limit(t *testing.T) {
	var gotQuery, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, VideosPath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(videoPage(1, 3))
	}))
	defer srv.Close()

	src := NewHTTPSource(Options{BaseURL: srv.URL, Limit: 3, Cookie: "SESSDATA=x"})
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, data.Len())
	assert.Equal(t, "limit=3", gotQuery)
	assert.Equal(t, "SESSDATA=x", gotCookie)
}

func TestHTTPSource_Paged(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		// Later pages answer first to check results stay in page order.
		time.Sleep(time.Duration(5-page) * 5 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":       videoPage((page-1)*size+1, size),
			"pagination": map[string]int{"current": page, "pageSize": size, "total": 100, "totalPages": 10},
		})
	}))
	defer srv.Close()

	src := NewHTTPSource(Options{BaseURL: srv.URL, Limit: 35, PageSize: 10})
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), requests.Load())
	require.Equal(t, 35, data.Len())
	for i := range data.Len() {
		assert.Equal(t, record.String(fmt.Sprintf("BV%d", i+1)), data.At(i)["bvid"])
	}
}

func TestHTTPSource_PagedStopsAtTotalPages(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":       videoPage(1, 5),
			"pagination": map[string]int{"current": 1, "pageSize": 10, "total": 5, "totalPages": 1},
		})
	}))
	defer srv.Close()

	data, err := NewHTTPSource(Options{BaseURL: srv.URL, Limit: 50, PageSize: 10}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, data.Len())
	assert.Equal(t, int32(1), requests.Load())
}

func TestHTTPSource_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, `{"detail": "db down"}`, http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("limit") == "7" {
			_, _ = w.Write([]byte("<html>"))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":       videoPage(1, 10),
			"pagination": map[string]int{"totalPages": 3},
		})
	}))
	defer srv.Close()

	_, err := NewHTTPSource(Options{BaseURL: srv.URL, Limit: 30, PageSize: 10}).Fetch(context.Background())
	assert.ErrorContains(t, err, "page 2")
	assert.ErrorContains(t, err, "backend returned 500")
	assert.ErrorContains(t, err, "db down")

	_, err = NewHTTPSource(Options{BaseURL: srv.URL, Limit: 7}).Fetch(context.Background())
	assert.ErrorContains(t, err, "decoding")

	_, err = NewHTTPSource(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}).Fetch(context.Background())
	assert.ErrorContains(t, err, "fetching")
}

// stubSource returns data or err and counts fetches. When gate is non-nil
// each fetch blocks until it is closed.
type stubSource struct {
	data  *record.Dataset
	err   error
	gate  chan struct{}
	calls atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) (*record.Dataset, error) {
	s.calls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.data, s.err
}

func memStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestCached_FallsBackToSnapshot(t *testing.T) {
	st := memStore(t)
	live := record.NewDataset([]record.Record{{"bvid": record.String("BV1")}})
	src := &stubSource{data: live}
	c := NewCached(src, st, "videos")
	c.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	data, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Same(t, live, data)
	assert.False(t, c.Stale())

	src.data, src.err = nil, errors.New("backend down")
	data, err = c.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Stale())
	assert.Equal(t, 1, data.Len())

	warm, at, err := c.Warm()
	require.NoError(t, err)
	assert.Equal(t, 1, warm.Len())
	assert.Equal(t, 2026, at.Year())
}

func TestCached_NoSnapshotReturnsFetchError(t *testing.T) {
	c := NewCached(&stubSource{err: errors.New("backend down")}, memStore(t), "videos")
	_, err := c.Fetch(context.Background())
	assert.ErrorContains(t, err, "backend down")

	_, _, err = c.Warm()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefresher_DeduplicatesConcurrentRefresh(t *testing.T) {
	src := &stubSource{data: record.Empty(), gate: make(chan struct{})}
	r := NewRefresher(src, 0)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := r.Refresh(context.Background())
			assert.NoError(t, err)
			assert.Same(t, src.data, data)
		}()
	}
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int32(5))
	assert.Equal(t, int64(src.calls.Load()), r.Fetches())
}

func TestRefresher_CancelledCallerDoesNotCancelSharedFetch(t *testing.T) {
	src := &stubSource{data: record.Empty(), gate: make(chan struct{})}
	r := NewRefresher(src, 0)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Refresh(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		data *record.Dataset
		err  error
	}
	second := make(chan result, 1)
	go func() {
		data, err := r.Refresh(context.Background())
		second <- result{data, err}
	}()

	cancelFirst()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Same(t, src.data, res.data)
	case <-time.After(time.Second):
		t.Fatal("second caller never got the shared result")
	}
	assert.Equal(t, int64(1), r.Fetches(), "the fetch outlived its first caller and was shared")
}

func TestRefresher_Error(t *testing.T) {
	r := NewRefresher(&stubSource{err: errors.New("boom")}, 0)
	_, err := r.Refresh(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestRefresher_RunSkipsTicksWhileInFlight(t *testing.T) {
	src := &stubSource{data: record.Empty(), gate: make(chan struct{})}
	r := NewRefresher(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, nil)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Skipped() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), src.calls.Load(), "no overlapping fetches")

	close(src.gate)
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRefresher_RunDisabled(t *testing.T) {
	r := NewRefresher(&stubSource{}, 0)
	r.Run(context.Background(), nil)
	assert.Zero(t, r.Fetches())
}

func TestRefresher_RunCustomRefresh(t *testing.T) {
	src := &stubSource{data: record.Empty()}
	r := NewRefresher(src, 2*time.Millisecond)
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go r.Run(ctx, func(ctx context.Context) error {
		calls.Add(1)
		if _, err := r.Refresh(ctx); err != nil {
			return err
		}
		return errors.New("apply failed")
	})
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond,
		"a failing refresh does not stop the loop")
}
