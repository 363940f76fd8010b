package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vidlens/vidlens/internal/record"
	"github.com/vidlens/vidlens/internal/store"
)

// SnapshotStore persists the last fetched dataset.
type SnapshotStore interface {
	SaveSnapshot(name string, snap store.Snapshot) error
	LoadSnapshot(name string) (*store.Snapshot, error)
}

// Cached wraps a source with a snapshot: every successful fetch is saved,
// and a failed fetch falls back to the last saved dataset.
type Cached struct {
	src   Source
	store SnapshotStore
	key   string
	now   func() time.Time

	// stale is set after a fetch was answered from the snapshot.
	stale atomic.Bool
}

var _ Source = (*Cached)(nil)

// NewCached wraps src, keeping its snapshot under key.
func NewCached(src Source, st SnapshotStore, key string) *Cached {
	return &Cached{src: src, store: st, key: key, now: time.Now}
}

// Name returns the wrapped source's name.
func (c *Cached) Name() string { return c.src.Name() }

// Stale reports whether the last Fetch was served from the snapshot.
func (c *Cached) Stale() bool { return c.stale.Load() }

// Fetch fetches from the wrapped source. On failure the snapshot is
// returned instead; the fetch error is returned only when no snapshot
// exists either.
func (c *Cached) Fetch(ctx context.Context) (*record.Dataset, error) {
	data, err := c.src.Fetch(ctx)
	if err == nil {
		c.stale.Store(false)
		snap := store.Snapshot{Source: c.src.Name(), FetchedAt: c.now().UTC(), Data: data}
		if serr := c.store.SaveSnapshot(c.key, snap); serr != nil {
			slog.Warn("saving snapshot failed", "key", c.key, "error", serr)
		}
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	snap, lerr := c.store.LoadSnapshot(c.key)
	if lerr != nil {
		if !errors.Is(lerr, store.ErrNotFound) {
			slog.Warn("loading snapshot failed", "key", c.key, "error", lerr)
		}
		return nil, err
	}
	c.stale.Store(true)
	slog.Warn("fetch failed, using snapshot",
		"source", c.src.Name(), "fetched_at", snap.FetchedAt.Format(time.RFC3339), "error", err)
	return snap.Data, nil
}

// Warm returns the stored snapshot without fetching, for a fast first
// render before the first refresh completes.
func (c *Cached) Warm() (*record.Dataset, time.Time, error) {
	snap, err := c.store.LoadSnapshot(c.key)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("warm start: %w", err)
	}
	return snap.Data, snap.FetchedAt, nil
}
