package source

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vidlens/vidlens/internal/record"
)

// Refresher refetches a source on demand and on a fixed interval.
// Concurrent Refresh calls share one fetch, and interval ticks that fire
// while a fetch is in flight are skipped.
type Refresher struct {
	src      Source
	interval time.Duration

	group    singleflight.Group
	inFlight atomic.Bool
	fetches  atomic.Int64
	skipped  atomic.Int64
}

// NewRefresher creates a refresher for src. An interval of zero disables
// the periodic loop.
func NewRefresher(src Source, interval time.Duration) *Refresher {
	return &Refresher{src: src, interval: interval}
}

// Refresh fetches now. A call made while another fetch is in flight waits
// for and shares that fetch's result. The shared fetch is detached from the
// cancellation of whichever caller started it; a caller whose ctx ends stops
// waiting and gets ctx's error while the others still receive the result.
func (r *Refresher) Refresh(ctx context.Context) (*record.Dataset, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(r.src.Name(), func() (any, error) {
		r.inFlight.Store(true)
		defer r.inFlight.Store(false)
		r.fetches.Add(1)

		return r.src.Fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("refresh shared an in-flight fetch", "source", r.src.Name())
		}
		return res.Val.(*record.Dataset), nil
	}
}

// Run calls refresh every interval until ctx is done, then waits for the
// call it started last. A nil refresh only fetches. refresh is expected to
// fetch through Refresh; ticks that fire while that fetch is in flight are
// skipped. Errors are logged, not returned.
func (r *Refresher) Run(ctx context.Context, refresh func(context.Context) error) {
	if refresh == nil {
		refresh = func(ctx context.Context) error {
			_, err := r.Refresh(ctx)
			return err
		}
	}
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.inFlight.Load() {
				r.skipped.Add(1)
				slog.Debug("refresh tick skipped, fetch in flight", "source", r.src.Name())
				continue
			}
			// Marked here so the next tick sees it even before the
			// goroutine is scheduled.
			r.inFlight.Store(true)
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer r.inFlight.Store(false)
				if err := refresh(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("refresh failed", "source", r.src.Name(), "error", err)
				}
			}()
		}
	}
}

// Fetches returns the number of fetches started.
func (r *Refresher) Fetches() int64 { return r.fetches.Load() }

// Skipped returns the number of interval ticks skipped.
func (r *Refresher) Skipped() int64 { return r.skipped.Load() }
