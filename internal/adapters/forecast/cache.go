package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/okian/surfcast/internal/domain/model"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/okian/surfcast/pkg/metrics"
)

// CachedSource keeps the last complete and valid snapshot of an inner source
// for a TTL.
// Refresh swaps the snapshot in one step, so readers see either the old or
// the new snapshot and never a mix.
type CachedSource struct {
	inner  Source
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger

	mu        sync.RWMutex
	snapshot  Snapshot
	fetchedAt time.Time
}

// NewCachedSource wraps inner. A non-positive ttl disables caching.
func NewCachedSource(inner Source, ttl time.Duration, opts ...Option) *CachedSource {
	s := applyOptions(opts)
	return &CachedSource{
		inner:  inner,
		ttl:    ttl,
		now:    s.now,
		logger: s.logger.Named("forecast-cache"),
	}
}

// Name implements Source.
func (c *CachedSource) Name() string { return "cached-" + c.inner.Name() }

// FetchAll serves a fresh cached snapshot when it covers every spot and
// fetches through otherwise.
func (c *CachedSource) FetchAll(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	c.mu.RLock()
	fresh := c.snapshot != nil && c.now().Sub(c.fetchedAt) < c.ttl && c.snapshot.Covers(spots)
	var snap Snapshot
	if fresh {
		snap = c.snapshot.clone()
	}
	c.mu.RUnlock()

	if fresh {
		metrics.RecordForecastCacheHit()
		return snap, nil
	}
	metrics.RecordForecastCacheMiss()
	return c.refresh(ctx, spots)
}

// Refresh fetches a new snapshot and replaces the cached one. On failure the
// previous snapshot stays in place.
func (c *CachedSource) Refresh(ctx context.Context, spots []model.Spot) error {
	_, err := c.refresh(ctx, spots)
	return err
}

// Age returns how long ago the cached snapshot was fetched, and false when
// nothing is cached.
func (c *CachedSource) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}

func (c *CachedSource) refresh(ctx context.Context, spots []model.Spot) (Snapshot, error) {
	snap, err := c.inner.FetchAll(ctx, spots)
	if err != nil {
		return nil, err
	}
	if _, err := snap.Pairs(spots); err != nil {
		// returned for the caller to reject, never cached
		c.logger.Warn(ctx, "forecast snapshot not cached", logger.Error(err))
		return snap, nil
	}
	c.mu.Lock()
	c.snapshot = snap.clone()
	c.fetchedAt = c.now()
	c.mu.Unlock()
	c.logger.Debug(ctx, "forecast snapshot cached", logger.Int("spots", len(snap)))
	return snap, nil
}
