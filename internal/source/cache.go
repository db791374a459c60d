// Package source opens the configured document source and caches its
// snapshots.
package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/docsite/pkg/core"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

// Cache keeps the last snapshot of a source for a fixed time.
//
// Concurrent refreshes are collapsed into one call to the underlying source.
// A zero TTL refreshes on every request (still collapsing concurrent ones).
// Snapshots are handed out as-is and must be treated as read-only.
type Cache struct {
	src    core.Source
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	snap    *core.Snapshot
	fetched time.Time
	gen     uint64
}

// NewCache wraps src with a snapshot cache.
func NewCache(src core.Source, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		src:    src,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns the cached snapshot or fetches a fresh one.
//
// The refresh is shared by concurrent callers and is not tied to any one
// caller's context: a caller that gives up returns ctx.Err() while the
// others keep waiting for the result.
func (c *Cache) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	if snap, ok := c.cached(); ok {
		return snap, nil
	}

	refresh := context.WithoutCancel(ctx)
	ch := c.group.DoChan(snapshotKey, func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if snap, ok := c.cached(); ok {
			return snap, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		snap, err := c.src.Snapshot(refresh)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.snap = snap
			c.fetched = c.now()
		} else {
			c.logger.Debug("discarding snapshot refreshed before invalidation")
		}
		c.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared snapshot refresh")
		}
		return res.Val.(*core.Snapshot), nil
	}
}

// Fetch passes through to the underlying source.
func (c *Cache) Fetch(ctx context.Context, id string) (*core.Document, error) {
	return c.src.Fetch(ctx, id)
}

// Invalidate drops the cached snapshot. A refresh already in flight still
// answers its waiters but is not cached.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.fetched = time.Time{}
	c.gen++
	c.mu.Unlock()
	c.group.Forget(snapshotKey)
	c.logger.Debug("snapshot cache invalidated")
}

func (c *Cache) cached() (*core.Snapshot, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.fetched) >= c.ttl {
		return nil, false
	}
	return c.snap, true
}
