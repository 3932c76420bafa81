// Package cache provides a session-scoped route cache. It is an explicit
// object owned by the constructing guidance session and passed by
// reference; there are no package-level singletons.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haulnav/guidance/internal/lib/route"
)

// RouteCache holds recently supplied route geometries keyed by route ID
// with a TTL, so a vehicle returning to a recent route (a cancelled detour,
// a reroute the driver ignored) does not need the provider again.
type RouteCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	log     *zap.Logger
}

type entry struct {
	geom      *route.Geometry
	createdAt time.Time
	expiresAt time.Time
}

// NewRouteCache creates a cache whose entries expire after ttl. A nil
// logger disables logging.
func NewRouteCache(ttl time.Duration, log *zap.Logger) *RouteCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteCache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		log:     log,
	}
}

// Put stores a route geometry under the given ID, replacing any previous
// entry.
func (c *RouteCache) Put(id string, geom *route.Geometry) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = &entry{
		geom:      geom,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Get returns the cached geometry for the given ID if present and fresh.
func (c *RouteCache) Get(id string) (*route.Geometry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[id]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.geom, true
}

// Delete removes an entry.
func (c *RouteCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Clear removes all entries.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of entries, fresh or stale.
func (c *RouteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CleanupStale removes expired entries and returns how many were removed.
func (c *RouteCache) CleanupStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var removed int
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// StartPeriodicCleanup runs CleanupStale every interval until the context
// is cancelled. Lifetime is tied to the owning session's context.
func (c *RouteCache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					c.log.Debug("route cache cleanup", zap.Int("removed", removed))
				}
			}
		}
	}()
}
