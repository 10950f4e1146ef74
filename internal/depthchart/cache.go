package depthchart

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
)

const defaultTTL = 6 * time.Hour

type cacheEntry struct {
	chart     *Chart
	fetchedAt time.Time
}

// Cache is a read-through TTL cache in front of a Provider. It is independent
// of the DvP result cache. Failed fetches are never stored, and a chart that
// finished fetching stays cached even if the request that asked for it is gone.
type Cache struct {
	inner  Provider
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache wraps inner with a TTL cache. A non-positive ttl uses six hours.
func NewCache(inner Provider, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// DepthChart serves a fresh cached chart or fetches and stores a new one.
func (c *Cache) DepthChart(ctx context.Context, team string) (*Chart, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	if chart, ok := c.fresh(team); ok {
		return chart, nil
	}
	return c.Refresh(ctx, team)
}

// Get is DepthChart that never fails: errors are logged once and an empty
// chart is returned so resolution falls back to the remaining tiers.
func (c *Cache) Get(ctx context.Context, team string) *Chart {
	chart, err := c.DepthChart(ctx, team)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, c.logger), "depth chart unavailable",
			logging.FieldTeam, strings.ToUpper(team),
			logging.FieldError, err,
		)
		return NewChart(team, nil)
	}
	return chart
}

// Refresh fetches the team's chart regardless of what is cached.
func (c *Cache) Refresh(ctx context.Context, team string) (*Chart, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	if c.inner == nil {
		return nil, ErrProviderUnavailable
	}
	chart, err := c.inner.DepthChart(ctx, team)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		chart = NewChart(team, nil)
	}
	c.mu.Lock()
	c.entries[team] = cacheEntry{chart: chart, fetchedAt: c.now()}
	c.mu.Unlock()
	return chart, nil
}

// Cached returns the stored chart for team, fresh or not.
func (c *Cache) Cached(team string) (*Chart, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[strings.ToUpper(team)]
	return e.chart, e.fetchedAt, ok
}

// Invalidate drops cached charts; with no teams it drops everything.
func (c *Cache) Invalidate(teams ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(teams) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, t := range teams {
		delete(c.entries, strings.ToUpper(t))
	}
}

func (c *Cache) fresh(team string) (*Chart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[team]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.chart, true
}
