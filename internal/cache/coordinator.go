package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
)

const (
	DefaultTTL          = 120 * time.Minute
	DefaultRecentWindow = 2 * time.Hour
)

// Status reports how a lookup was served.
type Status string

const (
	StatusHit    Status = metrics.CacheHit
	StatusMiss   Status = metrics.CacheMiss
	StatusStale  Status = metrics.CacheStale
	StatusBypass Status = metrics.CacheBypass
)

// ComputeFunc produces a fresh payload.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Request describes one lookup.
type Request struct {
	Key           Key
	SourceModTime time.Time
	// TTL overrides the coordinator default when positive.
	TTL time.Duration
	// Refresh skips the read but still stores the recomputed payload.
	Refresh bool
	// NoStore skips both read and write, for payloads that vary beyond the key.
	NoStore bool
}

// Config controls a Coordinator.
type Config struct {
	TTL          time.Duration
	RecentWindow time.Duration
	Logger       *slog.Logger
	Recorder     *metrics.Recorder
	Now          func() time.Time
}

// Coordinator serves cached payloads and recomputes them when they expire or
// when their source snapshot changed recently. Concurrent misses on the same
// key may both compute; the later write wins.
type Coordinator struct {
	store        Store
	ttl          time.Duration
	recentWindow time.Duration
	logger       *slog.Logger
	recorder     *metrics.Recorder
	now          func() time.Time
}

// NewCoordinator wraps store. Non-positive durations use the defaults.
func NewCoordinator(store Store, cfg Config) *Coordinator {
	if store == nil {
		store = NewMemoryStore()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = DefaultRecentWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		store:        store,
		ttl:          cfg.TTL,
		recentWindow: cfg.RecentWindow,
		logger:       cfg.Logger,
		recorder:     cfg.Recorder,
		now:          cfg.Now,
	}
}

// GetOrCompute returns the cached payload for req.Key when it is still valid,
// otherwise runs compute and stores its result. A compute error is returned
// as-is and leaves any existing entry in place. Store errors are logged and
// treated as misses.
func (c *Coordinator) GetOrCompute(ctx context.Context, req Request, compute ComputeFunc) ([]byte, Status, error) {
	key := req.Key.String()
	logger := logging.FromContext(ctx, c.logger)
	now := c.now()

	status := StatusMiss
	switch {
	case req.NoStore || req.Refresh:
		status = StatusBypass
	default:
		entry, ok, err := c.store.Get(ctx, key)
		if err != nil {
			logging.Warn(logger, "dvp cache read failed", logging.FieldCache, key, logging.FieldError, err)
		}
		if ok {
			if !c.Stale(entry, req.SourceModTime, now) {
				c.recorder.RecordCacheLookup(string(StatusHit))
				return entry.Payload, StatusHit, nil
			}
			status = StatusStale
		}
	}
	c.recorder.RecordCacheLookup(string(status))

	payload, err := compute(ctx)
	if err != nil {
		return nil, status, err
	}
	if req.NoStore {
		return payload, status, nil
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = c.ttl
	}
	entry := Entry{
		Key:           key,
		Team:          req.Key.Team,
		Payload:       payload,
		StoredAt:      c.now(),
		TTL:           ttl,
		SourceModTime: req.SourceModTime,
	}
	if err := c.store.Set(ctx, entry); err != nil {
		logging.Warn(logger, "dvp cache write failed", logging.FieldCache, key, logging.FieldError, err)
	}
	return payload, status, nil
}

// Stale reports whether entry must be recomputed at now. An entry is stale
// once its TTL has elapsed, or when the source snapshot was modified inside
// the trailing recent window and that modification is newer than what the
// entry was computed from.
func (c *Coordinator) Stale(entry Entry, sourceModTime, now time.Time) bool {
	ttl := entry.TTL
	if ttl <= 0 {
		ttl = c.ttl
	}
	if now.Sub(entry.StoredAt) >= ttl {
		return true
	}
	if sourceModTime.IsZero() || now.Sub(sourceModTime) > c.recentWindow {
		return false
	}
	// Millisecond precision matches what the SQLite store persists.
	return sourceModTime.UnixMilli() != entry.SourceModTime.UnixMilli() || sourceModTime.After(entry.StoredAt)
}

// InvalidateTeam drops every cached entry for team.
func (c *Coordinator) InvalidateTeam(ctx context.Context, team string) error {
	return c.store.DeleteTeam(ctx, team)
}

// Close releases the underlying store.
func (c *Coordinator) Close() error {
	return c.store.Close()
}
