package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-dvp-service/internal/cache"
	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
)

// buildResultCache opens the configured backend. A SQLite file that cannot be
// opened degrades to the in-memory store.
func buildResultCache(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *cache.Coordinator {
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Backend == config.CacheBackendSQLite {
		sqlite, err := cache.OpenSQLite(ctx, cfg.Cache.SQLitePath)
		if err != nil {
			logging.Warn(logger, "sqlite cache unavailable, using memory",
				slog.String("path", cfg.Cache.SQLitePath),
				logging.FieldError, err,
			)
		} else {
			store = sqlite
		}
	}
	return cache.NewCoordinator(store, cache.Config{
		TTL:          cfg.Cache.TTL,
		RecentWindow: cfg.Cache.RecentWindow,
		Logger:       logger,
		Recorder:     recorder,
	})
}
