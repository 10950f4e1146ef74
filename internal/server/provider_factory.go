package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
)

// providerFactory assembles the depth chart source: provider, optional pacing, retry wrapper, then read-through cache.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build wraps base, or the configured provider when base is nil.
func (f providerFactory) build(cfg config.Config, base depthchart.Provider) *depthchart.Cache {
	if base == nil {
		base = selectProvider(cfg, f.logger)
	}
	name := normalizeProviderName(cfg.DepthChart.Provider, base)
	paced := depthchart.NewPacedProvider(base, cfg.DepthChart.MinInterval, f.logger)
	retrying := depthchart.NewRetryingProvider(paced, f.logger, f.metrics, name, cfg.DepthChart.Retries+1, 0)
	return depthchart.NewCache(retrying, cfg.DepthChart.TTL, f.logger)
}
