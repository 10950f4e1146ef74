package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-dvp-service/internal/cache"
	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/dvp"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
	"github.com/preston-bernstein/nba-dvp-service/internal/resolve"
)

// Components are the DvP engine pieces shared by the HTTP server and the CLI.
type Components struct {
	Service *dvp.Service
	Charts  *depthchart.Cache
	Results *cache.Coordinator
}

// Close releases the result cache.
func (c Components) Close() error {
	if c.Results == nil {
		return nil
	}
	return c.Results.Close()
}

// BuildComponents wires the engine from cfg. A nil provider selects the
// configured depth chart source.
func BuildComponents(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, provider depthchart.Provider) Components {
	charts := newProviderFactory(logger, recorder).build(cfg, provider)
	results := buildResultCache(ctx, cfg, logger, recorder)
	data := buildSnapshots(cfg)
	svc := dvp.NewService(dvp.Config{
		Snapshots:              data.store,
		Aliases:                data.aliases,
		DepthCharts:            charts,
		Cache:                  results,
		Chain:                  resolve.DefaultChain(cfg.DvP.HeuristicFallback),
		Logger:                 logger,
		Recorder:               recorder,
		DefaultGames:           cfg.DvP.DefaultGames,
		MaxGames:               cfg.DvP.MaxGames,
		SnapshotTimeout:        cfg.Snapshots.Timeout,
		DepthChartTimeout:      cfg.DepthChart.Timeout,
		PreviousSeasonFallback: cfg.DvP.PreviousSeasonFallback,
	})
	return Components{Service: svc, Charts: charts, Results: results}
}
