package server

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
)

func selectProvider(cfg config.Config, logger *slog.Logger) depthchart.Provider {
	switch cfg.DepthChart.Provider {
	case config.DepthChartProviderFixture:
		return depthchart.NewFixture(nil)
	case config.DepthChartProviderHTTP, "":
		return depthchart.NewClient(depthchart.Config{
			BaseURL:    cfg.DepthChart.BaseURL,
			HTTPClient: &http.Client{Timeout: cfg.DepthChart.Timeout},
		})
	default:
		if logger != nil {
			logger.Warn("unknown depth chart provider, falling back to fixture", slog.String("provider", cfg.DepthChart.Provider))
		}
		return depthchart.NewFixture(nil)
	}
}
