package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
)

// normalizeProviderName returns a lower-cased provider label for logs and metrics.
func normalizeProviderName(raw string, provider depthchart.Provider) string {
	switch {
	case raw == config.DepthChartProviderHTTP:
		return depthchart.ProviderName
	case raw != "":
		return strings.ToLower(raw)
	case provider != nil:
		return strings.ToLower(fmt.Sprintf("%T", provider))
	default:
		return "provider"
	}
}
