package server

import (
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
)

const (
	readTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	minWriteTimeout   = 10 * time.Second
	computeSlack      = 5 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

// writeTimeoutFor covers a cold /dvp request with previous-season fallback:
// two stats and two loads bounded by the snapshot timeout, two depth chart
// waves bounded by the depth chart timeout, plus aggregation slack.
func writeTimeoutFor(cfg config.Config) time.Duration {
	budget := 4*cfg.Snapshots.Timeout + 2*cfg.DepthChart.Timeout + computeSlack
	if budget < minWriteTimeout {
		return minWriteTimeout
	}
	return budget
}
