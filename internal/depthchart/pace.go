package depthchart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
)

// pacedProvider wraps a Provider and enforces a minimum interval between
// upstream calls. The first call goes through immediately.
type pacedProvider struct {
	next     Provider
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	nextSlot time.Time
}

// NewPacedProvider returns a Provider that spaces calls at least interval
// apart. A non-positive interval returns next unchanged.
func NewPacedProvider(next Provider, interval time.Duration, logger *slog.Logger) Provider {
	if interval <= 0 {
		return next
	}
	return &pacedProvider{
		next:     next,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *pacedProvider) DepthChart(ctx context.Context, team string) (*Chart, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	logger := logging.FromContext(ctx, p.logger)

	wait := p.reserve()
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			logging.Warn(logger, "paced fetch canceled", logging.FieldProvider, "paced", logging.FieldTeam, team)
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return p.next.DepthChart(ctx, team)
}

// reserve claims the next free slot and returns how long to wait for it.
func (p *pacedProvider) reserve() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	slot := p.nextSlot
	if slot.Before(now) {
		slot = now
	}
	p.nextSlot = slot.Add(p.interval)
	return slot.Sub(now)
}
