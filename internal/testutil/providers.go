package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

// GoodProvider returns a chart built from the provided lists for every team.
type GoodProvider struct {
	Players map[positions.Bucket][]string
}

func (p GoodProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	_ = ctx
	return depthchart.NewChart(team, p.Players), nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	return nil, p.Err
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	return nil, depthchart.ErrProviderUnavailable
}

// BlockingProvider waits until the context ends, simulating a hung upstream.
type BlockingProvider struct{}

func (BlockingProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// CountingProvider wraps another provider and counts calls per team.
type CountingProvider struct {
	Inner depthchart.Provider

	mu    sync.Mutex
	calls map[string]int
}

func (p *CountingProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[strings.ToUpper(team)]++
	p.mu.Unlock()
	return p.Inner.DepthChart(ctx, team)
}

// Calls returns how many fetches team received.
func (p *CountingProvider) Calls(team string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[strings.ToUpper(team)]
}

// Total returns the number of fetches across all teams.
func (p *CountingProvider) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}

// NotifyingProvider returns empty charts and closes Notify on the first fetch.
type NotifyingProvider struct {
	Notify chan struct{}

	once sync.Once
}

func (p *NotifyingProvider) DepthChart(ctx context.Context, team string) (*depthchart.Chart, error) {
	_ = ctx
	if p.Notify != nil {
		p.once.Do(func() { close(p.Notify) })
	}
	return depthchart.NewChart(team, nil), nil
}
