package depthchart

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPacedProviderZeroIntervalReturnsNext(t *testing.T) {
	base := ProviderFunc(func(ctx context.Context, team string) (*Chart, error) {
		return NewChart(team, nil), nil
	})
	if got := NewPacedProvider(base, 0, nil); got == nil {
		t.Fatalf("expected provider")
	} else if _, ok := got.(*pacedProvider); ok {
		t.Fatalf("expected unwrapped provider for zero interval")
	}
}

func TestPacedProviderFirstCallImmediate(t *testing.T) {
	calls := 0
	base := ProviderFunc(func(ctx context.Context, team string) (*Chart, error) {
		calls++
		return NewChart(team, nil), nil
	})
	p := NewPacedProvider(base, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	chart, err := p.DepthChart(ctx, "MIL")
	if err != nil || chart == nil {
		t.Fatalf("expected immediate chart, got %v %v", chart, err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestPacedProviderWaitsForSlot(t *testing.T) {
	base := ProviderFunc(func(ctx context.Context, team string) (*Chart, error) {
		return NewChart(team, nil), nil
	})
	p := NewPacedProvider(base, 30*time.Millisecond, nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := p.DepthChart(context.Background(), "MIL"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected pacing of at least 60ms, got %s", elapsed)
	}
}

func TestPacedProviderHonorsCancellation(t *testing.T) {
	calls := 0
	base := ProviderFunc(func(ctx context.Context, team string) (*Chart, error) {
		calls++
		return NewChart(team, nil), nil
	})
	p := NewPacedProvider(base, time.Hour, nil)
	if _, err := p.DepthChart(context.Background(), "MIL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.DepthChart(ctx, "BOS")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected paced call to be skipped, got %d calls", calls)
	}
}

func TestPacedProviderNilNext(t *testing.T) {
	p := &pacedProvider{interval: time.Second}
	if _, err := p.DepthChart(context.Background(), "MIL"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
