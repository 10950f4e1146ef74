package warmer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
	"github.com/preston-bernstein/nba-dvp-service/internal/testutil"
)

func TestWarmerRefreshesEveryTeam(t *testing.T) {
	provider := &testutil.CountingProvider{Inner: depthchart.NewFixture(nil)}
	charts := depthchart.NewCache(provider, time.Hour, nil)
	w := New(charts, nil, metrics.NewRecorder(), Config{Teams: []string{"BOS", "MIL", "DEN"}})

	w.warmOnce(context.Background())

	if provider.Total() != 3 {
		t.Fatalf("expected 3 refreshes, got %d", provider.Total())
	}
	if chart, _, ok := charts.Cached("MIL"); !ok || chart.Empty() {
		t.Fatalf("expected MIL chart to be cached")
	}
	status := w.Status()
	if !status.IsReady() || status.WarmedTeams != 3 || status.FailedTeams != 0 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestWarmerDefaultsToWholeLeague(t *testing.T) {
	provider := &testutil.CountingProvider{Inner: depthchart.NewFixture(nil)}
	w := New(depthchart.NewCache(provider, time.Hour, nil), nil, nil, Config{})
	if len(w.teams) != 30 {
		t.Fatalf("expected 30 teams, got %d", len(w.teams))
	}
	if w.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, w.interval)
	}
	w.warmOnce(context.Background())
	if provider.Total() != 30 {
		t.Fatalf("expected 30 refreshes, got %d", provider.Total())
	}
}

func TestWarmerStatusTracksFailuresAndSuccess(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	failing := depthchart.NewCache(testutil.ErrProvider{Err: errors.New("boom")}, time.Hour, nil)
	w := New(failing, logger, nil, Config{Teams: []string{"BOS"}})

	w.warmOnce(context.Background())
	status := w.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected failure to be logged")
	}

	w.refresher = depthchart.NewCache(depthchart.NewFixture(nil), time.Hour, nil)
	w.warmOnce(context.Background())
	status = w.Status()
	if status.ConsecutiveFailures != 0 || status.LastSuccess.IsZero() || !status.IsReady() {
		t.Fatalf("expected ready after success, got %+v", status)
	}
}

type partialRefresher struct {
	fail string
}

func (p partialRefresher) Refresh(ctx context.Context, team string) (*depthchart.Chart, error) {
	if team == p.fail {
		return nil, depthchart.ErrProviderUnavailable
	}
	return depthchart.NewChart(team, nil), nil
}

func TestWarmerPartialFailureStillSucceeds(t *testing.T) {
	w := New(partialRefresher{fail: "BOS"}, nil, nil, Config{Teams: []string{"BOS", "MIL"}})
	w.warmOnce(context.Background())
	status := w.Status()
	if !status.IsReady() || status.WarmedTeams != 1 || status.FailedTeams != 1 {
		t.Fatalf("expected partial success, got %+v", status)
	}
}

func TestWarmerTeamTimeout(t *testing.T) {
	charts := depthchart.NewCache(testutil.BlockingProvider{}, time.Hour, nil)
	w := New(charts, nil, nil, Config{Teams: []string{"BOS"}, TeamTimeout: 10 * time.Millisecond})
	done := make(chan struct{})
	go func() {
		w.warmOnce(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected warm cycle to respect team timeout")
	}
	if w.Status().ConsecutiveFailures != 1 {
		t.Fatalf("expected timed out cycle to fail")
	}
}

func TestWarmerStartAndStop(t *testing.T) {
	provider := &testutil.NotifyingProvider{Notify: make(chan struct{})}
	w := New(depthchart.NewCache(provider, time.Hour, nil), nil, nil, Config{
		Interval: 10 * time.Millisecond,
		Teams:    []string{"MIL"},
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	w.Start(ctx) // should no-op

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial warm")
	}

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestWarmerStartReturnsWhenAlreadyStarted(t *testing.T) {
	w := New(partialRefresher{}, nil, nil, Config{Interval: time.Hour})
	w.started = true
	w.Start(context.Background())
	if w.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}
