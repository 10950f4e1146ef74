package dvp

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/aliases"
	"github.com/preston-bernstein/nba-dvp-service/internal/cache"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
	"github.com/preston-bernstein/nba-dvp-service/internal/snapshots"
	"github.com/preston-bernstein/nba-dvp-service/internal/testutil"
)

var midSeason = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	writer   *snapshots.Writer
	provider *testutil.CountingProvider
	recorder *metrics.Recorder
}

func newFixture(t *testing.T, mutate func(*Config)) fixture {
	t.Helper()
	writer := testutil.NewTempWriter(t)
	provider := &testutil.CountingProvider{Inner: depthchart.NewFixture(nil)}
	recorder := metrics.NewRecorder()
	logger, _ := testutil.NewBufferLogger()
	cfg := Config{
		Snapshots:              snapshots.NewFSStore(writer.BasePath()),
		DepthCharts:            depthchart.NewCache(provider, time.Hour, logger),
		Cache:                  cache.NewCoordinator(cache.NewMemoryStore(), cache.Config{Recorder: recorder}),
		Logger:                 logger,
		Recorder:               recorder,
		PreviousSeasonFallback: true,
		Now:                    testutil.NowAt(midSeason),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return fixture{svc: NewService(cfg), writer: writer, provider: provider, recorder: recorder}
}

func assertValues(t *testing.T, label string, got positions.Values, want map[positions.Bucket]float64) {
	t.Helper()
	for _, b := range positions.All {
		if diff := got.Get(b) - want[b]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("%s[%s]: expected %v, got %v", label, b, want[b], got.Get(b))
		}
	}
}

func TestAggregateResolvesAcrossTiersAndCaches(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "mil"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cache != cache.StatusMiss {
		t.Fatalf("expected miss on first call, got %s", resp.Cache)
	}
	res := resp.Result
	if res.Team != "MIL" || res.Season != "2025-26" || res.Metric != "pts" || res.Window != DefaultGames {
		t.Fatalf("unexpected result header: %+v", res)
	}
	if res.SampleGames != 2 {
		t.Fatalf("expected 2 sample games, got %d", res.SampleGames)
	}
	assertValues(t, "totals", res.Totals, map[positions.Bucket]float64{positions.PG: 42, positions.SG: 10, positions.C: 30})
	assertValues(t, "perGame", res.PerGame, map[positions.Bucket]float64{positions.PG: 21, positions.SG: 5, positions.C: 15})
	if f.recorder.UnresolvedRecords() != 1 {
		t.Fatalf("expected one unresolved record, got %d", f.recorder.UnresolvedRecords())
	}
	if f.provider.Calls("BOS") != 1 || f.provider.Calls("DEN") != 1 {
		t.Fatalf("expected one fetch per opponent, got BOS=%d DEN=%d", f.provider.Calls("BOS"), f.provider.Calls("DEN"))
	}

	again, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL", Season: "2025"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Cache != cache.StatusHit {
		t.Fatalf("expected cache hit, got %s", again.Cache)
	}
	assertValues(t, "cached perGame", again.Result.PerGame, map[positions.Bucket]float64{positions.PG: 21, positions.SG: 5, positions.C: 15})
	if !again.Result.GeneratedAt.Equal(res.GeneratedAt) {
		t.Fatalf("expected cached generatedAt %v, got %v", res.GeneratedAt, again.Result.GeneratedAt)
	}
	if f.recorder.CacheLookups(metrics.CacheHit) != 1 || f.recorder.CacheLookups(metrics.CacheMiss) != 1 {
		t.Fatalf("expected one hit and one miss recorded")
	}
}

func TestAggregateValidation(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MaxGames = 40 })
	cases := []struct {
		name string
		q    Query
		want error
	}{
		{"unknown team", Query{Team: "XYZ"}, ErrUnknownTeam},
		{"empty team", Query{}, ErrUnknownTeam},
		{"bad metric", Query{Team: "MIL", Metric: "dunks"}, ErrInvalidMetric},
		{"window too large", Query{Team: "MIL", Games: 41}, ErrInvalidWindow},
		{"negative window", Query{Team: "MIL", Games: -1}, ErrInvalidWindow},
		{"bad season", Query{Team: "MIL", Season: "next year"}, ErrInvalidSeason},
	}
	for _, tc := range cases {
		if _, err := f.svc.Aggregate(context.Background(), tc.q); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAggregateTraceAndDebugBypassCache(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL", Trace: true, Debug: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cache != cache.StatusBypass {
		t.Fatalf("expected bypass, got %s", resp.Cache)
	}
	if len(resp.Result.Trace) != 2 {
		t.Fatalf("expected trace for 2 games, got %d", len(resp.Result.Trace))
	}
	if resp.Result.Debug == nil || len(resp.Result.Debug.Unresolved) != 1 || resp.Result.Debug.Unresolved[0] != "Unknown Guy" {
		t.Fatalf("expected debug to list the unresolved record, got %+v", resp.Result.Debug)
	}

	plain, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plain.Cache != cache.StatusMiss {
		t.Fatalf("expected debug request not to populate cache, got %s", plain.Cache)
	}
	if plain.Result.Debug != nil || plain.Result.Trace != nil {
		t.Fatalf("expected plain result without trace or debug")
	}
}

func TestAggregateRefreshRecomputes(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))
	ctx := context.Background()

	if _, err := f.svc.Aggregate(ctx, Query{Team: "MIL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refreshed, err := f.svc.Aggregate(ctx, Query{Team: "MIL", Refresh: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.Cache != cache.StatusBypass {
		t.Fatalf("expected bypass on refresh, got %s", refreshed.Cache)
	}
	hit, _ := f.svc.Aggregate(ctx, Query{Team: "MIL"})
	if hit.Cache != cache.StatusHit {
		t.Fatalf("expected refreshed entry to be stored, got %s", hit.Cache)
	}
}

func TestAggregateRecentSnapshotChangeInvalidates(t *testing.T) {
	f := newFixture(t, nil)
	snap := testutil.MilwaukeeSeason("2025-26")
	testutil.WriteTeamSeason(t, f.writer, snap)
	ctx := context.Background()
	path := testutil.SnapshotPath(f.writer, "2025-26", "MIL")
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := f.svc.Aggregate(ctx, Query{Team: "MIL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap.Games = snap.Games[:1]
	testutil.WriteTeamSeason(t, f.writer, snap)

	resp, err := f.svc.Aggregate(ctx, Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cache != cache.StatusStale {
		t.Fatalf("expected stale after snapshot rewrite, got %s", resp.Cache)
	}
	if resp.Result.SampleGames != 1 {
		t.Fatalf("expected new snapshot to be reflected, got %d games", resp.Result.SampleGames)
	}
	if again, _ := f.svc.Aggregate(ctx, Query{Team: "MIL"}); again.Cache != cache.StatusHit {
		t.Fatalf("expected recomputed entry to be served, got %s", again.Cache)
	}
}

func TestAggregateFallsBackToPreviousSeason(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2024-25"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL", Season: "2025-26"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.Season != "2024-25" || resp.Result.RequestedSeason != "2025-26" {
		t.Fatalf("expected fallback to 2024-25, got season=%s requested=%s", resp.Result.Season, resp.Result.RequestedSeason)
	}
	if resp.Result.SampleGames != 2 {
		t.Fatalf("expected fallback games, got %d", resp.Result.SampleGames)
	}
}

func TestAggregateFallbackWhenCurrentSeasonEmpty(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.SampleTeamSeason("MIL", "2025-26"))
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2024-25"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.Season != "2024-25" {
		t.Fatalf("expected fallback season, got %s", resp.Result.Season)
	}
}

func TestAggregateWithoutFallbackFailsOnMissingSnapshot(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.PreviousSeasonFallback = false })
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2024-25"))

	_, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestAggregateEmptySeasonWithoutFallbackReturnsZeroes(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.PreviousSeasonFallback = false })
	testutil.WriteTeamSeason(t, f.writer, testutil.SampleTeamSeason("MIL", "2025-26"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.SampleGames != 0 || resp.Result.PerGame.Sum() != 0 {
		t.Fatalf("expected empty result, got %+v", resp.Result)
	}
}

func TestAggregateDepthChartTimeoutDegrades(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	f := newFixture(t, func(c *Config) {
		c.Logger = logger
		c.DepthCharts = depthchart.NewCache(testutil.BlockingProvider{}, time.Hour, logger)
		c.DepthChartTimeout = 20 * time.Millisecond
	})
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL", Debug: true})
	if err != nil {
		t.Fatalf("expected degraded result, got error %v", err)
	}
	// Only the stored SG bucket survives without depth charts.
	assertValues(t, "totals", resp.Result.Totals, map[positions.Bucket]float64{positions.SG: 10})
	if resp.Result.SampleGames != 1 {
		t.Fatalf("expected 1 sample game, got %d", resp.Result.SampleGames)
	}
	if len(resp.Result.Debug.Unresolved) != 4 {
		t.Fatalf("expected 4 unresolved records, got %v", resp.Result.Debug.Unresolved)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected depth chart failure to be logged")
	}
}

func TestAggregateFallbackSnapshotChangeInvalidates(t *testing.T) {
	f := newFixture(t, nil)
	snap := testutil.MilwaukeeSeason("2024-25")
	testutil.WriteTeamSeason(t, f.writer, snap)
	ctx := context.Background()
	path := testutil.SnapshotPath(f.writer, "2024-25", "MIL")
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	first, err := f.svc.Aggregate(ctx, Query{Team: "MIL", Season: "2025-26"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Result.Season != "2024-25" || first.Result.SampleGames != 2 {
		t.Fatalf("expected fallback result over 2 games, got %s %d", first.Result.Season, first.Result.SampleGames)
	}

	snap.Games = snap.Games[:1]
	testutil.WriteTeamSeason(t, f.writer, snap)

	resp, err := f.svc.Aggregate(ctx, Query{Team: "MIL", Season: "2025-26"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cache != cache.StatusStale {
		t.Fatalf("expected stale after fallback snapshot rewrite, got %s", resp.Cache)
	}
	if resp.Result.SampleGames != 1 {
		t.Fatalf("expected rewritten fallback snapshot to be reflected, got %d games", resp.Result.SampleGames)
	}
}

func TestAggregateTrimsOpponentLabels(t *testing.T) {
	f := newFixture(t, nil)
	snap := testutil.MilwaukeeSeason("2025-26")
	for i := range snap.Games {
		snap.Games[i].Opponent = " " + snap.Games[i].Opponent + " "
	}
	testutil.WriteTeamSeason(t, f.writer, snap)

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Result.SampleGames != 2 {
		t.Fatalf("expected 2 sample games, got %d", resp.Result.SampleGames)
	}
	assertValues(t, "totals", resp.Result.Totals, map[positions.Bucket]float64{positions.PG: 42, positions.SG: 10, positions.C: 30})
	if f.provider.Total() != 2 {
		t.Fatalf("expected one depth chart fetch per opponent, got %d", f.provider.Total())
	}
}

func TestAggregateUsesOpponentAliasTable(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Aliases = aliases.StaticProvider{
			Teams: map[string]aliases.File{
				"BOS": {Positions: map[string]string{"Unknown Guy": "SF"}},
			},
		}
	})
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))

	resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Result.Totals.Get(positions.SF); got != 5 {
		t.Fatalf("expected override to place 5 points at SF, got %v", got)
	}
}

func TestAggregateConcurrentRequests(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.Aggregate(context.Background(), Query{Team: "MIL", Split: true})
			if err == nil && resp.Result.Totals.Get(positions.PG) != 42 {
				err = errors.New("unexpected totals under concurrency")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent aggregate failed: %v", err)
		}
	}
}

func TestAggregateCancelledContext(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteTeamSeason(t, f.writer, testutil.MilwaukeeSeason("2025-26"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.svc.Aggregate(ctx, Query{Team: "MIL"}); err == nil {
		t.Fatalf("expected error for cancelled request")
	}
}
