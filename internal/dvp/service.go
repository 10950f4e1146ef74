// Package dvp answers Defense-vs-Position queries: it validates the request,
// consults the result cache, loads the team-season snapshot, fetches the
// opponents' depth charts and runs the season aggregation.
package dvp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-dvp-service/internal/aggregate"
	"github.com/preston-bernstein/nba-dvp-service/internal/aliases"
	"github.com/preston-bernstein/nba-dvp-service/internal/cache"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
	"github.com/preston-bernstein/nba-dvp-service/internal/resolve"
	"github.com/preston-bernstein/nba-dvp-service/internal/snapshots"
)

var (
	ErrUnknownTeam   = errors.New("dvp: unknown team")
	ErrInvalidMetric = errors.New("dvp: invalid metric")
	ErrInvalidWindow = errors.New("dvp: invalid games window")
	ErrInvalidSeason = errors.New("dvp: invalid season")
	// ErrSnapshotUnavailable means neither the requested nor the fallback
	// season snapshot could be read.
	ErrSnapshotUnavailable = errors.New("dvp: snapshot unavailable")
)

const (
	DefaultGames             = 20
	defaultSnapshotTimeout   = 5 * time.Second
	defaultDepthChartTimeout = 10 * time.Second
	defaultFetchConcurrency  = 8
)

// DepthCharts supplies a team's depth chart and never fails; an unavailable
// chart is returned empty. *depthchart.Cache satisfies it.
type DepthCharts interface {
	Get(ctx context.Context, team string) *depthchart.Chart
}

// Query is one DvP request as received from a caller.
type Query struct {
	Team string
	// Season is a start year or label; empty means the season in progress.
	Season  string
	Metric  string
	Games   int
	Split   bool
	Trace   bool
	Debug   bool
	Refresh bool
}

// Response carries the result and how the cache served it.
type Response struct {
	Result aggregate.Result
	Cache  cache.Status
}

// Config wires a Service. Snapshots and Cache are required.
type Config struct {
	Snapshots   snapshots.Store
	Aliases     aliases.Provider
	DepthCharts DepthCharts
	Cache       *cache.Coordinator
	Chain       *resolve.Chain
	Logger      *slog.Logger
	Recorder    *metrics.Recorder

	DefaultGames           int
	MaxGames               int
	SnapshotTimeout        time.Duration
	DepthChartTimeout      time.Duration
	FetchConcurrency       int
	PreviousSeasonFallback bool
	Now                    func() time.Time
}

// Service orchestrates one aggregation per call. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	snapshots   snapshots.Store
	aliases     aliases.Provider
	depthCharts DepthCharts
	cache       *cache.Coordinator
	chain       *resolve.Chain
	logger      *slog.Logger
	recorder    *metrics.Recorder

	defaultGames      int
	maxGames          int
	snapshotTimeout   time.Duration
	depthChartTimeout time.Duration
	fetchConcurrency  int
	fallback          bool
	now               func() time.Time
}

// NewService applies defaults to cfg.
func NewService(cfg Config) *Service {
	if cfg.Aliases == nil {
		cfg.Aliases = aliases.StaticProvider{}
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewCoordinator(nil, cache.Config{Logger: cfg.Logger, Recorder: cfg.Recorder})
	}
	if cfg.Chain == nil {
		cfg.Chain = resolve.DefaultChain(false)
	}
	if cfg.MaxGames <= 0 || cfg.MaxGames > aggregate.MaxWindow {
		cfg.MaxGames = aggregate.MaxWindow
	}
	if cfg.DefaultGames <= 0 {
		cfg.DefaultGames = DefaultGames
	}
	if cfg.DefaultGames > cfg.MaxGames {
		cfg.DefaultGames = cfg.MaxGames
	}
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = defaultSnapshotTimeout
	}
	if cfg.DepthChartTimeout <= 0 {
		cfg.DepthChartTimeout = defaultDepthChartTimeout
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		snapshots:         cfg.Snapshots,
		aliases:           cfg.Aliases,
		depthCharts:       cfg.DepthCharts,
		cache:             cfg.Cache,
		chain:             cfg.Chain,
		logger:            cfg.Logger,
		recorder:          cfg.Recorder,
		defaultGames:      cfg.DefaultGames,
		maxGames:          cfg.MaxGames,
		snapshotTimeout:   cfg.SnapshotTimeout,
		depthChartTimeout: cfg.DepthChartTimeout,
		fetchConcurrency:  cfg.FetchConcurrency,
		fallback:          cfg.PreviousSeasonFallback,
		now:               cfg.Now,
	}
}

// request is a validated Query.
type request struct {
	team      string
	startYear int
	season    string
	opts      aggregate.Options
	refresh   bool
}

func (s *Service) validate(q Query) (request, error) {
	team, ok := teams.Lookup(q.Team)
	if !ok {
		return request{}, fmt.Errorf("%w: %q", ErrUnknownTeam, q.Team)
	}
	metric := boxscore.MetricPoints
	if strings.TrimSpace(q.Metric) != "" {
		m, err := boxscore.ParseMetric(q.Metric)
		if err != nil {
			return request{}, fmt.Errorf("%w: %q", ErrInvalidMetric, q.Metric)
		}
		metric = m
	}
	window := q.Games
	switch {
	case window == 0:
		window = s.defaultGames
	case window < 0 || window > s.maxGames:
		return request{}, fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidWindow, q.Games, s.maxGames)
	}
	startYear := teams.CurrentSeason(s.now())
	if strings.TrimSpace(q.Season) != "" {
		year, err := teams.ParseSeason(q.Season)
		if err != nil {
			return request{}, fmt.Errorf("%w: %q", ErrInvalidSeason, q.Season)
		}
		startYear = year
	}
	return request{
		team:      team.Abbreviation,
		startYear: startYear,
		season:    teams.SeasonLabel(startYear),
		opts: aggregate.Options{
			Metric: metric,
			Window: window,
			Split:  q.Split,
			Trace:  q.Trace,
			Debug:  q.Debug,
		},
		refresh: q.Refresh,
	}, nil
}

// Aggregate answers q, serving from the cache when the entry is still valid.
// Trace and debug output are never cached because the key does not cover them.
func (s *Service) Aggregate(ctx context.Context, q Query) (Response, error) {
	req, err := s.validate(q)
	if err != nil {
		return Response{}, err
	}
	logger := logging.FromContext(ctx, s.logger).With(
		logging.FieldTeam, req.team,
		logging.FieldSeason, req.season,
		logging.FieldMetric, string(req.opts.Metric),
	)
	ctx = logging.WithLogger(ctx, logger)

	key := cache.Key{
		Team:   req.team,
		Season: req.season,
		Metric: string(req.opts.Metric),
		Window: req.opts.Window,
		Split:  req.opts.Split,
	}
	modTime := s.sourceModTime(ctx, req)

	var computed *aggregate.Result
	payload, status, err := s.cache.GetOrCompute(ctx, cache.Request{
		Key:           key,
		SourceModTime: modTime,
		Refresh:       req.refresh,
		NoStore:       req.opts.Trace || req.opts.Debug,
	}, func(ctx context.Context) ([]byte, error) {
		res, err := s.compute(ctx, req)
		if err != nil {
			return nil, err
		}
		computed = &res
		return json.Marshal(res)
	})
	if err != nil {
		return Response{}, err
	}

	if computed != nil {
		return Response{Result: *computed, Cache: status}, nil
	}
	var res aggregate.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return Response{}, fmt.Errorf("decode cached result: %w", err)
	}
	logging.Info(logger, "dvp served from cache", logging.FieldCache, string(status))
	return Response{Result: res, Cache: status}, nil
}

// sourceModTime is the newest modification time among the snapshots compute
// may read: the requested season and, when fallback is on, the previous one.
func (s *Service) sourceModTime(ctx context.Context, req request) time.Time {
	modTime := s.snapshotModTime(ctx, req.team, req.season)
	if !s.fallback {
		return modTime
	}
	prev := s.snapshotModTime(ctx, req.team, teams.SeasonLabel(req.startYear-1))
	if prev.After(modTime) {
		return prev
	}
	return modTime
}

func (s *Service) snapshotModTime(ctx context.Context, team, season string) time.Time {
	if s.snapshots == nil {
		return time.Time{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
	defer cancel()
	modTime, err := s.snapshots.ModTime(ctx, team, season)
	if err != nil && !errors.Is(err, snapshots.ErrSnapshotNotFound) {
		logging.Warn(logging.FromContext(ctx, s.logger), "snapshot stat failed", logging.FieldError, err)
	}
	return modTime
}

// compute runs the aggregation for req, falling back to the previous season
// when the requested one has no contributing game.
func (s *Service) compute(ctx context.Context, req request) (aggregate.Result, error) {
	start := s.now()
	logger := logging.FromContext(ctx, s.logger)

	res, unresolved, loadErr := s.computeSeason(ctx, req.team, req.season, req.opts)
	if s.fallback && (loadErr != nil || res.SampleGames == 0) {
		prev := teams.SeasonLabel(req.startYear - 1)
		fbRes, fbUnresolved, fbErr := s.computeSeason(ctx, req.team, prev, req.opts)
		switch {
		case fbErr == nil && fbRes.SampleGames > 0:
			logging.Info(logger, "dvp fell back to previous season", "fallback_season", prev)
			fbRes.RequestedSeason = req.season
			res, unresolved, loadErr = fbRes, fbUnresolved, nil
		case loadErr != nil && fbErr == nil:
			fbRes.RequestedSeason = req.season
			res, unresolved, loadErr = fbRes, fbUnresolved, nil
		}
	}
	if loadErr != nil {
		return aggregate.Result{}, loadErr
	}
	if err := ctx.Err(); err != nil {
		return aggregate.Result{}, err
	}

	res.GeneratedAt = s.now().UTC()
	duration := s.now().Sub(start)
	s.recorder.RecordAggregation(string(req.opts.Metric), duration, unresolved)
	logging.Info(logger, "dvp aggregated",
		"sample_games", res.SampleGames,
		"unresolved", unresolved,
		logging.FieldDurationMS, duration.Milliseconds(),
	)
	return res, nil
}

func (s *Service) computeSeason(ctx context.Context, team, season string, opts aggregate.Options) (aggregate.Result, int, error) {
	snap, err := s.loadSnapshot(ctx, team, season)
	if err != nil {
		return aggregate.Result{}, 0, err
	}
	window := aggregate.SelectWindow(snap.Games, opts.Window)
	contexts := s.resolveContexts(ctx, opponents(window))
	summary := aggregate.Fold(window, opts, func(game *boxscore.Game, rec *boxscore.PlayerGameRecord) resolve.Resolution {
		return s.chain.Resolve(rec, contexts[opponentKey(game.Opponent)])
	})
	return aggregate.Build(team, season, summary, opts), len(summary.Unresolved), nil
}

func (s *Service) loadSnapshot(ctx context.Context, team, season string) (boxscore.TeamSeason, error) {
	if s.snapshots == nil {
		return boxscore.TeamSeason{}, fmt.Errorf("%w: no snapshot store", ErrSnapshotUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
	defer cancel()
	snap, _, err := s.snapshots.LoadTeamSeason(ctx, team, season)
	if err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "snapshot unavailable",
			logging.FieldSeason, season,
			logging.FieldError, err,
		)
		return boxscore.TeamSeason{}, fmt.Errorf("%w: %s %s: %v", ErrSnapshotUnavailable, team, season, err)
	}
	return snap, nil
}

// resolveContexts loads every opponent's alias table and depth chart. Depth
// charts are fetched concurrently, each under its own timeout; a chart that
// times out is simply empty.
func (s *Service) resolveContexts(ctx context.Context, opps []string) map[string]*resolve.Context {
	logger := logging.FromContext(ctx, s.logger)
	charts := make(map[string]*depthchart.Chart, len(opps))
	if s.depthCharts != nil && len(opps) > 0 {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.fetchConcurrency)
		for _, opp := range opps {
			g.Go(func() error {
				fetchCtx, cancel := context.WithTimeout(gctx, s.depthChartTimeout)
				defer cancel()
				chart := s.depthCharts.Get(fetchCtx, opp)
				mu.Lock()
				charts[opp] = chart
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make(map[string]*resolve.Context, len(opps))
	for _, opp := range opps {
		table, err := s.aliases.Load(opp)
		if err != nil {
			logging.Warn(logger, "alias table degraded", logging.FieldOpponent, opp, logging.FieldError, err)
		}
		out[opp] = resolve.NewContext(table, charts[opp])
	}
	return out
}

func opponents(games []boxscore.Game) []string {
	seen := make(map[string]struct{}, len(games))
	var out []string
	for _, g := range games {
		opp := opponentKey(g.Opponent)
		if opp == "" {
			continue
		}
		if _, ok := seen[opp]; ok {
			continue
		}
		seen[opp] = struct{}{}
		out = append(out, opp)
	}
	return out
}

// opponentKey is the map key for an opponent label as written in a snapshot.
func opponentKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
