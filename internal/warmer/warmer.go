// Package warmer periodically refreshes every team's depth chart so DvP
// requests rarely wait on the upstream provider.
package warmer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
)

const (
	defaultInterval    = 30 * time.Minute
	defaultTeamTimeout = 10 * time.Second
	defaultParallelism = 4
)

// Refresher refetches one team's depth chart into a cache.
type Refresher interface {
	Refresh(ctx context.Context, team string) (*depthchart.Chart, error)
}

// Config tunes a Warmer. Zero values select the defaults.
type Config struct {
	Interval    time.Duration
	TeamTimeout time.Duration
	Parallelism int
	// Teams defaults to the whole league.
	Teams []string
}

// Warmer refreshes depth charts on an interval.
type Warmer struct {
	refresher   Refresher
	logger      *slog.Logger
	metrics     *metrics.Recorder
	interval    time.Duration
	teamTimeout time.Duration
	parallelism int
	teams       []string
	now         func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warm loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	WarmedTeams         int
	FailedTeams         int
}

// IsReady reports whether the warmer has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Warmer with sane defaults.
func New(refresher Refresher, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Warmer {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.TeamTimeout <= 0 {
		cfg.TeamTimeout = defaultTeamTimeout
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaultParallelism
	}
	if len(cfg.Teams) == 0 {
		cfg.Teams = teams.Abbreviations()
	}
	return &Warmer{
		refresher:   refresher,
		logger:      logger,
		metrics:     recorder,
		interval:    cfg.Interval,
		teamTimeout: cfg.TeamTimeout,
		parallelism: cfg.Parallelism,
		teams:       append([]string(nil), cfg.Teams...),
		now:         time.Now,
		done:        make(chan struct{}),
	}
}

// Start begins warming until the context is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.startMu.Unlock()

	w.ticker = time.NewTicker(w.interval)

	go func() {
		logging.Info(w.logger, "depth chart warmer started", slog.Int64(logging.FieldDurationMS, w.interval.Milliseconds()))
		w.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				w.stopTicker()
				logging.Info(w.logger, "depth chart warmer stopped")
				return
			case <-w.done:
				w.stopTicker()
				logging.Info(w.logger, "depth chart warmer stopped")
				return
			case <-w.ticker.C:
				w.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the warm loop.
func (w *Warmer) Stop(ctx context.Context) error {
	_ = ctx
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopTicker()
	})
	return nil
}

// warmOnce refreshes every team. A cycle fails only when no team could be
// refreshed; partial failures are logged and counted.
func (w *Warmer) warmOnce(ctx context.Context) {
	start := w.now()
	w.recordAttempt(start)

	var (
		mu     sync.Mutex
		failed []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.parallelism)
	for _, team := range w.teams {
		g.Go(func() error {
			teamCtx, cancel := context.WithTimeout(gctx, w.teamTimeout)
			defer cancel()
			if _, err := w.refresher.Refresh(teamCtx, team); err != nil {
				mu.Lock()
				failed = append(failed, fmt.Errorf("%s: %w", team, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var cycleErr error
	if len(w.teams) > 0 && len(failed) == len(w.teams) {
		cycleErr = errors.Join(failed...)
	}
	duration := w.now().Sub(start)
	w.metrics.RecordWarmerCycle(duration, cycleErr)

	if cycleErr != nil {
		logging.Error(w.logger, "depth chart warm failed", cycleErr, slog.Int64(logging.FieldDurationMS, duration.Milliseconds()))
		w.recordFailure(cycleErr, start, len(failed))
		return
	}
	if len(failed) > 0 {
		logging.Warn(w.logger, "depth chart warm partially failed",
			"failed", len(failed),
			logging.FieldError, errors.Join(failed...),
		)
	}
	w.recordSuccess(start, len(w.teams)-len(failed), len(failed))
	logging.Info(w.logger, "depth charts warmed",
		logging.FieldCount, len(w.teams)-len(failed),
		logging.FieldDurationMS, duration.Milliseconds(),
	)
}

func (w *Warmer) stopTicker() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Warmer) recordAttempt(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.LastAttempt = at
}

func (w *Warmer) recordSuccess(at time.Time, warmed, failed int) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = at
	w.status.WarmedTeams = warmed
	w.status.FailedTeams = failed
}

func (w *Warmer) recordFailure(err error, at time.Time, failed int) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures++
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.status.LastAttempt = at
	w.status.WarmedTeams = 0
	w.status.FailedTeams = failed
}

// Status returns a snapshot of the warmer's recent health.
func (w *Warmer) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}
