package aggregate

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

// View is per-game averages and totals for one cohort.
type View struct {
	PerGame  positions.Values  `json:"perGame"`
	Totals   positions.Values  `json:"totals"`
	Attempts *positions.Values `json:"attempts,omitempty"`
}

// Splits holds the starter and bench cohorts.
type Splits struct {
	Starters View `json:"starters"`
	Bench    View `json:"bench"`
}

// Debug surfaces data-quality details for operators.
type Debug struct {
	Records        int      `json:"records"`
	Unresolved     []string `json:"unresolved"`
	UnresolvedRate float64  `json:"unresolvedRate"`
	Malformed      int      `json:"malformed"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Result is the aggregation payload returned to callers and cached.
type Result struct {
	Team            string            `json:"team"`
	Season          string            `json:"season"`
	RequestedSeason string            `json:"requestedSeason,omitempty"`
	Metric          boxscore.Metric   `json:"metric"`
	Window          int               `json:"window"`
	SampleGames     int               `json:"sampleGames"`
	PerGame         positions.Values  `json:"perGame"`
	Totals          positions.Values  `json:"totals"`
	Attempts        *positions.Values `json:"attempts,omitempty"`
	Splits          *Splits           `json:"splits,omitempty"`
	Trace           []GameReport      `json:"trace,omitempty"`
	Debug           *Debug            `json:"debug,omitempty"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

// Season selects the newest window of games and folds it into a Result.
// Only the team and season labels are copied from the caller; GeneratedAt is
// left for the caller to stamp.
func Season(team, season string, games []boxscore.Game, opts Options, bucketOf GameBucketFunc) Result {
	opts.Window = ClampWindow(opts.Window)
	window := SelectWindow(games, opts.Window)
	return Build(team, season, Fold(window, opts, bucketOf), opts)
}

// Build renders a Summary into a Result.
func Build(team, season string, s Summary, opts Options) Result {
	kind := opts.Metric.Kind()
	res := Result{
		Team:        team,
		Season:      season,
		Metric:      opts.Metric,
		Window:      opts.Window,
		SampleGames: s.SampleGames,
		PerGame:     PerGame(s.Totals, kind, s.SampleGames),
		Totals:      s.Totals.Numerator,
	}
	if kind == boxscore.Ratio {
		attempts := s.Totals.Denominator
		res.Attempts = &attempts
	}
	if opts.Split {
		res.Splits = &Splits{
			Starters: view(s.Starters, kind, s.SampleGames),
			Bench:    view(s.Bench, kind, s.SampleGames),
		}
	}
	if opts.Trace {
		res.Trace = s.Games
		if res.Trace == nil {
			res.Trace = []GameReport{}
		}
	}
	if opts.Debug {
		res.Debug = debugFor(s)
	}
	return res
}

func view(t Totals, kind boxscore.MetricKind, sampleGames int) View {
	v := View{PerGame: PerGame(t, kind, sampleGames), Totals: t.Numerator}
	if kind == boxscore.Ratio {
		attempts := t.Denominator
		v.Attempts = &attempts
	}
	return v
}

func debugFor(s Summary) *Debug {
	d := &Debug{
		Records:    s.Records,
		Unresolved: append([]string{}, s.Unresolved...),
		Malformed:  s.Malformed,
	}
	if s.Records > 0 {
		d.UnresolvedRate = float64(len(s.Unresolved)) / float64(s.Records)
	}
	if d.UnresolvedRate > UnresolvedWarningRate {
		d.Warnings = append(d.Warnings, fmt.Sprintf(
			"%.1f%% of %d player records could not be assigned a position; check depth charts and alias tables",
			100*d.UnresolvedRate, s.Records))
	}
	if s.Malformed > 0 {
		d.Warnings = append(d.Warnings, fmt.Sprintf("%d malformed player records skipped", s.Malformed))
	}
	if s.SampleGames == 0 {
		d.Warnings = append(d.Warnings, "no game in the window contributed a resolved record")
	}
	return d
}
