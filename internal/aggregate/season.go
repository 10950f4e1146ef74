package aggregate

import (
	"sort"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/resolve"
	"github.com/preston-bernstein/nba-dvp-service/internal/timeutil"
)

const (
	// MaxWindow bounds how many games a request may fold.
	MaxWindow = 82
	// UnresolvedWarningRate is the unresolved share of participating records
	// above which debug output carries a data-quality warning.
	UnresolvedWarningRate = 0.20
)

// Options selects what a season aggregation computes.
type Options struct {
	Metric boxscore.Metric
	Window int
	Split  bool
	Trace  bool
	Debug  bool
}

// GameBucketFunc resolves a record within the context of its game.
type GameBucketFunc func(game *boxscore.Game, rec *boxscore.PlayerGameRecord) resolve.Resolution

// Summary is the bare fold of a window.
type Summary struct {
	Totals      Totals
	Starters    Totals
	Bench       Totals
	SampleGames int
	Games       []GameReport
	Records     int
	Unresolved  []string
	Malformed   int
}

// GameReport is the per-game trace entry.
type GameReport struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"`
	Opponent      string            `json:"opponent"`
	Contributed   bool              `json:"contributed"`
	Participating int               `json:"participating"`
	Resolved      int               `json:"resolved"`
	Totals        positions.Values  `json:"totals"`
	Attempts      *positions.Values `json:"attempts,omitempty"`
	Records       []RecordOutcome   `json:"records,omitempty"`
}

// ClampWindow bounds n to [1, MaxWindow].
func ClampWindow(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxWindow {
		return MaxWindow
	}
	return n
}

// SelectWindow returns games sorted newest-first and truncated to the
// clamped window. Games with unparseable dates sort last in input order. The
// input slice is not reordered.
func SelectWindow(games []boxscore.Game, window int) []boxscore.Game {
	type dated struct {
		game boxscore.Game
		at   time.Time
		ok   bool
	}
	rows := make([]dated, len(games))
	for i, g := range games {
		at, err := timeutil.ParseGameDate(g.Date)
		rows[i] = dated{game: g, at: at, ok: err == nil}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].at.After(rows[j].at)
	})
	n := ClampWindow(window)
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]boxscore.Game, n)
	for i := 0; i < n; i++ {
		out[i] = rows[i].game
	}
	return out
}

// Fold aggregates an already selected window. A game counts towards
// SampleGames only when it contributed a resolved record.
func Fold(games []boxscore.Game, opts Options, bucketOf GameBucketFunc) Summary {
	var s Summary
	ratio := opts.Metric.Kind() == boxscore.Ratio
	for i := range games {
		game := &games[i]
		gt := Accumulate(game.Players, opts.Metric, func(rec *boxscore.PlayerGameRecord) resolve.Resolution {
			return bucketOf(game, rec)
		}, opts.Trace)

		s.Records += gt.Participating
		s.Unresolved = append(s.Unresolved, gt.Unresolved...)
		s.Malformed += gt.Malformed
		if gt.Contributed() {
			s.SampleGames++
			s.Totals = s.Totals.Plus(gt.All)
			s.Starters = s.Starters.Plus(gt.Starters)
			s.Bench = s.Bench.Plus(gt.Bench)
		}
		if opts.Trace {
			report := GameReport{
				ID:            game.ID,
				Date:          game.Date,
				Opponent:      game.Opponent,
				Contributed:   gt.Contributed(),
				Participating: gt.Participating,
				Resolved:      gt.Resolved,
				Totals:        gt.All.Numerator,
				Records:       gt.Records,
			}
			if ratio {
				attempts := gt.All.Denominator
				report.Attempts = &attempts
			}
			s.Games = append(s.Games, report)
		}
	}
	return s
}

// PerGame turns totals into per-bucket averages. Counting metrics divide by
// sampleGames; ratio metrics are 100 * makes / attempts, with 0 for buckets
// without attempts.
func PerGame(t Totals, kind boxscore.MetricKind, sampleGames int) positions.Values {
	var out positions.Values
	for _, b := range positions.All {
		i := b.Index()
		switch kind {
		case boxscore.Ratio:
			if t.Denominator[i] > 0 {
				out[i] = 100 * t.Numerator[i] / t.Denominator[i]
			}
		default:
			if sampleGames > 0 {
				out[i] = t.Numerator[i] / float64(sampleGames)
			}
		}
	}
	return out
}
