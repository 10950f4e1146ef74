// Package aggregate folds player-game records into per-bucket DvP totals.
package aggregate

import (
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/resolve"
)

// MinutesEpsilon is the playing time below which a record did not participate.
const MinutesEpsilon = 0.01

// Totals is one set of per-bucket accumulators. Denominator stays zero for
// counting metrics.
type Totals struct {
	Numerator   positions.Values
	Denominator positions.Values
}

func (t *Totals) add(b positions.Bucket, num, den float64) {
	t.Numerator.Add(b, num)
	t.Denominator.Add(b, den)
}

// Plus returns the element-wise sum.
func (t Totals) Plus(o Totals) Totals {
	return Totals{Numerator: t.Numerator.Plus(o.Numerator), Denominator: t.Denominator.Plus(o.Denominator)}
}

// RecordOutcome describes what happened to one record.
type RecordOutcome struct {
	Name     string           `json:"name"`
	Minutes  float64          `json:"minutes"`
	Bucket   positions.Bucket `json:"bucket,omitempty"`
	Source   resolve.Source   `json:"source,omitempty"`
	Value    float64          `json:"value"`
	Attempts float64          `json:"attempts,omitempty"`
	Starter  *bool            `json:"starter,omitempty"`
	Excluded string           `json:"excluded,omitempty"`
}

// Exclusion reasons.
const (
	ExcludedDidNotPlay = "did_not_play"
	ExcludedMalformed  = "malformed"
	ExcludedUnresolved = "unresolved"
)

// GameTotals is the per-game fold of one game's records.
type GameTotals struct {
	All      Totals
	Starters Totals
	Bench    Totals

	Participating int
	Resolved      int
	Unresolved    []string
	Malformed     int
	Records       []RecordOutcome
}

// Contributed reports whether at least one resolved record was folded in.
func (g GameTotals) Contributed() bool {
	return g.Resolved > 0
}

// BucketFunc resolves one record.
type BucketFunc func(rec *boxscore.PlayerGameRecord) resolve.Resolution

// Accumulate folds records for metric. Records with unparseable minutes or no
// name are skipped as malformed, records under MinutesEpsilon minutes are
// skipped as non-participants, and records bucketOf cannot place are tallied
// as unresolved. Counting metrics add the raw stat; ratio metrics add makes
// and attempts separately. A record whose starter flag is unset only counts in
// the All view. When keepRecords is set every outcome is kept for tracing.
func Accumulate(records []boxscore.PlayerGameRecord, metric boxscore.Metric, bucketOf BucketFunc, keepRecords bool) GameTotals {
	var out GameTotals
	for i := range records {
		rec := &records[i]
		outcome := RecordOutcome{Name: rec.Name, Starter: rec.Starter}

		minutes, err := rec.Minutes.Value()
		switch {
		case err != nil:
			outcome.Excluded = ExcludedMalformed
			out.Malformed++
		case minutes < MinutesEpsilon:
			outcome.Minutes = minutes
			outcome.Excluded = ExcludedDidNotPlay
		case rec.Name == "":
			outcome.Minutes = minutes
			outcome.Excluded = ExcludedMalformed
			out.Malformed++
		default:
			outcome.Minutes = minutes
			out.Participating++
			res := bucketOf(rec)
			if !res.OK() {
				outcome.Excluded = ExcludedUnresolved
				out.Unresolved = append(out.Unresolved, rec.Name)
				break
			}
			num, den := metric.Extract(*rec)
			outcome.Bucket, outcome.Source = res.Bucket, res.Source
			outcome.Value, outcome.Attempts = num, den
			out.Resolved++
			out.All.add(res.Bucket, num, den)
			if rec.Starter != nil {
				if *rec.Starter {
					out.Starters.add(res.Bucket, num, den)
				} else {
					out.Bench.add(res.Bucket, num, den)
				}
			}
		}
		if keepRecords {
			out.Records = append(out.Records, outcome)
		}
	}
	return out
}
