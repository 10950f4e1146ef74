package boxscore

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownMetric is returned for metric names outside the catalogue.
var ErrUnknownMetric = errors.New("boxscore: unknown metric")

// MetricKind separates summed stats from makes/attempts stats.
type MetricKind int

const (
	Counting MetricKind = iota
	Ratio
)

// Metric names a statistic the DvP engine can aggregate.
type Metric string

const (
	MetricPoints         Metric = "pts"
	MetricRebounds       Metric = "reb"
	MetricAssists        Metric = "ast"
	MetricThreesMade     Metric = "fg3m"
	MetricThreesAttempts Metric = "fg3a"
	MetricFieldGoalsMade Metric = "fgm"
	MetricFieldGoalsAtt  Metric = "fga"
	MetricSteals         Metric = "stl"
	MetricBlocks         Metric = "blk"
	MetricFieldGoalPct   Metric = "fg_pct"
	MetricThreePointPct  Metric = "fg3_pct"
)

type metricDef struct {
	kind        MetricKind
	numerator   func(PlayerGameRecord) float64
	denominator func(PlayerGameRecord) float64
}

var catalogue = map[Metric]metricDef{
	MetricPoints:         {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.Points }},
	MetricRebounds:       {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.Rebounds }},
	MetricAssists:        {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.Assists }},
	MetricThreesMade:     {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.ThreesMade }},
	MetricThreesAttempts: {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.ThreesAttempted }},
	MetricFieldGoalsMade: {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.FieldGoalsMade }},
	MetricFieldGoalsAtt:  {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.FieldGoalsAttempted }},
	MetricSteals:         {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.Steals }},
	MetricBlocks:         {kind: Counting, numerator: func(r PlayerGameRecord) float64 { return r.Blocks }},
	MetricFieldGoalPct: {
		kind:        Ratio,
		numerator:   func(r PlayerGameRecord) float64 { return r.FieldGoalsMade },
		denominator: func(r PlayerGameRecord) float64 { return r.FieldGoalsAttempted },
	},
	MetricThreePointPct: {
		kind:        Ratio,
		numerator:   func(r PlayerGameRecord) float64 { return r.ThreesMade },
		denominator: func(r PlayerGameRecord) float64 { return r.ThreesAttempted },
	},
}

// ParseMetric validates a metric name (case-insensitive).
func ParseMetric(raw string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := catalogue[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, raw)
	}
	return m, nil
}

// Metrics lists every supported metric name, sorted.
func Metrics() []Metric {
	out := make([]Metric, 0, len(catalogue))
	for m := range catalogue {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether m is in the catalogue.
func (m Metric) Valid() bool {
	_, ok := catalogue[m]
	return ok
}

// Kind reports whether m is summed or computed as makes over attempts.
// Unknown metrics report Counting.
func (m Metric) Kind() MetricKind {
	return catalogue[m].kind
}

// Extract returns the record's contribution to m. For counting metrics the
// denominator is always 0.
func (m Metric) Extract(r PlayerGameRecord) (numerator, denominator float64) {
	def, ok := catalogue[m]
	if !ok {
		return 0, 0
	}
	numerator = def.numerator(r)
	if def.denominator != nil {
		denominator = def.denominator(r)
	}
	return numerator, denominator
}
