package depthchart

import (
	"context"
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

// Fixture serves static charts, useful for local runs and tests. Teams it
// does not know get an empty chart.
type Fixture struct {
	charts map[string]map[positions.Bucket][]string
}

// NewFixture builds a fixture provider. A nil map selects the built-in charts.
func NewFixture(charts map[string]map[positions.Bucket][]string) *Fixture {
	if charts == nil {
		charts = defaultFixtureCharts()
	}
	normalized := make(map[string]map[positions.Bucket][]string, len(charts))
	for team, chart := range charts {
		normalized[strings.ToUpper(team)] = chart
	}
	return &Fixture{charts: normalized}
}

// DepthChart returns the static chart for team.
func (f *Fixture) DepthChart(ctx context.Context, team string) (*Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	team = strings.ToUpper(strings.TrimSpace(team))
	return NewChart(team, f.charts[team]), nil
}

func defaultFixtureCharts() map[string]map[positions.Bucket][]string {
	return map[string]map[positions.Bucket][]string{
		"BOS": {
			positions.PG: {"Jrue Holiday", "Payton Pritchard"},
			positions.SG: {"Derrick White"},
			positions.SF: {"Jaylen Brown", "Sam Hauser"},
			positions.PF: {"Jayson Tatum"},
			positions.C:  {"Kristaps Porziņģis", "Al Horford"},
		},
		"MIL": {
			positions.PG: {"Damian Lillard"},
			positions.SG: {"Gary Trent Jr.", "AJ Green"},
			positions.SF: {"Taurean Prince"},
			positions.PF: {"Giannis Antetokounmpo", "Bobby Portis"},
			positions.C:  {"Brook Lopez"},
		},
		"DEN": {
			positions.PG: {"Jamal Murray"},
			positions.SG: {"Christian Braun"},
			positions.SF: {"Michael Porter Jr."},
			positions.PF: {"Aaron Gordon"},
			positions.C:  {"Nikola Jokić"},
		},
	}
}
