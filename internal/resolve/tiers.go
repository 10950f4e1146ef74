package resolve

import (
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/names"
)

// StoredTier uses the bucket recorded at ingestion time for that game.
func StoredTier() Tier {
	return Tier{Source: SourceStored, Resolve: func(in Input, _ *Context) (positions.Bucket, bool) {
		return in.Record.StoredBucket()
	}}
}

// OverrideTier consults the alias and override table.
func OverrideTier() Tier {
	return Tier{Source: SourceOverride, Resolve: func(in Input, c *Context) (positions.Bucket, bool) {
		return c.Overrides.Override(in.Key)
	}}
}

// DepthChartTier looks the key up on the opponent's depth chart, then its alias.
func DepthChartTier() Tier {
	return Tier{Source: SourceDepthChart, Resolve: func(in Input, c *Context) (positions.Bucket, bool) {
		if b, ok := c.Chart.Lookup(in.Key); ok {
			return b, true
		}
		if alias, ok := c.Overrides.Alias(in.Key); ok {
			return c.Chart.Lookup(alias)
		}
		return 0, false
	}}
}

// LastNameTier accepts a match only when exactly one distinct name across the
// depth chart and the override table shares the record's last token. A shared
// surname resolves nothing.
func LastNameTier() Tier {
	return Tier{Source: SourceLastName, Resolve: func(in Input, c *Context) (positions.Bucket, bool) {
		last := names.LastToken(in.Key)
		if last == "" {
			return 0, false
		}
		candidates := c.lastNameIndex()[last]
		if len(candidates) != 1 {
			return 0, false
		}
		if b, ok := c.Chart.Lookup(candidates[0]); ok {
			return b, true
		}
		return c.Overrides.Override(candidates[0])
	}}
}

// HeuristicTier maps the box-score start slot to a bucket using the line's
// own stats: guards with 5+ assists are PG, forwards with 8+ rebounds or 2+
// blocks are PF. Records without a start slot stay unresolved.
func HeuristicTier() Tier {
	return Tier{Source: SourceHeuristic, Resolve: func(in Input, _ *Context) (positions.Bucket, bool) {
		r := in.Record
		switch strings.ToUpper(strings.TrimSpace(r.StartPosition)) {
		case "G":
			if r.Assists >= 5 {
				return positions.PG, true
			}
			return positions.SG, true
		case "F":
			if r.Rebounds >= 8 || r.Blocks >= 2 {
				return positions.PF, true
			}
			return positions.SF, true
		case "C":
			return positions.C, true
		default:
			return 0, false
		}
	}}
}

func (c *Context) lastNameIndex() map[string][]string {
	if c.lastNames != nil {
		return c.lastNames
	}
	index := make(map[string][]string)
	seen := make(map[string]struct{})
	add := func(key string) {
		if _, ok := seen[key]; ok || key == "" {
			return
		}
		seen[key] = struct{}{}
		last := names.LastToken(key)
		index[last] = append(index[last], key)
	}
	for _, k := range c.Chart.Keys() {
		add(k)
	}
	for _, k := range c.Overrides.Keys() {
		add(k)
	}
	c.lastNames = index
	return index
}
