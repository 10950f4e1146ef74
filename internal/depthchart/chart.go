// Package depthchart fetches, caches, and indexes team depth charts.
package depthchart

import (
	"sort"
	"strings"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/names"
)

// MaxPerBucket caps each bucket after de-duplication.
const MaxPerBucket = 5

// Chart is one team's starter-first player list per bucket. A nil *Chart is
// an empty chart.
type Chart struct {
	team    string
	players [positions.Count][]string
	index   map[string]positions.Bucket
}

// NewChart de-duplicates each bucket by canonical name, caps it at
// MaxPerBucket, then applies bench redistribution.
func NewChart(team string, raw map[positions.Bucket][]string) *Chart {
	var lists [positions.Count][]string
	for _, b := range positions.All {
		lists[b.Index()] = dedupe(raw[b])
	}
	c := &Chart{
		team:    strings.ToUpper(team),
		players: Redistribute(lists),
	}
	c.index = buildIndex(c.players)
	return c
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		name = strings.TrimSpace(name)
		key := names.Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == MaxPerBucket {
			break
		}
	}
	return out
}

// buildIndex keeps the first bucket a key appears in, scanning PG..C and
// starter-first within each bucket.
func buildIndex(players [positions.Count][]string) map[string]positions.Bucket {
	index := make(map[string]positions.Bucket)
	for _, b := range positions.All {
		for _, name := range players[b.Index()] {
			key := names.Normalize(name)
			if _, ok := index[key]; !ok {
				index[key] = b
			}
		}
	}
	return index
}

// Team returns the team abbreviation.
func (c *Chart) Team() string {
	if c == nil {
		return ""
	}
	return c.team
}

// Players returns a copy of the bucket's starter-first list.
func (c *Chart) Players(b positions.Bucket) []string {
	if c == nil || !b.Valid() {
		return nil
	}
	return append([]string(nil), c.players[b.Index()]...)
}

// Lookup returns the bucket for a canonical name key.
func (c *Chart) Lookup(key string) (positions.Bucket, bool) {
	if c == nil || key == "" {
		return 0, false
	}
	b, ok := c.index[key]
	return b, ok
}

// Keys returns every distinct canonical key on the chart, sorted.
func (c *Chart) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.index))
	for k := range c.index {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct players.
func (c *Chart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.index)
}

// Empty reports whether the chart lists nobody.
func (c *Chart) Empty() bool {
	return c.Len() == 0
}

// Map renders the chart keyed by bucket label.
func (c *Chart) Map() map[string][]string {
	out := make(map[string][]string, positions.Count)
	for _, b := range positions.All {
		out[b.String()] = c.Players(b)
		if out[b.String()] == nil {
			out[b.String()] = []string{}
		}
	}
	return out
}
