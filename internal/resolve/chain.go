// Package resolve assigns a position bucket to one player-game record by
// trying an ordered list of tiers.
package resolve

import (
	"github.com/preston-bernstein/nba-dvp-service/internal/aliases"
	"github.com/preston-bernstein/nba-dvp-service/internal/depthchart"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/names"
)

// Source names the tier that produced a bucket.
type Source string

const (
	SourceNone       Source = ""
	SourceStored     Source = "stored"
	SourceOverride   Source = "override"
	SourceDepthChart Source = "depth_chart"
	SourceLastName   Source = "last_name"
	SourceHeuristic  Source = "heuristic"
)

// Context carries the lookup tables shared by every record of one opponent in
// one request. It is not safe for concurrent use.
type Context struct {
	Overrides *aliases.Table
	Chart     *depthchart.Chart

	lastNames map[string][]string
}

// NewContext builds a resolution context. Either table may be nil.
func NewContext(overrides *aliases.Table, chart *depthchart.Chart) *Context {
	return &Context{Overrides: overrides, Chart: chart}
}

// Input is one record plus its canonical name key.
type Input struct {
	Record *boxscore.PlayerGameRecord
	Key    string
}

// Tier resolves a record to a bucket or reports a miss.
type Tier struct {
	Source  Source
	Resolve func(in Input, c *Context) (positions.Bucket, bool)
}

// Resolution is the outcome of running the chain on one record.
type Resolution struct {
	Bucket positions.Bucket
	Source Source
}

// OK reports whether some tier produced a bucket.
func (r Resolution) OK() bool {
	return r.Source != SourceNone && r.Bucket.Valid()
}

// Chain tries tiers in order and stops at the first hit.
type Chain struct {
	tiers []Tier
}

// NewChain returns a chain over the given tiers.
func NewChain(tiers ...Tier) *Chain {
	return &Chain{tiers: append([]Tier(nil), tiers...)}
}

// DefaultChain is stored bucket, override table, depth chart, then last-name
// uniqueness. With heuristic set, the start-position heuristic runs last.
func DefaultChain(heuristic bool) *Chain {
	tiers := []Tier{StoredTier(), OverrideTier(), DepthChartTier(), LastNameTier()}
	if heuristic {
		tiers = append(tiers, HeuristicTier())
	}
	return NewChain(tiers...)
}

// Sources lists the tiers in evaluation order.
func (ch *Chain) Sources() []Source {
	out := make([]Source, 0, len(ch.tiers))
	for _, t := range ch.tiers {
		out = append(out, t.Source)
	}
	return out
}

// Resolve runs the chain for rec. A nil context behaves like empty tables.
func (ch *Chain) Resolve(rec *boxscore.PlayerGameRecord, c *Context) Resolution {
	if rec == nil {
		return Resolution{}
	}
	if c == nil {
		c = &Context{}
	}
	in := Input{Record: rec, Key: names.Normalize(rec.Name)}
	for _, t := range ch.tiers {
		if b, ok := t.Resolve(in, c); ok && b.Valid() {
			return Resolution{Bucket: b, Source: t.Source}
		}
	}
	return Resolution{}
}
