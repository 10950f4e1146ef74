package depthchart

import (
	"testing"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

func TestNewChartDedupesAndCaps(t *testing.T) {
	chart := NewChart("mil", map[positions.Bucket][]string{
		positions.PG: {"Damian Lillard", "damian lillard", " ", "A One", "B Two", "C Three", "D Four", "E Five"},
		positions.SG: {"Gary Trent", "AJ Green"},
		positions.SF: {"Taurean Prince"},
		positions.PF: {"Giannis Antetokounmpo"},
		positions.C:  {"Brook Lopez"},
	})
	if chart.Team() != "MIL" {
		t.Fatalf("expected upper-cased team, got %s", chart.Team())
	}
	pg := chart.Players(positions.PG)
	if len(pg) != MaxPerBucket {
		t.Fatalf("expected %d players, got %d (%v)", MaxPerBucket, len(pg), pg)
	}
	if pg[0] != "Damian Lillard" || pg[1] != "A One" || pg[4] != "D Four" {
		t.Fatalf("expected starter-first de-duplicated order, got %v", pg)
	}
	if sg := chart.Players(positions.SG); len(sg) != 2 {
		t.Fatalf("expected deep bench left in place, got SG %v", sg)
	}
}

func TestNewChartRedistributesSparseBenchAfterCap(t *testing.T) {
	chart := NewChart("MIL", map[positions.Bucket][]string{
		positions.PG: {"Damian Lillard", "A One", "B Two", "C Three", "D Four"},
	})
	pg := chart.Players(positions.PG)
	sg := chart.Players(positions.SG)
	if len(pg)+len(sg) != MaxPerBucket {
		t.Fatalf("expected capped players kept across guards, got PG %v SG %v", pg, sg)
	}
	if pg[0] != "Damian Lillard" || len(sg) == 0 {
		t.Fatalf("expected starter kept and bench moved to empty SG, got PG %v SG %v", pg, sg)
	}
}

func TestChartIndexPrefersFirstOccurrence(t *testing.T) {
	chart := NewChart("BOS", map[positions.Bucket][]string{
		positions.PG: {"Jrue Holiday"},
		positions.SG: {"Derrick White", "Jrue Holiday"},
		positions.SF: {"Jaylen Brown"},
		positions.PF: {"Jayson Tatum"},
		positions.C:  {"Al Horford"},
	})
	if b, ok := chart.Lookup("jrue holiday"); !ok || b != positions.PG {
		t.Fatalf("expected PG, got %v %v", b, ok)
	}
	if _, ok := chart.Lookup("nobody here"); ok {
		t.Fatalf("expected miss")
	}
	if chart.Len() != 5 {
		t.Fatalf("expected 5 distinct players, got %d", chart.Len())
	}
}

func TestNilChartIsEmpty(t *testing.T) {
	var chart *Chart
	if !chart.Empty() || chart.Team() != "" || chart.Keys() != nil {
		t.Fatalf("expected nil chart to be empty")
	}
	if _, ok := chart.Lookup("x"); ok {
		t.Fatalf("expected nil chart lookup to miss")
	}
	m := chart.Map()
	if len(m) != positions.Count || len(m["PG"]) != 0 {
		t.Fatalf("expected five empty buckets, got %v", m)
	}
}

func TestPlayersReturnsCopy(t *testing.T) {
	chart := NewChart("DEN", map[positions.Bucket][]string{positions.C: {"Nikola Jokić"}})
	got := chart.Players(positions.C)
	got[0] = "mutated"
	if chart.Players(positions.C)[0] != "Nikola Jokić" {
		t.Fatalf("expected chart to be immutable")
	}
	if chart.Players(positions.Bucket(0)) != nil {
		t.Fatalf("expected invalid bucket to return nil")
	}
}
