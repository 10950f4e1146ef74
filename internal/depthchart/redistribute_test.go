package depthchart

import (
	"reflect"
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

func lists(pg, sg, sf, pf, c []string) [positions.Count][]string {
	return [positions.Count][]string{pg, sg, sf, pf, c}
}

func TestRedistributeMovesBenchIntoEmptyAdjacentBucket(t *testing.T) {
	in := lists([]string{"Starter PG", "Bench One", "Bench Two"}, nil, []string{"Wing"}, []string{"Big"}, []string{"Center"})
	out := Redistribute(in)

	if !reflect.DeepEqual(out[positions.PG.Index()], []string{"Starter PG", "Bench One"}) {
		t.Fatalf("unexpected PG list %v", out[positions.PG.Index()])
	}
	if !reflect.DeepEqual(out[positions.SG.Index()], []string{"Bench Two"}) {
		t.Fatalf("expected lowest bench player moved to SG, got %v", out[positions.SG.Index()])
	}
	if len(in[positions.PG.Index()]) != 3 {
		t.Fatalf("expected input untouched")
	}
}

func TestRedistributeTwoBenchNamesFillEmptyNeighbours(t *testing.T) {
	// Two bench entries in total; C is empty and adjacent to both PF and SF.
	in := lists([]string{"Guard A"}, []string{"Guard B"}, []string{"Wing A", "Wing B"}, []string{"Big A", "Big B"}, nil)
	out := Redistribute(in)

	for _, b := range positions.All {
		if len(out[b.Index()]) == 0 {
			t.Fatalf("expected no empty bucket after redistribution, got %v", out)
		}
	}
	if len(out[positions.SF.Index()])+len(out[positions.PF.Index()]) != 3 {
		t.Fatalf("expected exactly one forward moved, got %v", out)
	}
	if !reflect.DeepEqual(out[positions.C.Index()], []string{"Wing B"}) {
		t.Fatalf("expected SF bench moved to C first, got %v", out[positions.C.Index()])
	}
}

func TestRedistributeRespectsAdjacency(t *testing.T) {
	// Forward bench cannot move into an empty guard slot.
	in := lists(nil, []string{"Guard"}, []string{"Wing A", "Wing B"}, []string{"Big"}, []string{"Center"})
	out := Redistribute(in)
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("expected no move across groups, got %v", out)
	}
}

func TestRedistributeLeavesDeepBenchesAlone(t *testing.T) {
	in := lists(
		[]string{"PG1", "PG2", "PG3"},
		nil,
		[]string{"SF1", "SF2"},
		[]string{"PF1", "PF2"},
		[]string{"C1", "C2"},
	)
	out := Redistribute(in)
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("expected untouched chart with 5 bench entries, got %v", out)
	}
}

func TestRedistributeFallsBackToStarterOnlyNeighbour(t *testing.T) {
	in := lists([]string{"PG1", "PG2", "PG3"}, []string{"SG1"}, []string{"SF1"}, []string{"PF1"}, []string{"C1"})
	out := Redistribute(in)
	if !reflect.DeepEqual(out[positions.PG.Index()], []string{"PG1", "PG2"}) ||
		!reflect.DeepEqual(out[positions.SG.Index()], []string{"SG1", "PG3"}) {
		t.Fatalf("expected third guard to move to SG, got %v", out)
	}
}

func TestRedistributeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var in [positions.Count][]string
		id := 0
		for i := range in {
			n := rapid.IntRange(0, 3).Draw(t, "len")
			for j := 0; j < n; j++ {
				id++
				in[i] = append(in[i], string(rune('a'+id%26))+string(rune('a'+id/26)))
			}
		}
		out := Redistribute(in)

		var before, after []string
		bench := 0
		for i := range in {
			before = append(before, in[i]...)
			after = append(after, out[i]...)
			if len(in[i]) > 1 {
				bench += len(in[i]) - 1
			}
		}
		sort.Strings(before)
		sort.Strings(after)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("players lost or duplicated: %v -> %v", in, out)
		}
		for i := range out {
			if len(out[i]) > 0 && len(in[i]) > 0 && out[i][0] != in[i][0] {
				t.Fatalf("starter changed in bucket %d: %v -> %v", i, in, out)
			}
		}
		if bench > BenchThreshold {
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("deep bench should be untouched")
			}
			return
		}
		for _, b := range positions.All {
			if len(out[b.Index()]) < 2 {
				continue
			}
			for _, n := range adjacent[b] {
				if len(out[n.Index()]) == 0 {
					t.Fatalf("bucket %s crowded while neighbour %s empty: %v", b, n, out)
				}
			}
		}
	})
}
