package depthchart

import "github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"

// BenchThreshold is the largest total bench size that still gets redistributed.
// Deeper benches double up positions legitimately and are left alone.
const BenchThreshold = 4

// adjacent lists the valid reassignment targets for each bucket, nearest first.
// Guards swap with guards; forwards and the center form one group.
var adjacent = map[positions.Bucket][]positions.Bucket{
	positions.PG: {positions.SG},
	positions.SG: {positions.PG},
	positions.SF: {positions.PF, positions.C},
	positions.PF: {positions.SF, positions.C},
	positions.C:  {positions.PF, positions.SF},
}

// Redistribute moves bench players out of crowded buckets when the whole chart
// carries at most BenchThreshold bench entries. The first entry of each list is
// the starter; the rest are bench, best first.
//
// A move takes the lowest-ranked bench player of a bucket and appends it to an
// adjacent bucket: an empty neighbour is always preferred, and a neighbour
// holding only its starter is used when the source has two or more bench
// players. Every move lowers the sum of squared list lengths, so the pass
// terminates. Input lists are not modified.
func Redistribute(lists [positions.Count][]string) [positions.Count][]string {
	var out [positions.Count][]string
	bench := 0
	for i := range lists {
		out[i] = append([]string(nil), lists[i]...)
		if n := len(lists[i]); n > 1 {
			bench += n - 1
		}
	}
	if bench == 0 || bench > BenchThreshold {
		return out
	}
	for {
		from, to, ok := nextMove(out)
		if !ok {
			return out
		}
		src := out[from]
		player := src[len(src)-1]
		out[from] = src[:len(src)-1]
		out[to] = append(out[to], player)
	}
}

func nextMove(lists [positions.Count][]string) (from, to int, ok bool) {
	for _, b := range positions.All {
		i := b.Index()
		if len(lists[i]) < 2 {
			continue
		}
		for _, n := range adjacent[b] {
			if len(lists[n.Index()]) == 0 {
				return i, n.Index(), true
			}
		}
	}
	for _, b := range positions.All {
		i := b.Index()
		if len(lists[i]) < 3 {
			continue
		}
		for _, n := range adjacent[b] {
			if len(lists[n.Index()]) == 1 {
				return i, n.Index(), true
			}
		}
	}
	return 0, 0, false
}
