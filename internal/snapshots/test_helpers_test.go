package snapshots

import (
	"testing"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
)

func sampleSeason(team, season string) boxscore.TeamSeason {
	return boxscore.TeamSeason{
		Team:   team,
		Season: season,
		Games: []boxscore.Game{
			{ID: "g2", Date: "2025-10-24", Opponent: "BOS", Players: []boxscore.PlayerGameRecord{
				{Name: "Jrue Holiday", Minutes: boxscore.MinutesOf("34:12"), Points: 18, Position: "PG"},
			}},
			{ID: "g1", Date: "2025-10-22", Opponent: "DEN", Players: []boxscore.PlayerGameRecord{
				{Name: "Nikola Jokic", Minutes: boxscore.MinutesOf("36:00"), Points: 31},
			}},
		},
	}
}

func writeSeason(t *testing.T, w *Writer, snap boxscore.TeamSeason) {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for %s %s", snap.Team, snap.Season)
	}
	if err := w.WriteTeamSeason(snap); err != nil {
		t.Fatalf("failed to write snapshot %s %s: %v", snap.Team, snap.Season, err)
	}
}

func assertStringsEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
