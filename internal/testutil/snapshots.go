package testutil

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/snapshots"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir())
}

// WriteTeamSeason writes snap through w.
func WriteTeamSeason(t *testing.T, w *snapshots.Writer, snap boxscore.TeamSeason) {
	t.Helper()
	if err := writeSnapshotPayload(w, snap); err != nil {
		t.Fatalf("failed to write snapshot %s %s: %v", snap.Team, snap.Season, err)
	}
}

func writeSnapshotPayload(w *snapshots.Writer, snap boxscore.TeamSeason) error {
	if w == nil {
		return errors.New("nil writer")
	}
	return w.WriteTeamSeason(snap)
}

// SnapshotPath returns the expected file path for a team-season snapshot.
func SnapshotPath(w *snapshots.Writer, season, team string) string {
	return snapshots.TeamSeasonPath(w.BasePath(), season, team)
}
