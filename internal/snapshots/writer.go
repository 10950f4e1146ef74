package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
)

// Writer persists team-season snapshots and keeps the manifest current.
type Writer struct {
	basePath string
	now      func() time.Time
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath, now: time.Now}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteTeamSeason writes the snapshot atomically. Games are stored in date
// order with id as the tie-breaker so identical content produces identical
// bytes; an unchanged file is left untouched and keeps its modification time.
func (w *Writer) WriteTeamSeason(snapshot boxscore.TeamSeason) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	snapshot.Team = strings.ToUpper(strings.TrimSpace(snapshot.Team))
	snapshot.Season = strings.TrimSpace(snapshot.Season)
	if snapshot.Team == "" || snapshot.Season == "" {
		return fmt.Errorf("snapshot team and season required")
	}
	games := append([]boxscore.Game(nil), snapshot.Games...)
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Date != games[j].Date {
			return games[i].Date < games[j].Date
		}
		return games[i].ID < games[j].ID
	})
	snapshot.Games = games

	target := TeamSeasonPath(w.basePath, snapshot.Season, snapshot.Team)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(snapshot.Season)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(snapshot.Season)
}

func (w *Writer) updateManifest(season string) error {
	m, _ := ReadManifest(w.basePath)
	teams, err := w.listTeams(season)
	if err != nil {
		return err
	}
	m.Seasons[season] = SeasonMeta{
		Teams:         teams,
		LastRefreshed: w.now().UTC(),
	}
	return writeManifest(w.basePath, m)
}

func (w *Writer) listTeams(season string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, season))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	teams := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		teams = append(teams, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(teams)
	return teams, nil
}
