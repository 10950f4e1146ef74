// Package snapshots reads and writes per-team per-season game snapshots.
package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a team and season.
var ErrSnapshotNotFound = fmt.Errorf("snapshot not found: %w", os.ErrNotExist)

// Store defines how team-season snapshots are loaded.
type Store interface {
	// ModTime reports when the snapshot was last modified without decoding it.
	ModTime(ctx context.Context, team, season string) (time.Time, error)
	// LoadTeamSeason decodes the snapshot and returns it with its modification time.
	LoadTeamSeason(ctx context.Context, team, season string) (boxscore.TeamSeason, time.Time, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// BasePath exposes the store root.
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// ModTime stats {basePath}/{season}/{TEAM}.json.
func (s *FSStore) ModTime(ctx context.Context, team, season string) (time.Time, error) {
	path, err := s.path(team, season)
	if err != nil {
		return time.Time{}, err
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, wrapNotFound(err)
	}
	return info.ModTime(), nil
}

// LoadTeamSeason reads and decodes the snapshot. The read runs in its own
// goroutine so a context deadline bounds how long the caller waits.
func (s *FSStore) LoadTeamSeason(ctx context.Context, team, season string) (boxscore.TeamSeason, time.Time, error) {
	path, err := s.path(team, season)
	if err != nil {
		return boxscore.TeamSeason{}, time.Time{}, err
	}

	type result struct {
		snap    boxscore.TeamSeason
		modTime time.Time
		err     error
	}
	done := make(chan result, 1)
	go func() {
		var r result
		r.snap, r.modTime, r.err = s.load(path)
		done <- r
	}()

	select {
	case <-ctx.Done():
		return boxscore.TeamSeason{}, time.Time{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return boxscore.TeamSeason{}, time.Time{}, r.err
		}
		if r.snap.Team == "" {
			r.snap.Team = strings.ToUpper(team)
		}
		if r.snap.Season == "" {
			r.snap.Season = season
		}
		return r.snap, r.modTime, nil
	}
}

func (s *FSStore) path(team, season string) (string, error) {
	if s == nil {
		return "", errors.New("snapshot store not configured")
	}
	if strings.TrimSpace(team) == "" || strings.TrimSpace(season) == "" {
		return "", errors.New("snapshot team and season required")
	}
	return TeamSeasonPath(s.basePath, season, team), nil
}

func (s *FSStore) load(path string) (boxscore.TeamSeason, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return boxscore.TeamSeason{}, time.Time{}, wrapNotFound(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return boxscore.TeamSeason{}, time.Time{}, err
	}
	var payload boxscore.TeamSeason
	if err := json.NewDecoder(f).Decode(&payload); err != nil {
		return boxscore.TeamSeason{}, time.Time{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return payload, info.ModTime(), nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrSnapshotNotFound, err)
	}
	return err
}
