package testutil

import (
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
)

// Bool returns a pointer to v, for starter flags.
func Bool(v bool) *bool {
	return &v
}

// SampleRecord returns a box-score line with points set and an optional stored position.
func SampleRecord(name, minutes, position string, points float64) boxscore.PlayerGameRecord {
	return boxscore.PlayerGameRecord{
		Name:     name,
		Minutes:  boxscore.MinutesOf(minutes),
		Points:   points,
		Position: position,
	}
}

// SampleGame returns a game against opponent carrying the given records.
func SampleGame(id, date, opponent string, records ...boxscore.PlayerGameRecord) boxscore.Game {
	return boxscore.Game{
		ID:       id,
		Date:     date,
		Opponent: opponent,
		Players:  records,
	}
}

// SampleTeamSeason wraps games in a team-season snapshot.
func SampleTeamSeason(team, season string, games ...boxscore.Game) boxscore.TeamSeason {
	return boxscore.TeamSeason{
		Team:   team,
		Season: season,
		Games:  games,
	}
}

// MilwaukeeSeason is a two-game MIL snapshot against BOS and DEN whose
// records exercise the stored, depth chart, and last-name tiers plus one
// unresolved and one did-not-play record. With the built-in fixture depth
// charts the points totals are PG 42, SG 10, C 30 over two sample games.
func MilwaukeeSeason(season string) boxscore.TeamSeason {
	return SampleTeamSeason("MIL", season,
		SampleGame("g1", "2025-10-22", "BOS",
			SampleRecord("Jrue Holiday", "30:00", "", 20),
			SampleRecord("Derrick White", "28:00", "SG", 10),
			SampleRecord("Unknown Guy", "10:00", "", 5),
			SampleRecord("Sam Hauser", "0:00", "", 0),
		),
		SampleGame("g2", "2025-10-24", "DEN",
			SampleRecord("Nikola Jokic", "36:00", "", 30),
			SampleRecord("J. Murray", "34:00", "", 22),
		),
	)
}
