package boxscore

import (
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

// PlayerGameRecord is one opposing player's box-score line for one game.
// Records are produced by the ingestion adapter and are read-only here.
type PlayerGameRecord struct {
	Name     string  `json:"name"`
	PlayerID int     `json:"playerId,omitempty"`
	Minutes  Minutes `json:"min"`

	Points              float64 `json:"pts"`
	Rebounds            float64 `json:"reb"`
	Assists             float64 `json:"ast"`
	FieldGoalsMade      float64 `json:"fgm"`
	FieldGoalsAttempted float64 `json:"fga"`
	ThreesMade          float64 `json:"fg3m"`
	ThreesAttempted     float64 `json:"fg3a"`
	Steals              float64 `json:"stl"`
	Blocks              float64 `json:"blk"`

	// Position is the bucket stored at ingestion time, if any. Values outside
	// the five buckets are treated as absent.
	Position string `json:"position,omitempty"`
	// StartPosition is the raw box-score start slot (G, F, C or empty).
	StartPosition string `json:"startPosition,omitempty"`
	Starter       *bool  `json:"starter,omitempty"`
}

// StoredBucket returns the ingestion-time bucket when it is one of the five.
func (r PlayerGameRecord) StoredBucket() (positions.Bucket, bool) {
	return positions.Parse(r.Position)
}

// Game is one historical game of the snapshot team, carrying the box-score
// lines of the opposing players.
type Game struct {
	ID       string             `json:"id"`
	Date     string             `json:"date"`
	Opponent string             `json:"opponent"`
	Players  []PlayerGameRecord `json:"players"`
}

// TeamSeason is the per-team per-season snapshot payload.
type TeamSeason struct {
	Team   string `json:"team"`
	Season string `json:"season"`
	Games  []Game `json:"games"`
}
