package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-dvp-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-dvp-service/internal/snapshots"
)

func newImportCmd(stores *storeFlags) *cobra.Command {
	var (
		team   string
		season string
	)

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Write a team-season snapshot into the snapshot store",
		Long: `Read a team-season snapshot ({"team", "season", "games": [...]}) from a JSON
file and write it atomically into the snapshot store. --team and --season
override the values in the file.

	Examples:
	  dvp import mil-2025.json
	  dvp import games.json --team MIL --season 2025 --snapshot-dir ./data/snapshots`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			var snap boxscore.TeamSeason
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			if team != "" {
				snap.Team = team
			}
			if season != "" {
				snap.Season = season
			}

			t, ok := teams.Lookup(snap.Team)
			if !ok {
				return fmt.Errorf("unknown team %q", snap.Team)
			}
			snap.Team = t.Abbreviation
			year, err := teams.ParseSeason(snap.Season)
			if err != nil {
				return err
			}
			snap.Season = teams.SeasonLabel(year)

			cfg := config.Load()
			stores.apply(&cfg)
			writer := snapshots.NewWriter(cfg.Snapshots.Dir)
			if err := writer.WriteTeamSeason(snap); err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{
				"team":     snap.Team,
				"teamName": t.FullName(),
				"season":   snap.Season,
				"games":    len(snap.Games),
				"path":     snapshots.TeamSeasonPath(writer.BasePath(), snap.Season, snap.Team),
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "override the team (abbreviation or league id)")
	cmd.Flags().StringVar(&season, "season", "", "override the season")
	return cmd
}
