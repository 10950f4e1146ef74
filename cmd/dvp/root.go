package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/dvp"
	"github.com/preston-bernstein/nba-dvp-service/internal/logging"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
	"github.com/preston-bernstein/nba-dvp-service/internal/server"
)

// storeFlags override the snapshot and alias locations from the environment.
type storeFlags struct {
	snapshotDir string
	aliasDir    string
}

func (f storeFlags) apply(cfg *config.Config) {
	if f.snapshotDir != "" {
		cfg.Snapshots.Dir = f.snapshotDir
	}
	if f.aliasDir != "" {
		cfg.Aliases.Dir = f.aliasDir
	}
}

type queryFlags struct {
	team       string
	season     string
	metric     string
	games      int
	split      bool
	trace      bool
	debug      bool
	refresh    bool
	depthChart string
	cache      string
	fallback   bool
	heuristic  bool
}

func newRootCmd() *cobra.Command {
	var (
		stores storeFlags
		q      queryFlags
	)

	root := &cobra.Command{
		Use:   "dvp",
		Short: "Aggregate what a team allows, split by opponent position",
		Long: `Compute a Defense-vs-Position breakdown for one team over its most recent
games and print the Aggregation Result as JSON.

Configuration is read from the same environment variables as the server;
flags override them.

	Examples:
	  dvp --team MIL --season 2025 --games 20 --metric pts
	  dvp --team BOS --metric fg3_pct --split --debug
	  dvp --team MIL --depth-chart fixture --snapshot-dir ./data/snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.team == "" {
				return errors.New("--team is required")
			}
			cfg := config.Load()
			stores.apply(&cfg)
			if q.depthChart != "" {
				cfg.DepthChart.Provider = q.depthChart
			}
			if q.cache != "" {
				cfg.Cache.Backend = q.cache
			}
			if cmd.Flags().Changed("fallback") {
				cfg.DvP.PreviousSeasonFallback = q.fallback
			}
			if cmd.Flags().Changed("heuristic") {
				cfg.DvP.HeuristicFallback = q.heuristic
			}

			logger := logging.NewLogger(logging.Config{
				Level:   cfg.LogLevel,
				Format:  cfg.LogFormat,
				Service: "dvp",
				Output:  cmd.ErrOrStderr(),
			})
			parts := server.BuildComponents(cmd.Context(), cfg, logger, metrics.NewRecorder(), nil)
			defer func() {
				if err := parts.Close(); err != nil {
					logging.Warn(logger, "result cache close failed", logging.FieldError, err)
				}
			}()

			resp, err := parts.Service.Aggregate(cmd.Context(), dvp.Query{
				Team:    q.team,
				Season:  q.season,
				Metric:  q.metric,
				Games:   q.games,
				Split:   q.split,
				Trace:   q.trace,
				Debug:   q.debug,
				Refresh: q.refresh,
			})
			if err != nil {
				return err
			}
			logging.Info(logger, "dvp complete", logging.FieldCache, string(resp.Cache))
			return writeJSON(cmd, resp.Result)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&q.team, "team", "t", "", "team abbreviation (required)")
	flags.StringVarP(&q.season, "season", "s", "", "season start year or label, e.g. 2025 or 2025-26 (default: current)")
	flags.StringVarP(&q.metric, "metric", "m", "", "stat to aggregate (default: pts)")
	flags.IntVarP(&q.games, "games", "g", 0, "number of most recent games (default: DVP_DEFAULT_GAMES)")
	flags.BoolVar(&q.split, "split", false, "include starter and bench splits")
	flags.BoolVar(&q.trace, "trace", false, "include per-game, per-player trace")
	flags.BoolVar(&q.debug, "debug", false, "include data-quality diagnostics")
	flags.BoolVar(&q.refresh, "refresh", false, "recompute even when a cached result is valid")
	flags.StringVar(&q.depthChart, "depth-chart", "", "depth chart provider: http or fixture")
	flags.StringVar(&q.cache, "cache", "", "result cache backend: memory or sqlite")
	flags.BoolVar(&q.fallback, "fallback", true, "fall back to the previous season when no game contributed")
	flags.BoolVar(&q.heuristic, "heuristic", false, "enable the start-position heuristic tier")

	root.PersistentFlags().StringVar(&stores.snapshotDir, "snapshot-dir", "", "snapshot store root (default: SNAPSHOT_DIR)")
	root.PersistentFlags().StringVar(&stores.aliasDir, "alias-dir", "", "alias table root (default: ALIAS_DIR)")

	root.AddCommand(newImportCmd(&stores))
	return root
}

func writeJSON(cmd *cobra.Command, payload any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
