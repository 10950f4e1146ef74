package server

import (
	"github.com/preston-bernstein/nba-dvp-service/internal/aliases"
	"github.com/preston-bernstein/nba-dvp-service/internal/config"
	"github.com/preston-bernstein/nba-dvp-service/internal/snapshots"
)

type dataComponents struct {
	store   snapshots.Store
	aliases aliases.Provider
}

func buildSnapshots(cfg config.Config) dataComponents {
	return dataComponents{
		store:   snapshots.NewFSStore(cfg.Snapshots.Dir),
		aliases: aliases.NewFileProvider(cfg.Aliases.Dir),
	}
}
