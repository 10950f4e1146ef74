package snapshots

import (
	"path/filepath"
	"strings"
)

// TeamSeasonPath builds the path to a team-season snapshot:
// {basePath}/{season}/{TEAM}.json.
func TeamSeasonPath(basePath, season, team string) string {
	return filepath.Join(basePath, season, strings.ToUpper(team)+".json")
}
