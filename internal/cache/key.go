// Package cache coordinates cached DvP results with snapshot-driven
// invalidation.
package cache

import (
	"fmt"
	"strings"
)

// keyVersion is bumped whenever the cached payload shape changes.
const keyVersion = "v1"

// Key identifies one cached aggregation.
type Key struct {
	Team   string
	Season string
	Metric string
	Window int
	Split  bool
}

// String renders the storage key, e.g. "dvp:v1:MIL:2025-26:pts:20:all".
func (k Key) String() string {
	split := "all"
	if k.Split {
		split = "split"
	}
	return fmt.Sprintf("dvp:%s:%s:%s:%s:%d:%s",
		keyVersion, strings.ToUpper(k.Team), k.Season, strings.ToLower(k.Metric), k.Window, split)
}
