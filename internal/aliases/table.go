// Package aliases holds the name alias and fixed-position override tables.
package aliases

import (
	"errors"
	"fmt"
	"sort"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/names"
)

// File is the on-disk shape of one alias/override configuration file.
type File struct {
	Positions map[string]string `json:"positions" yaml:"positions"`
	Aliases   map[string]string `json:"aliases" yaml:"aliases"`
}

// Table maps canonical name keys to fixed buckets and to alias keys.
// A Table is immutable once built; the zero value and nil are empty tables.
type Table struct {
	positions map[string]positions.Bucket
	aliases   map[string]string
}

// NewTable merges files in order; later files win on key collisions.
// Keys and alias targets are normalized. Entries with an unknown bucket or an
// empty key are skipped and reported in the returned error, which never
// prevents the rest of the table from loading.
func NewTable(files ...File) (*Table, error) {
	t := &Table{
		positions: make(map[string]positions.Bucket),
		aliases:   make(map[string]string),
	}
	var errs []error
	for _, f := range files {
		for rawName, rawBucket := range f.Positions {
			key := names.Normalize(rawName)
			if key == "" {
				errs = append(errs, fmt.Errorf("aliases: empty position key %q", rawName))
				continue
			}
			b, ok := positions.Parse(rawBucket)
			if !ok {
				errs = append(errs, fmt.Errorf("aliases: unknown bucket %q for %q", rawBucket, rawName))
				continue
			}
			t.positions[key] = b
		}
		for rawFrom, rawTo := range f.Aliases {
			from, to := names.Normalize(rawFrom), names.Normalize(rawTo)
			if from == "" || to == "" || from == to {
				errs = append(errs, fmt.Errorf("aliases: invalid alias %q -> %q", rawFrom, rawTo))
				continue
			}
			t.aliases[from] = to
		}
	}
	return t, errors.Join(errs...)
}

// Override returns the fixed bucket for key. When key has no direct entry its
// alias target is tried once; a second redirect is never followed.
func (t *Table) Override(key string) (positions.Bucket, bool) {
	if t == nil || key == "" {
		return 0, false
	}
	if b, ok := t.positions[key]; ok {
		return b, true
	}
	if target, ok := t.aliases[key]; ok {
		if b, ok := t.positions[target]; ok {
			return b, true
		}
	}
	return 0, false
}

// Alias returns the single-hop alias target for key.
func (t *Table) Alias(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.aliases[key]
	return target, ok
}

// Keys returns every key with a fixed bucket, sorted.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.positions))
	for k := range t.positions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of position overrides and aliases.
func (t *Table) Len() (overrides, aliasCount int) {
	if t == nil {
		return 0, 0
	}
	return len(t.positions), len(t.aliases)
}
