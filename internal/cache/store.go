package cache

import (
	"context"
	"time"
)

// Entry is one cached payload. Entries are replaced wholesale, never patched.
type Entry struct {
	Key           string
	Team          string
	Payload       []byte
	StoredAt      time.Time
	TTL           time.Duration
	SourceModTime time.Time
}

// Store persists entries.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, entry Entry) error
	DeleteTeam(ctx context.Context, team string) error
	Close() error
}
