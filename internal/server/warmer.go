package server

import (
	"context"

	"github.com/preston-bernstein/nba-dvp-service/internal/warmer"
)

// Warmer defines the minimal depth chart warmer behavior needed by the server.
type Warmer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() warmer.Status
}
