package depthchart

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider returns the depth chart for one team abbreviation.
type Provider interface {
	DepthChart(ctx context.Context, team string) (*Chart, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, team string) (*Chart, error)

// DepthChart calls f.
func (f ProviderFunc) DepthChart(ctx context.Context, team string) (*Chart, error) {
	return f(ctx, team)
}

// ErrProviderUnavailable is returned when no upstream provider is configured.
var ErrProviderUnavailable = errors.New("depth chart provider unavailable")

// ErrUnexpectedStatus wraps non-success upstream responses other than 429.
var ErrUnexpectedStatus = errors.New("depth chart: unexpected status")

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
