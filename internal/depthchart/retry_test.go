package depthchart

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
	"github.com/preston-bernstein/nba-dvp-service/internal/metrics"
)

type flakeyProvider struct {
	failures int
	calls    int
}

func (f *flakeyProvider) DepthChart(ctx context.Context, team string) (*Chart, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("boom")
	}
	return NewChart(team, map[positions.Bucket][]string{positions.PG: {"Only Guard"}}), nil
}

type rateLimitThenSuccessProvider struct {
	calls int
}

func (f *rateLimitThenSuccessProvider) DepthChart(ctx context.Context, team string) (*Chart, error) {
	f.calls++
	if f.calls == 1 {
		return nil, &RateLimitError{Provider: "test", StatusCode: 429}
	}
	return NewChart(team, nil), nil
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fp := &flakeyProvider{failures: 2}
	rp := NewRetryingProvider(fp, slog.Default(), metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	chart, err := rp.DepthChart(context.Background(), "MIL")
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if chart.Len() != 1 {
		t.Fatalf("unexpected chart %+v", chart.Map())
	}
	if fp.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 2, time.Millisecond)

	if _, err := rp.DepthChart(context.Background(), "MIL"); err == nil {
		t.Fatal("expected error after retries")
	}
	if fp.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fp.calls)
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fp := &flakeyProvider{failures: 5}
	rp := NewRetryingProvider(fp, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rp.DepthChart(ctx, "MIL"); err == nil {
		t.Fatal("expected context error")
	}
	if fp.calls != 1 {
		t.Fatalf("expected a single attempt once canceled, got %d", fp.calls)
	}
}

func TestRetryingProviderRecordsRateLimitMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	rp := NewRetryingProvider(&rateLimitThenSuccessProvider{}, nil, rec, "rl", 2, time.Millisecond).(*retryingProvider)
	rp.backoffFn = func(attempt int) time.Duration {
		return 0
	}

	if _, err := rp.DepthChart(context.Background(), "BOS"); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if got := rec.RateLimitHits("rl"); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
	if got := rec.ProviderCalls("rl"); got != 2 {
		t.Fatalf("expected 2 provider calls, got %d", got)
	}
	if got := rec.ProviderErrors("rl"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestRetryingProviderDelaySelection(t *testing.T) {
	rp := NewRetryingProviderWithRNG(&flakeyProvider{}, nil, nil, "rl", rand.New(rand.NewSource(1)), 2, time.Millisecond).(*retryingProvider)
	rp.backoffFn = func(attempt int) time.Duration {
		return 50 * time.Millisecond
	}

	if delay := rp.computeDelay(&RateLimitError{RetryAfter: 3 * time.Second}, 1); delay != 3*time.Second {
		t.Fatalf("expected retry-after delay 3s, got %s", delay)
	}
	for i := 0; i < 20; i++ {
		delay := rp.computeDelay(errors.New("boom"), 1)
		if delay < 25*time.Millisecond || delay > 50*time.Millisecond {
			t.Fatalf("expected jittered delay between 25ms and 50ms, got %s", delay)
		}
	}
}

func TestNewRetryingProviderDefaults(t *testing.T) {
	rp := NewRetryingProviderWithRNG(nil, nil, metrics.NewRecorder(), "", nil, 0, 0).(*retryingProvider)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if rp.backoffFn(1) != defaultBackoff {
		t.Fatalf("expected default backoff")
	}
	if _, err := rp.DepthChart(context.Background(), "MIL"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
