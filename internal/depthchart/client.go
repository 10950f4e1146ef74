package depthchart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-dvp-service/internal/domain/positions"
)

// ProviderName labels the HTTP client in logs and metrics.
const ProviderName = "depth-chart"

// Config controls how the client reaches the depth chart API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches depth charts from GET {base}/api/depth-chart?team=ABBR.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
	}
}

type depthChartResponse struct {
	DepthChart map[string][]playerEntry `json:"depthChart"`
}

// playerEntry accepts either a bare name or an object with a name field.
type playerEntry struct {
	Name string
}

func (p *playerEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
	}
	p.Name = obj.Name
	return nil
}

// DepthChart fetches and normalizes one team's chart.
func (c *Client) DepthChart(ctx context.Context, team string) (*Chart, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+depthChartPath, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("team", team)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d for %s: %s", ErrUnexpectedStatus, resp.StatusCode, team, strings.TrimSpace(string(body)))
	}

	var payload depthChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("depth chart: decode %s: %w", team, err)
	}
	return NewChart(team, mapPayload(payload)), nil
}

func mapPayload(payload depthChartResponse) map[positions.Bucket][]string {
	out := make(map[positions.Bucket][]string, positions.Count)
	for label, entries := range payload.DepthChart {
		b, ok := positions.Parse(label)
		if !ok {
			continue
		}
		for _, e := range entries {
			if e.Name != "" {
				out[b] = append(out[b], e.Name)
			}
		}
	}
	return out
}
