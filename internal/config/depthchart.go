package config

import "strings"

// DepthChartConfig controls how depth charts are fetched and cached.
type DepthChartConfig struct {
	Provider string
	BaseURL  string
	Timeout  Duration
	TTL      Duration
	// Retries is the number of extra attempts after the first.
	Retries int
	// MinInterval spaces upstream calls; zero disables pacing.
	MinInterval Duration
}

func loadDepthChart() DepthChartConfig {
	provider := strings.ToLower(envOrDefault(envDepthChartProvider, defaultDepthChartProvider))
	if provider != DepthChartProviderFixture {
		provider = DepthChartProviderHTTP
	}
	return DepthChartConfig{
		Provider:    provider,
		BaseURL:     envOrDefault(envDepthChartBaseURL, defaultDepthChartBaseURL),
		Timeout:     durationEnvOrDefault(envDepthChartTimeout, defaultDepthChartTimeout),
		TTL:         durationEnvOrDefault(envDepthChartTTL, defaultDepthChartTTL),
		Retries:     nonNegativeIntEnvOrDefault(envDepthChartRetries, defaultDepthChartRetries),
		MinInterval: durationEnvOrDefault(envDepthChartPacing, defaultDepthChartPacing),
	}
}
