package config

import "strings"

// Config holds runtime configuration for the server and the CLI.
type Config struct {
	Port       string
	LogLevel   string
	LogFormat  string
	AdminToken string
	Snapshots  SnapshotConfig
	Aliases    AliasConfig
	DepthChart DepthChartConfig
	Cache      CacheConfig
	DvP        DvPConfig
	Warmer     WarmerConfig
	Metrics    MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		LogLevel:   envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:  envOrDefault(envLogFormat, defaultLogFormat),
		AdminToken: strings.TrimSpace(envOrDefault(envAdminToken, "")),
		Snapshots:  loadSnapshots(),
		Aliases:    loadAliases(),
		DepthChart: loadDepthChart(),
		Cache:      loadCache(),
		DvP:        loadDvP(),
		Warmer:     loadWarmer(),
		Metrics:    loadMetrics(),
	}
}
