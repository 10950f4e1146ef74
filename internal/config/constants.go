package config

import "time"

const (
	envPort               = "PORT"
	envLogLevel           = "LOG_LEVEL"
	envLogFormat          = "LOG_FORMAT"
	envMetricsPort        = "METRICS_PORT"
	envMetricsOn          = "METRICS_ENABLED"
	envOtelEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService        = "OTEL_SERVICE_NAME"
	envOtelInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken         = "ADMIN_TOKEN"
	envSnapshotDir        = "SNAPSHOT_DIR"
	envSnapshotTimeout    = "SNAPSHOT_TIMEOUT"
	envAliasDir           = "ALIAS_DIR"
	envDepthChartProvider = "DEPTH_CHART_PROVIDER"
	envDepthChartBaseURL  = "DEPTH_CHART_BASE_URL"
	envDepthChartTimeout  = "DEPTH_CHART_TIMEOUT"
	envDepthChartTTL      = "DEPTH_CHART_TTL"
	envDepthChartRetries  = "DEPTH_CHART_RETRIES"
	envDepthChartPacing   = "DEPTH_CHART_MIN_INTERVAL"
	envCacheBackend       = "CACHE_BACKEND"
	envCacheSQLitePath    = "CACHE_SQLITE_PATH"
	envCacheTTL           = "CACHE_TTL"
	envCacheRecentWindow  = "CACHE_RECENT_WINDOW"
	envDefaultGames       = "DVP_DEFAULT_GAMES"
	envMaxGames           = "DVP_MAX_GAMES"
	envSeasonFallback     = "DVP_PREVIOUS_SEASON_FALLBACK"
	envHeuristicFallback  = "DVP_HEURISTIC_FALLBACK"
	envWarmerEnabled      = "WARMER_ENABLED"
	envWarmerInterval     = "WARMER_INTERVAL"

	defaultPort        = "4000"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMetricsPort = "9090"
	defaultServiceName = "nba-dvp-service"

	defaultSnapshotDir     = "data/snapshots"
	defaultSnapshotTimeout = 5 * Duration(time.Second)
	defaultAliasDir        = "data/aliases"

	DepthChartProviderHTTP    = "http"
	DepthChartProviderFixture = "fixture"

	defaultDepthChartProvider = DepthChartProviderHTTP
	defaultDepthChartBaseURL  = "http://localhost:3000"
	defaultDepthChartTimeout  = 10 * Duration(time.Second)
	defaultDepthChartTTL      = 6 * Duration(time.Hour)
	defaultDepthChartRetries  = 2
	defaultDepthChartPacing   = Duration(0)

	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"

	defaultCacheBackend      = CacheBackendMemory
	defaultCacheSQLitePath   = "data/dvp-cache.db"
	defaultCacheTTL          = 120 * Duration(time.Minute)
	defaultCacheRecentWindow = 2 * Duration(time.Hour)

	defaultGames             = 20
	defaultMaxGames          = 82
	defaultSeasonFallback    = true
	defaultHeuristicFallback = false
	defaultWarmerEnabled     = false
	defaultWarmerInterval    = 30 * Duration(time.Minute)
)
