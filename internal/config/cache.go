package config

import "strings"

// CacheConfig selects the DvP result cache backend and its lifetimes.
type CacheConfig struct {
	Backend      string
	SQLitePath   string
	TTL          Duration
	RecentWindow Duration
}

func loadCache() CacheConfig {
	backend := strings.ToLower(envOrDefault(envCacheBackend, defaultCacheBackend))
	if backend != CacheBackendSQLite {
		backend = CacheBackendMemory
	}
	return CacheConfig{
		Backend:      backend,
		SQLitePath:   envOrDefault(envCacheSQLitePath, defaultCacheSQLitePath),
		TTL:          durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		RecentWindow: durationEnvOrDefault(envCacheRecentWindow, defaultCacheRecentWindow),
	}
}
