package config

// DvPConfig controls request defaults and optional fallbacks.
type DvPConfig struct {
	DefaultGames           int
	MaxGames               int
	PreviousSeasonFallback bool
	HeuristicFallback      bool
}

// WarmerConfig controls the depth chart pre-warm loop.
type WarmerConfig struct {
	Enabled  bool
	Interval Duration
}

func loadDvP() DvPConfig {
	maxGames := intEnvOrDefault(envMaxGames, defaultMaxGames)
	if maxGames > defaultMaxGames {
		maxGames = defaultMaxGames
	}
	games := intEnvOrDefault(envDefaultGames, defaultGames)
	if games > maxGames {
		games = maxGames
	}
	return DvPConfig{
		DefaultGames:           games,
		MaxGames:               maxGames,
		PreviousSeasonFallback: boolEnvOrDefault(envSeasonFallback, defaultSeasonFallback),
		HeuristicFallback:      boolEnvOrDefault(envHeuristicFallback, defaultHeuristicFallback),
	}
}

func loadWarmer() WarmerConfig {
	return WarmerConfig{
		Enabled:  boolEnvOrDefault(envWarmerEnabled, defaultWarmerEnabled),
		Interval: durationEnvOrDefault(envWarmerInterval, defaultWarmerInterval),
	}
}
