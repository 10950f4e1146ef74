package config

// SnapshotConfig locates the team-season snapshot store.
type SnapshotConfig struct {
	Dir     string
	Timeout Duration // per-read timeout
}

// AliasConfig locates the alias and override files.
type AliasConfig struct {
	Dir string
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Dir:     envOrDefault(envSnapshotDir, defaultSnapshotDir),
		Timeout: durationEnvOrDefault(envSnapshotTimeout, defaultSnapshotTimeout),
	}
}

func loadAliases() AliasConfig {
	return AliasConfig{
		Dir: envOrDefault(envAliasDir, defaultAliasDir),
	}
}
