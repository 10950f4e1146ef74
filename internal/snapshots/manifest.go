package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest tracks which team-season snapshots exist.
type Manifest struct {
	Version     int                   `json:"version"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Seasons     map[string]SeasonMeta `json:"seasons"`
}

// SeasonMeta lists the teams with a snapshot for one season.
type SeasonMeta struct {
	Teams         []string  `json:"teams"`
	LastRefreshed time.Time `json:"lastRefreshed"`
}

func defaultManifest() Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Seasons:     map[string]SeasonMeta{},
	}
}

// ReadManifest loads {basePath}/manifest.json. A missing or corrupt manifest
// yields an empty one alongside the error.
func ReadManifest(basePath string) (Manifest, error) {
	return readManifest(filepath.Join(basePath, "manifest.json"))
}

func readManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(), err
	}
	if m.Seasons == nil {
		m.Seasons = map[string]SeasonMeta{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	path := filepath.Join(basePath, "manifest.json")
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
