package aliases

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider supplies the merged table for one team. Implementations re-read
// their source on every call so edits apply without a restart.
type Provider interface {
	Load(team string) (*Table, error)
}

var extensions = []string{".json", ".yaml", ".yml"}

// FileProvider reads {dir}/global.{json,yaml,yml} and {dir}/teams/{TEAM}.{json,yaml,yml}.
type FileProvider struct {
	dir string
}

// NewFileProvider constructs a provider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// Load merges the global file with the team file. Missing files are not an
// error. A corrupt file is skipped and reported; the returned table is always
// usable.
func (p *FileProvider) Load(team string) (*Table, error) {
	if p == nil || p.dir == "" {
		return NewTable()
	}
	var (
		files []File
		errs  []error
	)
	if f, ok, err := readFirst(filepath.Join(p.dir, "global")); err != nil {
		errs = append(errs, err)
	} else if ok {
		files = append(files, f)
	}
	if team = strings.ToUpper(strings.TrimSpace(team)); team != "" {
		if f, ok, err := readFirst(filepath.Join(p.dir, "teams", team)); err != nil {
			errs = append(errs, err)
		} else if ok {
			files = append(files, f)
		}
	}
	table, err := NewTable(files...)
	if err != nil {
		errs = append(errs, err)
	}
	return table, errors.Join(errs...)
}

func readFirst(base string) (File, bool, error) {
	for _, ext := range extensions {
		path := base + ext
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return File{}, false, fmt.Errorf("aliases: read %s: %w", path, err)
		}
		var f File
		// JSON documents are valid YAML, so one decoder covers both formats.
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, false, fmt.Errorf("aliases: decode %s: %w", path, err)
		}
		return f, true, nil
	}
	return File{}, false, nil
}

// StaticProvider serves fixed in-memory files; useful for tests and the CLI.
type StaticProvider struct {
	Global File
	Teams  map[string]File
}

// Load merges the global file with the team's file.
func (p StaticProvider) Load(team string) (*Table, error) {
	files := []File{p.Global}
	if f, ok := p.Teams[strings.ToUpper(team)]; ok {
		files = append(files, f)
	}
	return NewTable(files...)
}
