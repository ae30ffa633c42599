package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads controller and stage configuration from JSON or YAML files using fs.FS
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader reads from
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadController loads a controller config file (e.g. "controller.yaml").
// Missing fields keep their defaults; the result is validated.
func (l *Loader) LoadController(name string) (*ControllerConfig, error) {
	cfg := DefaultControllerConfig()
	if err := l.decode(name, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// LoadStage loads a stage file by ID, trying stages/<id>.json then .yaml and .yml
func (l *Loader) LoadStage(id string) (*StageConfig, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := path.Join("stages", id+ext)
		if _, err := fs.Stat(l.fsys, name); err != nil {
			continue
		}
		var cfg StageConfig
		if err := l.decode(name, &cfg); err != nil {
			return nil, err
		}
		if cfg.Size.TileSize <= 0 {
			return nil, fmt.Errorf("stage %s: %w: tileSize must be positive", id, ErrInvalid)
		}
		return &cfg, nil
	}
	return nil, fmt.Errorf("failed to find stage %s: %w", id, fs.ErrNotExist)
}

func (l *Loader) decode(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("failed to parse %s: unsupported extension", name)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
