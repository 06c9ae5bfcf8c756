package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded lrgen.toml.
type Manifest struct {
	Path     string // empty when defaults are used
	Generate GenerateConfig
	Output   OutputConfig
}

// GenerateConfig is the [generate] section.
type GenerateConfig struct {
	Jobs             int
	StrictReferences bool
	Cache            bool
	CacheDir         string // absolute; defaults to <root>/.lrgen-cache
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	Format string // "pretty" or "json"
}

var (
	// ErrBadFormat indicates an unsupported [output].format.
	ErrBadFormat = errors.New("unsupported output format")
	// ErrBadJobs indicates a negative [generate].jobs.
	ErrBadJobs = errors.New("jobs must be >= 0")
)

type manifestFile struct {
	Generate struct {
		Jobs             int    `toml:"jobs"`
		StrictReferences bool   `toml:"strict_references"`
		Cache            *bool  `toml:"cache"`
		CacheDir         string `toml:"cache_dir"`
	} `toml:"generate"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
}

// DefaultCacheDir is the cache directory name relative to the project root.
const DefaultCacheDir = ".lrgen-cache"

// Default returns the configuration used when no manifest exists.
// Jobs = 0 means GOMAXPROCS.
func Default() Manifest {
	return Manifest{
		Generate: GenerateConfig{Cache: false},
		Output:   OutputConfig{Format: "pretty"},
	}
}

// LoadManifest parses lrgen.toml at path. Unknown keys are rejected.
func LoadManifest(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Manifest{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	m := Default()
	m.Path = path
	root := filepath.Dir(path)

	if cfg.Generate.Jobs < 0 {
		return Manifest{}, fmt.Errorf("%s: [generate].jobs = %d: %w", path, cfg.Generate.Jobs, ErrBadJobs)
	}
	m.Generate.Jobs = cfg.Generate.Jobs
	m.Generate.StrictReferences = cfg.Generate.StrictReferences
	// кэш включён по умолчанию, если проект объявлен
	m.Generate.Cache = cfg.Generate.Cache == nil || *cfg.Generate.Cache
	m.Generate.CacheDir = strings.TrimSpace(cfg.Generate.CacheDir)
	if m.Generate.CacheDir == "" {
		m.Generate.CacheDir = DefaultCacheDir
	}
	if !filepath.IsAbs(m.Generate.CacheDir) {
		m.Generate.CacheDir = filepath.Join(root, m.Generate.CacheDir)
	}

	if meta.IsDefined("output", "format") {
		format := strings.TrimSpace(cfg.Output.Format)
		if err := ValidateFormat(format); err != nil {
			return Manifest{}, fmt.Errorf("%s: [output].format: %w", path, err)
		}
		m.Output.Format = format
	}
	return m, nil
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case "pretty", "json":
		return nil
	}
	return fmt.Errorf("%w %q (expected: pretty|json)", ErrBadFormat, format)
}

// Resolve finds the manifest governing modelPath and loads it; without one
// the defaults are returned.
func Resolve(modelPath string) (Manifest, error) {
	path, ok, err := FindManifest(filepath.Dir(modelPath))
	if err != nil {
		return Manifest{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadManifest(path)
}
