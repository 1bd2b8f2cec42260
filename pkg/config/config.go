// Package config defines helpctl's on-disk configuration: the knobs
// controlling extraction thresholds, probing, concurrency, and caching,
// per spec.md §6.
package config

//go:generate sh -c "cd ../.. && go run ./tools/schema-generator/"

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name helpctl looks for in a
// project directory.
const FileName = "helpctl.config.yml"

// Config defines helpctl's tunable extraction behavior.
type Config struct {
	MinConfidence   float64 `yaml:"min_confidence,omitempty" jsonschema:"description=Minimum confidence (0-1) for an extraction to be accepted for suggestions,minimum=0,maximum=1" jsonschema_extras:"x-priority=10"`
	MinCoverage     float64 `yaml:"min_coverage,omitempty" jsonschema:"description=Minimum line coverage (0-1) for an extraction to be accepted for suggestions,minimum=0,maximum=1" jsonschema_extras:"x-priority=11"`
	AllowLowQuality bool    `yaml:"allow_low_quality,omitempty" jsonschema:"description=Accept extractions that fall below min_confidence/min_coverage instead of rejecting them" jsonschema_extras:"x-priority=12"`
	ProbeTimeoutMs  int     `yaml:"probe_timeout_ms,omitempty" jsonschema:"description=Wall-clock timeout in milliseconds for a single help-invocation attempt (default 3000)" jsonschema_extras:"x-priority=20"`
	InstalledOnly   bool    `yaml:"installed_only,omitempty" jsonschema:"description=Never shell out to probe a live executable; only extract from pre-supplied text" jsonschema_extras:"x-priority=21"`
	Jobs            int     `yaml:"jobs,omitempty" jsonschema:"description=Maximum concurrent extractions in batch mode (default: hardware parallelism)" jsonschema_extras:"x-priority=30"`
	CacheEnabled    bool    `yaml:"cache_enabled,omitempty" jsonschema:"description=Memoize extraction results by executable fingerprint across batch runs" jsonschema_extras:"x-priority=31"`
	CachePath       string  `yaml:"cache_path,omitempty" jsonschema:"description=Path to the fingerprint cache file (default: .helpctl-cache.json)" jsonschema_extras:"x-priority=32"`
}

// Default returns the configuration spec.md §6 specifies when no config
// file is present.
func Default() Config {
	return Config{
		MinConfidence:  0.0,
		MinCoverage:    0.0,
		ProbeTimeoutMs: 3000,
		CacheEnabled:   true,
		CachePath:      ".helpctl-cache.json",
	}
}

// Load looks for FileName in dir and returns the file's values merged over
// Default() if found, or Default() unmodified if no config file exists.
func Load(dir string) (Config, error) {
	return LoadFromPath(filepath.Join(dir, FileName))
}

// LoadFromPath reads a config file from an exact path. A missing file is
// not an error: it yields Default().
func LoadFromPath(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
