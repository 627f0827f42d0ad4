package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Strategies accepted by the exact-key deduplicator.
const (
	StrategyURL   = "url"
	StrategyTitle = "title"
	StrategyExact = "exact"
)

// Engine contains the deduplication engine settings.
type Engine struct {
	Strategy          string `toml:"strategy"`
	KeepSelfPortraits bool   `toml:"keep_self_portraits"`
	HashThreshold     int    `toml:"hash_threshold"`
	MaxRecords        int    `toml:"max_records"`
}

// Fetch contains settings for downloading images during visual
// duplicate detection.
type Fetch struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DelayMS        int    `toml:"delay_ms"`
	CachePath      string `toml:"cache_path"`
}

// Quality contains the minimum image dimensions for the quality filter.
type Quality struct {
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
}

// Config is the full configuration for a run. Every knob has an
// explicit default; nothing is read from hardcoded paths at runtime.
type Config struct {
	Engine  Engine  `toml:"engine"`
	Fetch   Fetch   `toml:"fetch"`
	Quality Quality `toml:"quality"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		Engine: Engine{
			Strategy:      StrategyURL,
			HashThreshold: 5,
			MaxRecords:    0, // unlimited
		},
		Fetch: Fetch{
			TimeoutSeconds: 10,
			DelayMS:        100,
			CachePath:      "fingerprints.db",
		},
		Quality: Quality{
			MinWidth:  200,
			MinHeight: 200,
		},
	}
}

// Load reads a TOML config file over the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects misconfiguration before any processing starts.
func (c Config) Validate() error {
	var errs []error

	switch c.Engine.Strategy {
	case StrategyURL, StrategyTitle, StrategyExact:
	default:
		errs = append(errs, fmt.Errorf("unknown strategy %q (want url, title or exact)", c.Engine.Strategy))
	}

	if c.Engine.HashThreshold < 0 || c.Engine.HashThreshold > 64 {
		errs = append(errs, fmt.Errorf("hash_threshold %d out of range 0-64", c.Engine.HashThreshold))
	}
	if c.Engine.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("max_records must not be negative, got %d", c.Engine.MaxRecords))
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout_seconds must be positive, got %d", c.Fetch.TimeoutSeconds))
	}
	if c.Fetch.DelayMS < 0 {
		errs = append(errs, fmt.Errorf("fetch delay_ms must not be negative, got %d", c.Fetch.DelayMS))
	}
	if c.Quality.MinWidth < 0 || c.Quality.MinHeight < 0 {
		errs = append(errs, errors.New("quality minimums must not be negative"))
	}

	return errors.Join(errs...)
}
