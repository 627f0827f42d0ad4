package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[engine]
strategy = "title"
keep_self_portraits = true
hash_threshold = 8

[fetch]
delay_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "title", cfg.Engine.Strategy)
	assert.True(t, cfg.Engine.KeepSelfPortraits)
	assert.Equal(t, 8, cfg.Engine.HashThreshold)
	assert.Equal(t, 250, cfg.Fetch.DelayMS)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.Fetch.TimeoutSeconds)
	assert.Equal(t, 200, cfg.Quality.MinWidth)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsMisconfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Engine.Strategy = "fuzzy" }},
		{"negative threshold", func(c *Config) { c.Engine.HashThreshold = -1 }},
		{"threshold too high", func(c *Config) { c.Engine.HashThreshold = 65 }},
		{"negative max records", func(c *Config) { c.Engine.MaxRecords = -1 }},
		{"zero timeout", func(c *Config) { c.Fetch.TimeoutSeconds = 0 }},
		{"negative delay", func(c *Config) { c.Fetch.DelayMS = -1 }},
		{"negative quality minimum", func(c *Config) { c.Quality.MinWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
