package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadWith(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, fetcher.KindHTML, cfg.Source.Kind)
	assert.Equal(t, constants.DefaultStabilityPolls, cfg.Source.Stability.Polls)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.Source.Timeout)
	assert.Equal(t, ".listing", cfg.Source.Selectors.Item)
	assert.Equal(t, constants.DefaultMinExistingRatio, cfg.Gate.MinExistingRatio)
	assert.Equal(t, constants.DefaultMinExistingDelta, cfg.Gate.MinExistingDelta)
	assert.Equal(t, constants.DefaultStoreURL, cfg.Store.URL)
	assert.Empty(t, cfg.File)

	// Pages and URL have no defaults.
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
source:
  url: https://shop.example.com/list
  kind: JSON
  pages: 4
  timeout: 5s
  stability:
    polls: 2
    interval: 250ms
gate:
  max_retries: 2
  min_existing_ratio: 1.5
  backoff: 1s
store:
  url: /var/lib/shelf/catalog.json
`)

	cfg, err := LoadWith(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "https://shop.example.com/list", cfg.Source.URL)
	assert.Equal(t, fetcher.KindJSON, cfg.Source.Kind)
	assert.Equal(t, 4, cfg.Source.Pages)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2, cfg.Source.Stability.Polls)
	assert.Equal(t, 250*time.Millisecond, cfg.Source.Stability.Interval)
	assert.Equal(t, 2, cfg.Gate.MaxRetries)
	assert.Equal(t, time.Second, cfg.Gate.Backoff)
	assert.Equal(t, "/var/lib/shelf/catalog.json", cfg.Store.URL)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.Gate.MinExistingRatio, "ratio is clamped")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
source:
  url: https://shop.example.com/list
  pages: 4
`)
	t.Setenv("SHELF_SOURCE_PAGES", "9")
	t.Setenv("SHELF_GATE_MAX_RETRIES", "3")
	t.Setenv("SHELF_STORE_URL", "s3://bucket/catalog.json")

	cfg, err := LoadWith(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Source.Pages)
	assert.Equal(t, 3, cfg.Gate.MaxRetries)
	assert.Equal(t, "s3://bucket/catalog.json", cfg.Store.URL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadWith(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Source.URL = "https://shop.example.com/list"
		c.Source.Pages = 2
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "non-positive pages", mutate: func(c *Config) { c.Source.Pages = 0 }},
		{name: "negative retries", mutate: func(c *Config) { c.Gate.MaxRetries = -1 }},
		{name: "negative delta", mutate: func(c *Config) { c.Gate.MinExistingDelta = -2 }},
		{name: "empty store", mutate: func(c *Config) { c.Store.URL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}
