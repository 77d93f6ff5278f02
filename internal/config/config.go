// Package config loads the sync configuration from config files, .env files
// and SHELF_* environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/constants"
	pkgerrors "github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/gate"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "SHELF"

// Config is the complete sync configuration.
type Config struct {
	Source fetcher.Config `mapstructure:"source" yaml:"source"`
	Gate   gate.Config    `mapstructure:"gate" yaml:"gate"`
	Store  StoreConfig    `mapstructure:"store" yaml:"store"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// StoreConfig locates the catalog document.
type StoreConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Source: fetcher.DefaultConfig(),
		Gate:   gate.DefaultConfig(),
		Store:  StoreConfig{URL: constants.DefaultStoreURL},
	}
}

// Load reads configuration in order of precedence:
// 1. Environment variables (SHELF_SOURCE_URL, SHELF_GATE_MAX_RETRIES, ...)
// 2. .env and .env.local files
// 3. Config file (file, or ~/.shelf.yaml / ./.shelf.yaml)
// 4. Defaults
//
// Command-line flags are applied by the caller afterwards. Load does not
// validate; call Validate once flags are applied.
func Load(file string) (*Config, error) {
	loadEnvFiles()
	return LoadWith(viper.New(), file)
}

// LoadWith is Load on a caller-supplied viper instance without reading .env
// files.
func LoadWith(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".shelf")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.NewConfigError("config", "cannot read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, pkgerrors.NewConfigError("config", "cannot decode configuration", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Source.Kind = fetcher.Kind(strings.ToLower(string(cfg.Source.Kind)))
	return cfg, nil
}

// Validate checks every section and clamps the gate ratio.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Gate.Validate(); err != nil {
		return err
	}
	c.Gate = c.Gate.Normalize()
	if strings.TrimSpace(c.Store.URL) == "" {
		return pkgerrors.NewConfigError("store", "url is required", nil)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can find it on Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("source.url", d.Source.URL)
	v.SetDefault("source.kind", string(d.Source.Kind))
	v.SetDefault("source.pages", d.Source.Pages)
	v.SetDefault("source.user_agent", d.Source.UserAgent)
	v.SetDefault("source.timeout", d.Source.Timeout)
	v.SetDefault("source.selectors.item", d.Source.Selectors.Item)
	v.SetDefault("source.selectors.name", d.Source.Selectors.Name)
	v.SetDefault("source.selectors.link", d.Source.Selectors.Link)
	v.SetDefault("source.selectors.price", d.Source.Selectors.Price)
	v.SetDefault("source.stability.polls", d.Source.Stability.Polls)
	v.SetDefault("source.stability.interval", d.Source.Stability.Interval)

	v.SetDefault("gate.max_retries", d.Gate.MaxRetries)
	v.SetDefault("gate.min_existing_ratio", d.Gate.MinExistingRatio)
	v.SetDefault("gate.min_existing_delta", d.Gate.MinExistingDelta)
	v.SetDefault("gate.backoff", d.Gate.Backoff)

	v.SetDefault("store.url", d.Store.URL)
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overwrites a set variable, so .env.local is loaded first
// to take precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
