package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration: global flags and logging. The sync
// configuration itself lives in internal/config and is loaded lazily by
// App.SyncConfig once --config is known.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string // from --log-level
	EnvLevel  string // from LOG_LEVEL
	LogFormat string
	LogOutput string
}

// LoadConfig loads CLI configuration in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (SHELF_VERBOSE, SHELF_FORMAT, LOG_LEVEL, ...)
// 3. .env files
// 4. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("shelf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no-color"),
		Format:     v.GetString("format"),
		ConfigFile: v.GetString("config"),

		EnvLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so it takes precedence over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
