// Package app provides the application context and dependency management
// for the shelf CLI. It centralizes configuration, logging and the
// construction of the catalog store and page fetcher.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/store"
)

// App represents the shelf application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Sync configuration (lazy-loaded once flags are parsed)
	mu       sync.Mutex
	settings *config.Config
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// SyncConfig returns the sync configuration, loading it on first use from
// the --config file, .env files and SHELF_* variables. The same pointer is
// returned on every call so commands can apply their flag overrides.
func (a *App) SyncConfig() (*config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.settings != nil {
		return a.settings, nil
	}

	settings, err := config.Load(a.config.ConfigFile)
	if err != nil {
		return nil, err
	}
	if settings.File != "" {
		a.logger.Debug().Str("file", settings.File).Msg("Loaded config file")
	}

	a.settings = settings
	return settings, nil
}

// Store returns the file store at the configured URL.
func (a *App) Store() (store.Store, error) {
	settings, err := a.SyncConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.NewFileStore(settings.Store.URL, store.WithLogger(a.logger))
	if err != nil {
		return nil, errors.WrapResource("create", "store", settings.Store.URL, err)
	}
	return st, nil
}

// Fetcher returns the page fetcher for the configured source.
func (a *App) Fetcher() (fetcher.PageFetcher, error) {
	settings, err := a.SyncConfig()
	if err != nil {
		return nil, err
	}
	pf, err := fetcher.New(settings.Source, a.logger)
	if err != nil {
		return nil, errors.WrapResource("create", "fetcher", settings.Source.URL, err)
	}
	return pf, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSyncConfig sets the sync configuration instead of loading it.
func WithSyncConfig(settings *config.Config) Option {
	return func(a *App) error {
		a.settings = settings
		return nil
	}
}
