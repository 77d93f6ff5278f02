// Package appcontext provides the shared application context interface
// used by all commands.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/store"
)

// Interface defines the application context that commands need.
// The App struct from cmd/shelf/app implements it; tests use Mock.
type Interface interface {
	// SyncConfig returns the sync configuration. Commands may adjust it from
	// their flags; Store and Fetcher read the adjusted values.
	SyncConfig() (*config.Config, error)

	// Store returns the catalog store described by the configuration.
	Store() (store.Store, error)

	// Fetcher returns the page fetcher for the configured source.
	Fetcher() (fetcher.PageFetcher, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
