package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/store"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	SyncConfigFunc   func() (*config.Config, error)
	StoreFunc        func() (store.Store, error)
	FetcherFunc      func() (fetcher.PageFetcher, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// SyncConfig returns the mock configuration or config.Default().
func (m *Mock) SyncConfig() (*config.Config, error) {
	if m.SyncConfigFunc != nil {
		return m.SyncConfigFunc()
	}
	return config.Default(), nil
}

// Store returns the mock store or an empty in-memory store.
func (m *Mock) Store() (store.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc()
	}
	return store.NewMemory(), nil
}

// Fetcher returns the mock fetcher or one that yields empty pages.
func (m *Mock) Fetcher() (fetcher.PageFetcher, error) {
	if m.FetcherFunc != nil {
		return m.FetcherFunc()
	}
	return fetcher.PageFetcherFunc(func(context.Context, int) ([]catalog.RawListing, error) {
		return nil, nil
	}), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
