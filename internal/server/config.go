package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Read responses are cached for CacheTTL; a sync through the API
	// clears the cache.
	CacheTTL time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		CORSEnabled:  false,
		CORSOrigins:  []string{},
		CacheTTL:     time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}
