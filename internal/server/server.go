// Package server exposes the stored catalog over a read-mostly HTTP API and
// lets an operator trigger a sync run.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/server/cache"
	"github.com/agentstation/shelf/internal/server/handlers"
	"github.com/agentstation/shelf/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       appcontext.Interface
	cache     *cache.Cache
	handlers  *handlers.Handlers
	logger    *zerolog.Logger
	config    Config
	startTime utc.Time
}

// New creates a new server instance with the given configuration.
func New(app appcontext.Interface, cfg Config) (*Server, error) {
	if app == nil {
		return nil, errors.NewConfigError("server", "app context is required", nil)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.NewConfigError("server", fmt.Sprintf("invalid port %d", cfg.Port), nil)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	logger := app.Logger()
	c := cache.New(cfg.CacheTTL, cfg.CacheTTL*2)
	startTime := utc.Now()

	return &Server{
		app:       app,
		cache:     c,
		handlers:  handlers.New(app, c, logger, startTime),
		logger:    logger,
		config:    cfg,
		startTime: startTime,
	}, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Str("prefix", s.config.PathPrefix).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WrapResource("listen", "server", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapResource("shutdown", "server", srv.Addr, err)
	}
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() utc.Time {
	return s.startTime
}
