package server

import (
	"net/http"

	"github.com/agentstation/shelf/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	prefix := s.config.PathPrefix
	h := s.handlers

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /health", h.HandleHealth)
	if prefix != "" {
		mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	}
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	mux.HandleFunc("GET "+prefix+"/records", h.HandleListRecords)
	mux.HandleFunc("GET "+prefix+"/records/{id}", h.HandleGetRecord)

	mux.HandleFunc("POST "+prefix+"/sync", h.HandleSync)
	mux.HandleFunc("GET "+prefix+"/stats", h.HandleStats)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(handler)
}
