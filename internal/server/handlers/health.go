package handlers

import (
	"net/http"

	"github.com/agentstation/shelf/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "shelf",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /ready. The server is ready when the catalog
// store can be opened and read.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	records, err := h.load(r)
	if err != nil {
		response.ServiceUnavailable(w, "Catalog not available")
		return
	}

	response.OK(w, map[string]any{
		"status":  "ready",
		"records": len(records),
		"cache":   h.cache.Stats(),
	})
}
