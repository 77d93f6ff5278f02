// Package handlers provides HTTP request handlers for the catalog API.
package handlers

import (
	"sync"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/server/cache"
	shelfsync "github.com/agentstation/shelf/internal/sync"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       appcontext.Interface
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime utc.Time

	// syncMu admits one sync at a time; lastMu guards last.
	syncMu sync.Mutex
	lastMu sync.RWMutex
	last   *shelfsync.Report
}

// New creates a new Handlers instance.
func New(app appcontext.Interface, c *cache.Cache, logger *zerolog.Logger, startTime utc.Time) *Handlers {
	return &Handlers{
		app:       app,
		cache:     c,
		logger:    logger,
		startTime: startTime,
	}
}

// LastReport returns the report of the most recent API-triggered sync.
func (h *Handlers) LastReport() *shelfsync.Report {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last
}
