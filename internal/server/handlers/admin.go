package handlers

import (
	"net/http"
	"runtime"
	"strconv"

	"github.com/agentstation/utc"

	"github.com/agentstation/shelf/internal/server/response"
	shelfsync "github.com/agentstation/shelf/internal/sync"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// HandleSync handles POST /sync. It runs one sync with the server's
// configuration; ?dry_run=true reconciles without saving. A second request
// while a sync is running gets 409.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if v := r.URL.Query().Get("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.ErrorFromType(w, errors.NewValidationError("dry_run", v, "must be a boolean"))
			return
		}
		dryRun = b
	}

	if !h.syncMu.TryLock() {
		response.Conflict(w, "A sync is already running")
		return
	}
	defer h.syncMu.Unlock()

	report, err := h.runSync(r, dryRun)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Sync failed")
		response.ErrorFromType(w, err)
		return
	}

	if report.Saved {
		h.cache.Invalidate()
	}
	h.lastMu.Lock()
	h.last = report
	h.lastMu.Unlock()

	response.OK(w, report)
}

func (h *Handlers) runSync(r *http.Request, dryRun bool) (*shelfsync.Report, error) {
	cfg, err := h.app.SyncConfig()
	if err != nil {
		return nil, err
	}
	st, err := h.app.Store()
	if err != nil {
		return nil, err
	}
	pf, err := h.app.Fetcher()
	if err != nil {
		return nil, err
	}
	syncer, err := shelfsync.New(st, pf, cfg.Source.Pages, cfg.Gate)
	if err != nil {
		return nil, err
	}
	return syncer.Run(r.Context(),
		shelfsync.WithDryRun(dryRun),
		shelfsync.WithLogger(logging.FromContext(r.Context())),
		shelfsync.WithSource(cfg.Source.URL),
	)
}

// HandleStats handles GET /stats: catalog counts, the last API-triggered
// sync and server runtime figures.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.load(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	categories := make(map[string]int)
	legacy := 0
	for _, rec := range records {
		categories[rec.Category]++
		if rec.IsLegacy() {
			legacy++
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := map[string]any{
		"catalog": map[string]any{
			"records":    len(records),
			"missing":    records.MissingCount(),
			"legacy":     legacy,
			"categories": categories,
		},
		"runtime": map[string]any{
			"uptime_seconds": int64(utc.Now().Time.Sub(h.startTime.Time).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
		},
		"cache": h.cache.Stats(),
	}
	if last := h.LastReport(); last != nil {
		stats["last_sync"] = map[string]any{
			"run_id":      last.RunID,
			"finished_at": last.FinishedAt,
			"saved":       last.Saved,
			"attempts":    last.Attempts,
			"keep_legacy": last.KeepLegacy,
			"summary":     last.Stats,
		}
	}

	response.OK(w, stats)
}
