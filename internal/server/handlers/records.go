package handlers

import (
	"net/http"

	"github.com/agentstation/shelf/internal/server/filter"
	"github.com/agentstation/shelf/internal/server/response"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/logging"
)

// HandleListRecords handles GET /records.
// Query parameters: category, missing, present, legacy, search, limit, offset.
func (h *Handlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	cacheKey := "records:" + r.URL.RawQuery
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	query, err := filter.ParseRecordQuery(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	records, err := h.load(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	page := query.Apply(records)
	h.cache.Set(cacheKey, page)
	response.OK(w, page)
}

// HandleGetRecord handles GET /records/{id}.
func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cacheKey := "record:" + id
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	records, err := h.load(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	rec, err := records.Find(id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.Set(cacheKey, rec)
	response.OK(w, rec)
}

// load reads the stored catalog.
func (h *Handlers) load(r *http.Request) (catalog.Records, error) {
	st, err := h.app.Store()
	if err != nil {
		return nil, err
	}
	records, err := st.Load(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Failed to load catalog")
		return nil, errors.WrapResource("load", "catalog", "", err)
	}
	return records, nil
}
