// Package filter parses record query parameters for the API.
package filter

import (
	"net/http"
	"strconv"

	cmdfilter "github.com/agentstation/shelf/internal/cmd/filter"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
)

// Pagination limits.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// RecordQuery is a parsed GET /records request.
type RecordQuery struct {
	Filter cmdfilter.RecordFilter
	Limit  int
	Offset int
}

// Page is one page of filtered records.
type Page struct {
	Records []catalog.Record `json:"records"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Count   int              `json:"count"`
}

// ParseRecordQuery extracts filters and pagination from the request.
// Supported parameters: category, missing, present, legacy, search, limit,
// offset. Malformed values are a ValidationError.
func ParseRecordQuery(r *http.Request) (RecordQuery, error) {
	q := r.URL.Query()

	query := RecordQuery{
		Filter: cmdfilter.RecordFilter{
			Category: q.Get("category"),
			Search:   q.Get("search"),
		},
		Limit: DefaultLimit,
	}

	var err error
	if query.Filter.MissingOnly, err = parseBool(q.Get("missing"), "missing"); err != nil {
		return RecordQuery{}, err
	}
	if query.Filter.PresentOnly, err = parseBool(q.Get("present"), "present"); err != nil {
		return RecordQuery{}, err
	}
	if query.Filter.LegacyOnly, err = parseBool(q.Get("legacy"), "legacy"); err != nil {
		return RecordQuery{}, err
	}
	if err := query.Filter.Validate(); err != nil {
		return RecordQuery{}, err
	}
	if query.Filter.MissingOnly && query.Filter.PresentOnly {
		return RecordQuery{}, errors.NewValidationError("missing", true, "missing and present are mutually exclusive")
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return RecordQuery{}, errors.NewValidationError("limit", v, "must be a positive integer")
		}
		query.Limit = min(n, MaxLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return RecordQuery{}, errors.NewValidationError("offset", v, "must be a non-negative integer")
		}
		query.Offset = n
	}

	return query, nil
}

// Apply filters records and cuts out the requested page.
func (q RecordQuery) Apply(records []catalog.Record) Page {
	filtered := q.Filter.Apply(records)
	total := len(filtered)

	start := min(q.Offset, total)
	end := min(start+q.Limit, total)
	page := append([]catalog.Record{}, filtered[start:end]...)

	return Page{
		Records: page,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Count:   len(page),
	}
}

func parseBool(v, field string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.NewValidationError(field, v, "must be a boolean")
	}
	return b, nil
}
