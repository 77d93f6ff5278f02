// Package store loads and persists catalog documents.
//
// A catalog document is an ordered array of records. Loading is forgiving:
// an absent document is an empty catalog, and an unreadable one is logged
// and also treated as empty, so a damaged file never blocks a sync. Saving
// is strict and reports every failure.
package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/identity"
)

// Store loads and saves a catalog document.
type Store interface {
	// Load returns the persisted catalog, or an empty one when none exists.
	Load(ctx context.Context) (catalog.Records, error)

	// Save replaces the persisted catalog with records.
	Save(ctx context.Context, records []catalog.Record) error
}

// Sanitize prepares loaded records for use. Records with neither an id nor
// a name are discarded. A missing id or category is derived from the name
// and link; records whose id still cannot be derived are discarded. When
// two records share an id, the first one in document order is kept.
func Sanitize(records []catalog.Record, logger *zerolog.Logger) catalog.Records {
	out := make(catalog.Records, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	discarded := 0
	for _, rec := range records {
		if rec.ID == "" && rec.Name == "" {
			discarded++
			continue
		}
		if rec.ID == "" {
			rec.ID = identity.Resolve(rec.Name, rec.Href)
			if rec.ID == "" {
				discarded++
				continue
			}
		}
		if _, dup := seen[rec.ID]; dup {
			if logger != nil {
				logger.Warn().Str("id", rec.ID).Str("name", rec.Name).Msg("Discarded duplicate record id on load")
			}
			discarded++
			continue
		}
		seen[rec.ID] = struct{}{}
		if rec.Category == "" && rec.Href != "" {
			rec.Category = identity.Category(rec.Href)
		}
		out = append(out, rec)
	}
	if discarded > 0 && logger != nil {
		logger.Debug().Int("discarded", discarded).Msg("Discarded unidentifiable records on load")
	}
	return out
}
