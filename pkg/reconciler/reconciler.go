// Package reconciler merges an accepted listing snapshot into the previously
// persisted catalog.
//
// Reconciliation is a pure function of (previous, snapshot). Matching tries,
// in order: the derived identity, the normalized link path of a record stored
// under an older identity, and finally the lowercased name of a legacy
// (link-less) record, which lets name-only entries upgrade to link-derived
// identities. Records absent from the snapshot are flagged missing rather than
// removed, unless the snapshot itself looks too small to trust.
package reconciler

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/identity"
)

// Reconciler merges snapshots into catalogs.
type Reconciler struct {
	logger *zerolog.Logger
}

// New creates a Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{logger: o.logger}, nil
}

// Reconcile merges snapshot into previous using the default logger.
func Reconcile(previous []catalog.Record, snapshot catalog.Snapshot) Result {
	r, _ := New()
	return r.Reconcile(previous, snapshot)
}

// matchKind records how a listing found its previous record.
type matchKind int

const (
	matchNone matchKind = iota
	matchID
	matchHref
	matchName
)

// index is the lookup state built from the previous catalog.
type index struct {
	records []catalog.Record
	byID    map[string]int
	byHref  map[string]int
	byName  map[string]int
	used    []bool
}

func newIndex(previous []catalog.Record) *index {
	ix := &index{
		records: make([]catalog.Record, len(previous)),
		byID:    make(map[string]int, len(previous)),
		byHref:  make(map[string]int),
		byName:  make(map[string]int),
		used:    make([]bool, len(previous)),
	}

	for i, rec := range previous {
		if rec.ID == "" {
			rec.ID = identity.Resolve(rec.Name, rec.Href)
		}
		ix.records[i] = rec

		if rec.ID != "" {
			if _, dup := ix.byID[rec.ID]; !dup {
				ix.byID[rec.ID] = i
			}
		}
		if href := identity.NormalizeHref(rec.Href); href != "" {
			if _, dup := ix.byHref[href]; !dup {
				ix.byHref[href] = i
			}
		}
		if rec.Href == "" {
			if key := nameKey(rec.Name); key != "" {
				if _, dup := ix.byName[key]; !dup {
					ix.byName[key] = i
				}
			}
		}
	}
	return ix
}

// lookup finds an unused previous record for a listing. The href tier is
// skipped for records whose id some listing in the snapshot derives, so that
// listing can still claim it by identity.
func (ix *index) lookup(id, href, name string, derived map[string]struct{}) (int, matchKind) {
	if i, ok := ix.byID[id]; ok && !ix.used[i] {
		return i, matchID
	}
	if href != "" {
		if i, ok := ix.byHref[href]; ok && !ix.used[i] {
			if _, claimed := derived[ix.records[i].ID]; !claimed {
				return i, matchHref
			}
		}
	}
	if key := nameKey(name); key != "" {
		if i, ok := ix.byName[key]; ok && !ix.used[i] {
			return i, matchName
		}
	}
	return -1, matchNone
}

// Reconcile merges snapshot into previous. Neither input is modified.
func (r *Reconciler) Reconcile(previous []catalog.Record, snapshot catalog.Snapshot) Result {
	ix := newIndex(previous)
	res := Result{
		Records: make(catalog.Records, 0, max(len(previous), len(snapshot))),
		Stats: Stats{
			Previous: len(previous),
			Listings: len(snapshot),
		},
	}
	seen := make(map[string]struct{}, len(snapshot))
	emitted := make(map[string]struct{}, len(snapshot)+len(previous))
	derived := make(map[string]struct{}, len(snapshot))
	for _, l := range snapshot {
		if id := identity.Resolve(l.Name, l.Href); id != "" {
			derived[id] = struct{}{}
		}
	}

	// Fold the snapshot in order; the first listing for an identity wins.
	for _, l := range snapshot {
		id := identity.Resolve(l.Name, l.Href)
		if id == "" {
			res.Stats.Skipped++
			continue
		}
		if _, dup := seen[id]; dup {
			res.Stats.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		href := identity.NormalizeHref(l.Href)
		name := strings.TrimSpace(l.Name)
		price := strings.TrimSpace(l.Price)

		i, kind := ix.lookup(id, href, name, derived)
		if kind == matchNone {
			res.Records = append(res.Records, catalog.Record{
				ID:       id,
				Name:     name,
				Href:     href,
				Category: identity.Category(href),
				Price:    price,
			})
			emitted[id] = struct{}{}
			res.Stats.Added++
			continue
		}

		ix.used[i] = true
		prev := ix.records[i]
		merged := observe(prev, id, name, href, price)
		if _, taken := emitted[prev.ID]; kind == matchHref && !taken {
			// Same link, identity minted under an older scheme: keep it.
			merged.ID = prev.ID
		}
		res.Records = append(res.Records, merged)
		emitted[merged.ID] = struct{}{}
		res.Stats.Matched++
		if prev.Missing {
			res.Stats.Restored++
		}
	}
	res.Stats.Unique = len(res.Records)

	res.KeepLegacy = keepLegacy(res.Stats.Unique, len(previous))
	if res.KeepLegacy {
		msg := "snapshot resolved too few identities; preserving unmatched records"
		res.Warnings = append(res.Warnings, msg)
		r.logger.Warn().
			Int("unique", res.Stats.Unique).
			Int("previous", len(previous)).
			Int("threshold", legacyThreshold(len(previous))).
			Msg(msg)
	}

	// Carry forward previous records that were not re-observed. A record
	// whose id is already in the output is dropped, so ids stay unique.
	for i, prev := range ix.records {
		if ix.used[i] {
			continue
		}
		if _, dup := emitted[prev.ID]; dup || prev.ID == "" {
			res.Stats.Dropped++
			continue
		}
		switch {
		case res.KeepLegacy:
			res.Records = append(res.Records, prev)
			emitted[prev.ID] = struct{}{}
			res.Stats.Carried++
		case prev.Href == "" && identity.IsNameDerived(prev.ID):
			res.Stats.Dropped++
		default:
			if prev.Missing {
				res.Stats.StillMissing++
			} else {
				res.Stats.MarkedMissing++
			}
			prev.Missing = true
			res.Records = append(res.Records, prev)
			emitted[prev.ID] = struct{}{}
		}
	}

	return res
}

// observe builds the updated record for a previous entry seen again. Price is
// sticky: a blank observation never erases a known price.
func observe(prev catalog.Record, id, name, href, price string) catalog.Record {
	next := catalog.Record{
		ID:       id,
		Name:     name,
		Href:     href,
		Category: identity.Category(href),
		Price:    prev.Price,
		Missing:  false,
	}
	if price != "" {
		next.Price = price
	}
	return next
}

// keepLegacy reports whether unique identities fall short of the
// preservation threshold for a previous catalog of the given size.
func keepLegacy(unique, previous int) bool {
	return previous > 0 && unique < legacyThreshold(previous)
}

func legacyThreshold(previous int) int {
	return max(constants.LegacyKeepFloor, int(math.Floor(float64(previous)*constants.LegacyKeepRatio)))
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
