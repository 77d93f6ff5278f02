package reconciler

import (
	"fmt"

	"github.com/agentstation/shelf/pkg/catalog"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Records is the next catalog state: re-observed and new records in
	// snapshot order, then carried-forward records in previous order.
	Records catalog.Records

	// KeepLegacy is set when the snapshot was too small to trust absence,
	// so unmatched previous records were carried forward unchanged.
	KeepLegacy bool

	Stats    Stats
	Warnings []string
}

// Stats counts what happened to each record and listing.
type Stats struct {
	Previous int `json:"previous" yaml:"previous"` // size of the previous catalog
	Listings int `json:"listings" yaml:"listings"` // raw listings in the snapshot
	Unique   int `json:"unique" yaml:"unique"`     // distinct identities folded from the snapshot

	Added         int `json:"added" yaml:"added"`                   // new records
	Matched       int `json:"matched" yaml:"matched"`               // previous records re-observed
	Restored      int `json:"restored" yaml:"restored"`             // re-observed records that had been missing
	MarkedMissing int `json:"marked_missing" yaml:"marked_missing"` // records newly flagged missing
	StillMissing  int `json:"still_missing" yaml:"still_missing"`   // records already missing and still absent
	Carried       int `json:"carried" yaml:"carried"`               // unmatched records kept unchanged under KeepLegacy
	Dropped       int `json:"dropped" yaml:"dropped"`               // pure legacy records removed

	Skipped    int `json:"skipped" yaml:"skipped"`       // listings without a derivable identity
	Duplicates int `json:"duplicates" yaml:"duplicates"` // listings repeating an identity already folded
}

// Threshold returns the unique count below which unmatched records are
// preserved rather than flagged missing.
func (s Stats) Threshold() int {
	return legacyThreshold(s.Previous)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Stats
	summary := fmt.Sprintf("%d records (%d added, %d matched, %d restored, %d newly missing, %d dropped)",
		len(r.Records), s.Added, s.Matched, s.Restored, s.MarkedMissing, s.Dropped)
	if r.KeepLegacy {
		summary += fmt.Sprintf("; snapshot resolved %d of %d expected, %d unmatched records preserved",
			s.Unique, s.Threshold(), s.Carried)
	}
	return summary
}
