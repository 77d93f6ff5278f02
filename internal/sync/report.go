package sync

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/reconciler"
)

// Report describes a completed sync run.
type Report struct {
	RunID      string   `json:"run_id" yaml:"run_id"`
	StartedAt  utc.Time `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time `json:"finished_at" yaml:"finished_at"`
	DryRun     bool     `json:"dry_run" yaml:"dry_run"`
	Saved      bool     `json:"saved" yaml:"saved"`

	// Gate outcome.
	Attempts    int  `json:"attempts" yaml:"attempts"`
	MinExpected int  `json:"min_expected" yaml:"min_expected"`
	Unique      int  `json:"unique" yaml:"unique"`
	Exhausted   bool `json:"exhausted" yaml:"exhausted"`

	// Reconciliation outcome.
	Previous   int              `json:"previous" yaml:"previous"`
	Total      int              `json:"total" yaml:"total"`
	KeepLegacy bool             `json:"keep_legacy" yaml:"keep_legacy"`
	Stats      reconciler.Stats `json:"stats" yaml:"stats"`
	Warnings   []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Changeset *differ.Changeset `json:"changes" yaml:"changes"`

	// Records is the reconciled catalog.
	Records catalog.Records `json:"-" yaml:"-"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// String returns a one-line summary of the run.
func (r *Report) String() string {
	mode := "saved"
	switch {
	case r.DryRun:
		mode = "dry run"
	case !r.Saved:
		mode = "unchanged"
	}
	s := fmt.Sprintf("%d records from %d unique listings in %d attempt(s), %s",
		r.Total, r.Unique, r.Attempts, mode)
	if r.Changeset != nil {
		s += "; " + r.Changeset.String()
	}
	return s
}
