// Package sync runs one catalog sync: load the prior catalog, fetch a
// snapshot through the completeness gate, reconcile, diff and save.
package sync

import (
	"context"
	"slices"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/differ"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/gate"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/reconciler"
	"github.com/agentstation/shelf/pkg/store"
)

// Syncer wires a store and a page fetcher into the sync pipeline.
type Syncer struct {
	store   store.Store
	fetcher fetcher.PageFetcher
	pages   int
	gate    *gate.Gate
	differ  differ.Differ
}

// New creates a Syncer. pages is the number of source pages per snapshot.
func New(st store.Store, pf fetcher.PageFetcher, pages int, gateCfg gate.Config) (*Syncer, error) {
	if st == nil {
		return nil, errors.NewConfigError("sync", "store is required", nil)
	}
	if pf == nil {
		return nil, errors.NewConfigError("sync", "fetcher is required", nil)
	}
	if pages <= 0 {
		return nil, errors.NewConfigError("sync", "page count must be positive", nil)
	}
	g, err := gate.New(gateCfg)
	if err != nil {
		return nil, err
	}
	return &Syncer{
		store:   st,
		fetcher: pf,
		pages:   pages,
		gate:    g,
		differ:  differ.New(),
	}, nil
}

// Run performs one sync. Fetch and save failures are returned; a short
// snapshot or an unreadable prior catalog only produce warnings.
func (s *Syncer) Run(ctx context.Context, opts ...Option) (*Report, error) {
	options := Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	if options.Logger != nil {
		ctx = logging.WithLogger(ctx, options.Logger)
	}
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	if options.Source != "" {
		ctx = logging.WithSource(ctx, options.Source)
	}
	operation := "sync"
	if options.DryRun {
		operation = "dry_run"
	}
	ctx = logging.WithOperation(ctx, operation)
	logger := logging.FromContext(ctx)

	report := &Report{
		RunID:     runID,
		StartedAt: utc.Now(),
		DryRun:    options.DryRun,
	}

	// Step 1: Load prior state
	previous, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.WrapResource("load", "catalog", "", err)
	}
	report.Previous = len(previous)
	logger.Info().Int("records", len(previous)).Msg("Loaded catalog")

	// Step 2: Fetch through the completeness gate
	outcome, err := s.gate.Run(ctx, len(previous), func(ctx context.Context, attempt int) (catalog.Snapshot, error) {
		logging.FromContext(ctx).Debug().Int("pages", s.pages).Msg("Fetching snapshot")
		return fetcher.Snapshot(ctx, s.fetcher, s.pages)
	})
	if err != nil {
		return nil, err
	}
	report.Attempts = outcome.Attempts
	report.MinExpected = outcome.MinExpected
	report.Unique = outcome.Unique
	report.Exhausted = outcome.Exhausted

	// Step 3: Reconcile
	rec, err := reconciler.New(reconciler.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	result := rec.Reconcile(previous, outcome.Snapshot)
	report.Records = result.Records
	report.Total = len(result.Records)
	report.KeepLegacy = result.KeepLegacy
	report.Stats = result.Stats
	report.Warnings = result.Warnings
	if outcome.Exhausted {
		report.Warnings = append(report.Warnings, "retry budget exhausted; accepted an incomplete snapshot")
	}

	// Step 4: Diff
	report.Changeset = s.differ.Records(previous, result.Records)
	if report.Changeset.HasChanges() {
		logger.Info().
			Int("added", report.Changeset.Summary.Added).
			Int("updated", report.Changeset.Summary.Updated).
			Int("restored", report.Changeset.Summary.Restored).
			Int("missing", report.Changeset.Summary.MarkedMissing).
			Int("removed", report.Changeset.Summary.Removed).
			Msg("Changes detected")
	} else {
		logger.Info().Msg("No changes detected")
	}

	// Step 5: Save
	switch {
	case options.DryRun:
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
	case !report.Changeset.HasChanges() && len(previous) > 0 && slices.Equal(previous.IDs(), result.Records.IDs()):
		logger.Debug().Msg("Catalog unchanged, skipping save")
	default:
		if err := s.store.Save(ctx, result.Records); err != nil {
			return nil, err
		}
		report.Saved = true
		logger.Info().Int("records", len(result.Records)).Msg("Saved catalog")
	}

	report.FinishedAt = utc.Now()
	return report, nil
}
