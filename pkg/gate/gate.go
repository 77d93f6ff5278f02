// Package gate decides whether a fetched snapshot is complete enough to
// reconcile, and drives a bounded retry loop when it is not.
//
// A snapshot that resolves far fewer distinct identities than the existing
// catalog is more likely a rendering failure than a shrinking catalog. The
// gate re-fetches in that case, but always accepts the final attempt so a run
// never stalls.
package gate

import (
	"context"
	"math"
	"time"

	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/identity"
	"github.com/agentstation/shelf/pkg/logging"
)

// FetchFunc performs one complete fetch pass. attempt starts at 1.
type FetchFunc func(ctx context.Context, attempt int) (catalog.Snapshot, error)

// Outcome describes the accepted snapshot and how it was accepted.
type Outcome struct {
	Snapshot    catalog.Snapshot
	Attempts    int
	Unique      int
	MinExpected int

	// Exhausted is set when the snapshot was accepted only because the
	// retry budget ran out.
	Exhausted bool
}

// Accepted reports whether the snapshot met the threshold on its own merit.
func (o Outcome) Accepted() bool {
	return !o.Exhausted
}

// MinExpected returns the number of distinct identities a snapshot must
// resolve given an existing catalog of size existing. Zero disables the gate.
func MinExpected(existing int, ratio float64, delta int) int {
	if existing <= 0 {
		return 0
	}
	byRatio := int(math.Floor(float64(existing) * clamp01(ratio)))
	return max(constants.MinExpectedFloor, byRatio, existing-delta)
}

// DistinctCount returns the number of distinct resolvable identities in s.
func DistinctCount(s catalog.Snapshot) int {
	seen := make(map[string]struct{}, len(s))
	for _, l := range s {
		if id := identity.Resolve(l.Name, l.Href); id != "" {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Gate runs fetch passes until one is complete or the budget is spent.
type Gate struct {
	cfg Config
}

// New creates a Gate from cfg after clamping and validating it.
func New(cfg Config) (*Gate, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gate{cfg: cfg}, nil
}

// Config returns the normalized configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// Run performs up to MaxRetries+1 sequential fetch passes against a catalog
// of size existing. Each pass replaces the previous one. A fetch error aborts
// the loop and is returned as-is.
func (g *Gate) Run(ctx context.Context, existing int, fetch FetchFunc) (Outcome, error) {
	logger := logging.FromContext(ctx)
	minExpected := MinExpected(existing, g.cfg.MinExistingRatio, g.cfg.MinExistingDelta)
	attempts := g.cfg.MaxRetries + 1

	var out Outcome
	for attempt := 1; attempt <= attempts; attempt++ {
		snap, err := fetch(logging.WithAttempt(ctx, attempt), attempt)
		if err != nil {
			return Outcome{}, err
		}

		unique := DistinctCount(snap)
		out = Outcome{
			Snapshot:    snap,
			Attempts:    attempt,
			Unique:      unique,
			MinExpected: minExpected,
		}

		if minExpected == 0 || unique >= minExpected {
			logger.Debug().
				Int("attempt", attempt).
				Int("unique", unique).
				Int("min_expected", minExpected).
				Msg("Snapshot accepted")
			return out, nil
		}

		if attempt == attempts {
			break
		}

		logger.Warn().
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Int("unique", unique).
			Int("min_expected", minExpected).
			Int("existing", existing).
			Msg("Snapshot below completeness threshold, retrying")

		if err := sleep(ctx, g.cfg.Backoff); err != nil {
			return Outcome{}, err
		}
	}

	out.Exhausted = true
	logger.Warn().
		Int("attempts", out.Attempts).
		Int("unique", out.Unique).
		Int("min_expected", minExpected).
		Int("existing", existing).
		Msg("Retry budget exhausted, accepting incomplete snapshot")
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.WrapResource("fetch", "snapshot", "", errors.ErrCanceled)
	case <-t.C:
		return nil
	}
}
