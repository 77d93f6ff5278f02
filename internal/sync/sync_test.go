package sync

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/gate"
	"github.com/agentstation/shelf/pkg/logging"
	"github.com/agentstation/shelf/pkg/store"
)

// pagedSource serves perPage listings on every page. The number of
// distinct items can be varied per snapshot attempt.
type pagedSource struct {
	perPage  int
	pages    int
	calls    int
	distinct func(attempt int) int
}

func (p *pagedSource) FetchPage(_ context.Context, page int) ([]catalog.RawListing, error) {
	p.calls++
	attempt := (p.calls-1)/p.pages + 1
	limit := p.perPage * p.pages
	if p.distinct != nil {
		limit = p.distinct(attempt)
	}
	var out []catalog.RawListing
	for i := 1; i <= p.perPage; i++ {
		n := (page-1)*p.perPage + i
		if n > limit {
			break
		}
		out = append(out, catalog.RawListing{
			Name:  fmt.Sprintf("Item %d", n),
			Href:  fmt.Sprintf("/items/%d", n),
			Price: "$1",
		})
	}
	return out, nil
}

func seeded(n int) []catalog.Record {
	records := make([]catalog.Record, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, catalog.Record{
			ID:       fmt.Sprint(i),
			Name:     fmt.Sprintf("Item %d", i),
			Href:     fmt.Sprintf("/items/%d", i),
			Category: "items",
			Price:    "$1",
		})
	}
	return records
}

func TestNew(t *testing.T) {
	src := &pagedSource{perPage: 1, pages: 1}
	mem := store.NewMemory()

	_, err := New(nil, src, 1, gate.DefaultConfig())
	assert.True(t, errors.IsConfigError(err))
	_, err = New(mem, nil, 1, gate.DefaultConfig())
	assert.True(t, errors.IsConfigError(err))
	_, err = New(mem, src, 0, gate.DefaultConfig())
	assert.True(t, errors.IsConfigError(err))
	_, err = New(mem, src, 1, gate.Config{MaxRetries: -1})
	assert.True(t, errors.IsConfigError(err))
}

func TestRun_FirstRun(t *testing.T) {
	src := &pagedSource{perPage: 3, pages: 2}
	mem := store.NewMemory()
	log := logging.NewTestLogger(t)

	s, err := New(mem, src, 2, gate.DefaultConfig())
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(log.Logger), WithSource("https://shop.example.com/items"))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Attempts)
	assert.Zero(t, report.MinExpected)
	assert.Equal(t, 6, report.Unique)
	assert.Equal(t, 6, report.Total)
	assert.True(t, report.Saved)
	assert.Equal(t, 6, report.Changeset.Summary.Added)
	assert.False(t, report.FinishedAt.Time.Before(report.StartedAt.Time))
	assert.GreaterOrEqual(t, report.Duration(), time.Duration(0))

	saved, err := mem.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, saved.IDs())

	log.AssertContains(t, report.RunID)
	log.AssertContains(t, "Saved catalog")
	log.AssertContains(t, `"source":"https://shop.example.com/items"`)
	log.AssertContains(t, `"operation":"sync"`)
	log.AssertContains(t, `"page":2`)
}

func TestRun_RetriesShortSnapshot(t *testing.T) {
	src := &pagedSource{perPage: 10, pages: 2, distinct: func(attempt int) int {
		if attempt == 1 {
			return 5
		}
		return 20
	}}
	mem := store.NewMemory(seeded(20)...)

	s, err := New(mem, src, 2, gate.Config{MaxRetries: 2, MinExistingRatio: 0.95, MinExistingDelta: 5})
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempts)
	assert.Equal(t, 19, report.MinExpected)
	assert.Equal(t, 20, report.Unique)
	assert.False(t, report.Exhausted)
	assert.False(t, report.KeepLegacy)
	assert.False(t, report.Saved, "nothing changed")
	assert.Equal(t, 4, src.calls)
}

func TestRun_ExhaustedBudgetPreservesCatalog(t *testing.T) {
	src := &pagedSource{perPage: 10, pages: 1, distinct: func(int) int { return 3 }}
	mem := store.NewMemory(seeded(20)...)

	s, err := New(mem, src, 1, gate.Config{MaxRetries: 1, MinExistingRatio: 0.95, MinExistingDelta: 5})
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.True(t, report.Exhausted)
	assert.Equal(t, 2, report.Attempts)
	assert.True(t, report.KeepLegacy)
	assert.Len(t, report.Warnings, 2)
	assert.Equal(t, 20, report.Total)
	assert.Zero(t, report.Records.MissingCount())
}

func TestRun_MarksMissing(t *testing.T) {
	src := &pagedSource{perPage: 20, pages: 1, distinct: func(int) int { return 19 }}
	mem := store.NewMemory(seeded(20)...)

	s, err := New(mem, src, 1, gate.DefaultConfig())
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.False(t, report.KeepLegacy)
	assert.True(t, report.Saved)
	assert.Equal(t, 1, report.Changeset.Summary.MarkedMissing)

	saved, err := mem.Load(context.Background())
	require.NoError(t, err)
	rec, err := saved.Find("20")
	require.NoError(t, err)
	assert.True(t, rec.Missing)
}

func TestRun_DryRun(t *testing.T) {
	src := &pagedSource{perPage: 2, pages: 1}
	mem := store.NewMemory()

	s, err := New(mem, src, 1, gate.DefaultConfig())
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithDryRun(true), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.False(t, report.Saved)
	assert.Equal(t, 2, report.Total)
	assert.Zero(t, mem.Saves())
	assert.Contains(t, report.String(), "dry run")
}

func TestRun_FetchFailureDoesNotSave(t *testing.T) {
	pf := fetcher.PageFetcherFunc(func(context.Context, int) ([]catalog.RawListing, error) {
		return nil, errors.NewFetchError("test", 1, http.StatusBadGateway, "down")
	})
	mem := store.NewMemory(seeded(3)...)

	s, err := New(mem, pf, 1, gate.DefaultConfig())
	require.NoError(t, err)

	_, err = s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Zero(t, mem.Saves())
}

func TestRun_SaveFailure(t *testing.T) {
	src := &pagedSource{perPage: 2, pages: 1}
	mem := store.NewMemory()
	mem.SaveErr = errors.NewIOError("write", "mem", assert.AnError)

	s, err := New(mem, src, 1, gate.DefaultConfig())
	require.NoError(t, err)

	_, err = s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRun_InvalidOptions(t *testing.T) {
	s, err := New(store.NewMemory(), &pagedSource{perPage: 1, pages: 1}, 1, gate.DefaultConfig())
	require.NoError(t, err)

	_, err = s.Run(context.Background(), WithTimeout(-time.Second))
	assert.True(t, errors.IsValidationError(err))
}

func TestRun_DuplicateStoredIDsStillSave(t *testing.T) {
	mem := store.NewMemory(
		catalog.Record{ID: "1", Href: "/a/1"},
		catalog.Record{ID: "", Name: "B", Href: "/b/1"},
	)
	pf := fetcher.PageFetcherFunc(func(context.Context, int) ([]catalog.RawListing, error) {
		out := make([]catalog.RawListing, 0, 20)
		for i := 100; i < 120; i++ {
			out = append(out, catalog.RawListing{Name: fmt.Sprintf("Item %d", i), Href: fmt.Sprintf("/items/%d", i)})
		}
		return out, nil
	})

	s, err := New(mem, pf, 1, gate.DefaultConfig())
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.True(t, report.Saved)
	assert.Equal(t, 21, report.Total)

	saved, err := mem.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, saved.Validate())
	rec, err := saved.Find("1")
	require.NoError(t, err)
	assert.Equal(t, "/a/1", rec.Href)
	assert.True(t, rec.Missing)
}

func TestRun_SavesReorderedSnapshot(t *testing.T) {
	mem := store.NewMemory(seeded(20)...)
	pf := fetcher.PageFetcherFunc(func(context.Context, int) ([]catalog.RawListing, error) {
		out := make([]catalog.RawListing, 0, 20)
		for i := 20; i >= 1; i-- {
			out = append(out, catalog.RawListing{
				Name:  fmt.Sprintf("Item %d", i),
				Href:  fmt.Sprintf("/items/%d", i),
				Price: "$1",
			})
		}
		return out, nil
	})

	s, err := New(mem, pf, 1, gate.DefaultConfig())
	require.NoError(t, err)

	report, err := s.Run(context.Background(), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.False(t, report.Changeset.HasChanges())
	assert.True(t, report.Saved)

	saved, err := mem.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20", saved[0].ID)
	assert.Equal(t, "1", saved[19].ID)
}
