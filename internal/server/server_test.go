package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/internal/appcontext"
	"github.com/agentstation/shelf/internal/config"
	"github.com/agentstation/shelf/internal/fetcher"
	"github.com/agentstation/shelf/pkg/catalog"
	"github.com/agentstation/shelf/pkg/store"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestServer(t *testing.T, st *store.Memory, pf fetcher.PageFetcher) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Source.URL = "https://shop.example.com/items"
	cfg.Source.Pages = 1
	cfg.Gate.Backoff = 0

	app := &appcontext.Mock{
		SyncConfigFunc: func() (*config.Config, error) { return cfg, nil },
		StoreFunc:      func() (store.Store, error) { return st, nil },
		FetcherFunc:    func() (fetcher.PageFetcher, error) { return pf, nil },
	}

	srv, err := New(app, DefaultConfig())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func listings(n int) fetcher.PageFetcher {
	return fetcher.PageFetcherFunc(func(context.Context, int) ([]catalog.RawListing, error) {
		out := make([]catalog.RawListing, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, catalog.RawListing{
				Name: fmt.Sprintf("Item %d", i),
				Href: fmt.Sprintf("/items/%d", i),
			})
		}
		return out, nil
	})
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Port = 70000
	_, err = New(&appcontext.Mock{}, cfg)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), listings(0))

	code, env := call(t, http.MethodGet, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "healthy")

	code, _ = call(t, http.MethodGet, ts.URL+"/api/v1/ready")
	assert.Equal(t, http.StatusOK, code)
}

func TestRecords(t *testing.T) {
	st := store.NewMemory(
		catalog.Record{ID: "1", Name: "Hammer", Href: "/tools/1", Category: "tools"},
		catalog.Record{ID: "2", Name: "Kite", Href: "/toys/2", Category: "toys", Missing: true},
	)
	ts := newTestServer(t, st, listings(0))

	code, env := call(t, http.MethodGet, ts.URL+"/api/v1/records?missing=true")
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Records []catalog.Record `json:"records"`
		Total   int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "2", page.Records[0].ID)

	code, env = call(t, http.MethodGet, ts.URL+"/api/v1/records/1")
	require.Equal(t, http.StatusOK, code)
	var rec catalog.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "Hammer", rec.Name)

	code, env = call(t, http.MethodGet, ts.URL+"/api/v1/records/404")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, env = call(t, http.MethodGet, ts.URL+"/api/v1/records?limit=abc")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestSyncInvalidatesCache(t *testing.T) {
	st := store.NewMemory()
	ts := newTestServer(t, st, listings(3))

	_, env := call(t, http.MethodGet, ts.URL+"/api/v1/records")
	assert.Contains(t, string(env.Data), `"total":0`)

	code, env := call(t, http.MethodPost, ts.URL+"/api/v1/sync")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"saved":true`)

	_, env = call(t, http.MethodGet, ts.URL+"/api/v1/records")
	assert.Contains(t, string(env.Data), `"total":3`)

	_, env = call(t, http.MethodGet, ts.URL+"/api/v1/stats")
	assert.Contains(t, string(env.Data), `"last_sync"`)
}

func TestSyncDryRun(t *testing.T) {
	st := store.NewMemory()
	ts := newTestServer(t, st, listings(2))

	code, env := call(t, http.MethodPost, ts.URL+"/api/v1/sync?dry_run=true")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"saved":false`)
	assert.Equal(t, 0, st.Saves())

	code, _ = call(t, http.MethodPost, ts.URL+"/api/v1/sync?dry_run=perhaps")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSyncRejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	pf := fetcher.PageFetcherFunc(func(ctx context.Context, _ int) ([]catalog.RawListing, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []catalog.RawListing{{Name: "Item", Href: "/items/1"}}, nil
	})
	ts := newTestServer(t, store.NewMemory(), pf)

	done := make(chan int, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/api/v1/sync", "application/json", nil)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first sync did not start")
	}

	code, env := call(t, http.MethodPost, ts.URL+"/api/v1/sync")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), listings(0))

	resp, err := http.Get(ts.URL + "/api/v1/sync")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
