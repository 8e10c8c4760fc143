package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/oceaninsight/internal/api"
	"github.com/phrazzld/oceaninsight/internal/api/shared"
	"github.com/phrazzld/oceaninsight/internal/config"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/platform/memslot"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "server-test"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", ShutdownTimeoutSeconds: 2},
		Storage: config.StorageConfig{
			Backend: config.BackendMemory,
			Key:     testKey,
		},
	}
}

// brokenWrites fails every Put after the collection has been loaded.
type brokenWrites struct {
	*memslot.SlotStore
}

func (b brokenWrites) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func newTestApp(t *testing.T, slots store.SlotStore) *application {
	t.Helper()
	_, l := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), testConfig(), l, slots)
	require.NoError(t, err)
	return app
}

func request(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApplicationLoadsPersistedEntries(t *testing.T) {
	slots := memslot.New()
	blob := `[{"id":"4f1c2a8e-5b7d-4c3e-9a1f-2b3c4d5e6f70","title":"Eddy","content":"Mesoscale eddies",` +
		`"tags":[],"category":"physical","status":"draft",` +
		`"dateCreated":"2026-05-01T10:00:00.000Z","lastModified":"2026-05-01T10:00:00.000Z"}]`
	require.NoError(t, slots.Put(context.Background(), testKey, []byte(blob)))

	app := newTestApp(t, slots)
	assert.Equal(t, 1, app.memoryStore.Len())
}

func TestNewApplicationSurvivesCorruptCollection(t *testing.T) {
	buf, l := logger.NewTestLogger(t)
	slots := memslot.New()
	require.NoError(t, slots.Put(context.Background(), testKey, []byte(`{not json`)))

	app, err := newApplication(context.Background(), testConfig(), l, slots)
	require.NoError(t, err)
	assert.Equal(t, 0, app.memoryStore.Len())
	assert.Contains(t, buf.String(), "Starting with an empty collection")
}

func TestNewApplicationRejectsBadKey(t *testing.T) {
	_, l := logger.NewTestLogger(t)
	cfg := testConfig()
	cfg.Storage.Key = "../escape"

	_, err := newApplication(context.Background(), cfg, l, memslot.New())
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	router := newTestApp(t, memslot.New()).setupRouter()

	rec := request(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestEntryLifecycleThroughRouter(t *testing.T) {
	slots := memslot.New()
	router := newTestApp(t, slots).setupRouter()

	rec := request(t, router, http.MethodPost, "/api/entries",
		`{"title":"Eddy","content":"Mesoscale eddies transport heat","category":"physical","tags":["physics"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get(shared.PersistenceWarningHeader))

	var created api.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = request(t, router, http.MethodPost, "/api/entries/"+created.ID+"/tags", `{"tag":"gulf-stream"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/entries?q=gulf&sort=alphabetical", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.EntryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, []string{"physics", "gulf-stream"}, list.Entries[0].Tags)

	persisted, err := slots.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Contains(t, string(persisted), "gulf-stream")

	rec = request(t, router, http.MethodDelete, "/api/entries/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/entries/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `"Memory entry not found"`, mustField(t, rec.Body.Bytes(), "error"))
}

func TestPersistenceFailureIsAWarning(t *testing.T) {
	router := newTestApp(t, brokenWrites{memslot.New()}).setupRouter()

	rec := request(t, router, http.MethodPost, "/api/entries", `{"title":"Kelp","content":"Kelp forests"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(shared.PersistenceWarningHeader))

	rec = request(t, router, http.MethodGet, "/api/entries", "")
	assert.Contains(t, rec.Body.String(), "Kelp forests")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	slots := memslot.New()
	app := newTestApp(t, slots)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = slots.Get(context.Background(), testKey)
	assert.ErrorIs(t, err, store.ErrClosed)
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return string(m[field])
}

func TestRemoveTagWithReservedCharacters(t *testing.T) {
	router := newTestApp(t, memslot.New()).setupRouter()

	rec := request(t, router, http.MethodPost, "/api/entries",
		`{"title":"Langs","content":"Model code","tags":["c++","a/b","deep sea"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created api.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	for _, segment := range []string{"c%2B%2B", "a%2Fb"} {
		rec = request(t, router, http.MethodDelete, "/api/entries/"+created.ID+"/tags/"+segment, "")
		require.Equal(t, http.StatusOK, rec.Code, segment)
	}

	var got api.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"deep sea"}, got.Tags)
}
