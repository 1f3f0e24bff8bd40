package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/observability"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/memory"
)

const scenario = `{
  "nodes": [
    {"id": "0x2::coin", "type": "Module", "name": "coin"},
    {"id": "0x2::coin::value", "type": "Function", "name": "value", "module_id": "0x2::coin", "source": "public fun value()"}
  ],
  "edges": [
    {"from": "0x2::coin", "to": "0x2::coin::value", "type": "DEFINES"},
    {"from": "0x2::coin", "to": "0x9::gone"}
  ]
}`

func newTestServer(t *testing.T, st store.Store, opts Options) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	ts := httptest.NewServer(New(runner, st, logger, opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestImport(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st, Options{Target: "mem"})

	resp := post(t, ts.URL+"/v1/imports", scenario)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.NotNil(t, res.Import)
	assert.Equal(t, 2, res.Import.NodesCreated)
	assert.Equal(t, 1, res.Import.EdgesCreated)
	assert.Equal(t, 1, res.Import.EdgesSkipped)
	assert.Equal(t, 2, res.Stats.Nodes)
	assert.Equal(t, 2, st.NodeCount())

	fn, ok := st.Node("Function", "0x2::coin::value")
	require.True(t, ok)
	assert.Equal(t, "Function value defined in 0x2::coin. Code: public fun value()", fn.String("node_description"))
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"not json", "nodes", http.StatusBadRequest, errors.ErrCodeInvalidDocument},
		{"missing id", `{"nodes":[{"type":"Module"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidNode},
		{"unsafe label", `{"nodes":[{"id":"x","type":"Bad Label"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidLabel},
		{"unsafe relationship", `{"nodes":[],"edges":[{"from":"a","to":"b","type":"X]->()"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidRelationship},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			ts := newTestServer(t, st, Options{})

			resp := post(t, ts.URL+"/v1/imports", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
			assert.Zero(t, st.NodeCount(), "nothing may be written")
		})
	}
}

func TestImportBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, memory.New(), Options{MaxBodyBytes: 16})
	resp := post(t, ts.URL+"/v1/imports", scenario)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

type unavailableStore struct{}

func (unavailableStore) ExecuteWrite(context.Context, store.TxFunc) error {
	return errors.New(errors.ErrCodeStoreUnavailable, "connection refused")
}

func (unavailableStore) Close(context.Context) error { return nil }

func TestImportStoreUnavailable(t *testing.T) {
	ts := newTestServer(t, unavailableStore{}, Options{})
	resp := post(t, ts.URL+"/v1/imports", scenario)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(errors.ErrCodeStoreUnavailable), body.Code)
}

func TestImportSkipUnchanged(t *testing.T) {
	st := memory.New()
	logger := log.New(io.Discard)
	ledger, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(ledger, nil, logger)
	ts := httptest.NewServer(New(runner, st, logger, Options{Target: "mem"}).Handler())
	defer ts.Close()

	first := post(t, ts.URL+"/v1/imports?skip_unchanged=true", scenario)
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := post(t, ts.URL+"/v1/imports?skip_unchanged=true", scenario)
	require.Equal(t, http.StatusOK, second.StatusCode)
	var res pipeline.Result
	require.NoError(t, json.NewDecoder(second.Body).Decode(&res))
	assert.True(t, res.LedgerHit)
	assert.Nil(t, res.Import)
}

func TestHealth(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st, Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, ServiceName, body.Service)
	assert.Equal(t, "up", body.Store)

	_ = st.Close(context.Background())
	resp2, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Store)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, memory.New(), Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "generated id should be a UUID")

	want := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, want)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, want, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, memory.New(), Options{})
	resp, err := http.Get(ts.URL + "/v1/imports")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, memory.New(), Options{})
	post(t, ts.URL+"/v1/imports", scenario)
	post(t, ts.URL+"/v1/imports", "{")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(errors.ErrCodeImportFailed, errors.New(errors.ErrCodeInvalidLabel, "x"), "import"), http.StatusBadRequest},
		{errors.Wrap(errors.ErrCodeImportFailed, errors.New(errors.ErrCodeStoreUnavailable, "x"), "import"), http.StatusServiceUnavailable},
		{errors.Wrap(errors.ErrCodeImportFailed, context.Canceled, "import"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	logger := log.New(io.Discard)
	srv := New(pipeline.NewRunner(nil, nil, logger), memory.New(), logger, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
