package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendapos/venda/internal/authz"
)

type staticRepo struct {
	endpoints []Endpoint
}

func (r *staticRepo) List(context.Context, authz.AccessScope) ([]Endpoint, error) {
	return r.endpoints, nil
}
func (r *staticRepo) Get(context.Context, authz.AccessScope, string) (Endpoint, error) {
	return Endpoint{}, nil
}
func (r *staticRepo) Create(_ context.Context, e Endpoint) (Endpoint, error) { return e, nil }
func (r *staticRepo) Update(context.Context, authz.AccessScope, string, Endpoint) error {
	return nil
}
func (r *staticRepo) Delete(context.Context, authz.AccessScope, string) error { return nil }
func (r *staticRepo) ListActive(_ context.Context, tenantID string) ([]Endpoint, error) {
	var active []Endpoint
	for _, e := range r.endpoints {
		if e.TenantID == tenantID && e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func TestDispatchSignsAndFansOut(t *testing.T) {
	var mu sync.Mutex
	received := map[string]string{}

	newReceiver := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var p Payload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			mu.Lock()
			received[name] = r.Header.Get("X-Venda-Signature")
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
	}
	first := newReceiver("first")
	defer first.Close()
	second := newReceiver("second")
	defer second.Close()

	repo := &staticRepo{endpoints: []Endpoint{
		{ID: "ep-1", TenantID: "tenant-a", URL: first.URL, Secret: "s1", Active: true},
		{ID: "ep-2", TenantID: "tenant-a", URL: second.URL, Secret: "s2", Active: true},
		{ID: "ep-3", TenantID: "tenant-b", URL: second.URL, Secret: "s3", Active: true},
	}}
	d := NewDispatcher(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := d.Dispatch(context.Background(), "tenant-a", EventTransactionCreated, json.RawMessage(`{"id":"tx-1"}`))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	require.NotEmpty(t, received["first"])
	require.NotEmpty(t, received["second"])
	require.NotEqual(t, received["first"], received["second"])
}

func TestDispatchSkipsUnsubscribedEvents(t *testing.T) {
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := &staticRepo{endpoints: []Endpoint{
		{ID: "ep-1", TenantID: "tenant-a", URL: srv.URL, Secret: "s1", Active: true, Events: []string{EventTransactionVoided}},
	}}
	d := NewDispatcher(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, d.Dispatch(context.Background(), "tenant-a", EventTransactionCreated, json.RawMessage(`{}`)))

	mu.Lock()
	defer mu.Unlock()
	require.Zero(t, hits)
}

func TestDispatchReportsFailedEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := &staticRepo{endpoints: []Endpoint{
		{ID: "ep-1", TenantID: "tenant-a", URL: srv.URL, Secret: "s1", Active: true},
	}}
	d := NewDispatcher(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := d.Dispatch(context.Background(), "tenant-a", EventTest, json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestSignIsDeterministic(t *testing.T) {
	body := []byte(`{"event":"webhook.test"}`)
	require.Equal(t, Sign("secret", body), Sign("secret", body))
	require.NotEqual(t, Sign("secret", body), Sign("other", body))
}
