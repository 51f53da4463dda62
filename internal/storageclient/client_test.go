package storageclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestClient_AvailableTrueOnHealthyStore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.True(t, c.Available(context.Background()))
}

func TestClient_AvailableFalseOnFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.False(t, c.Available(context.Background()))
}

func TestClient_SaveSucceeds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/k", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	})
	ok := c.Save(context.Background(), "k", json.RawMessage(`1`))
	assert.True(t, ok)
}

func TestClient_SaveFailsOnServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ok := c.Save(context.Background(), "k", json.RawMessage(`1`))
	assert.False(t, ok)
}

func TestClient_LoadReturnsValueOnHit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"key":"k","value":{"n":1}}}`))
	})

	value, ok := c.Load(context.Background(), "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(value))
}

func TestClient_LoadReturnsFalseOn404(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, ok := c.Load(context.Background(), "nope")
	assert.False(t, ok)
}

func TestClient_DeleteSucceeds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ok := c.Delete(context.Background(), "k")
	assert.True(t, ok)
}

func TestClient_DisabledClientPerformsNoIO(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	c.Disable()
	assert.False(t, c.IsEnabled())

	assert.False(t, c.Available(context.Background()))
	assert.False(t, c.Save(context.Background(), "k", json.RawMessage(`1`)))
	_, ok := c.Load(context.Background(), "k")
	assert.False(t, ok)
	assert.False(t, c.Delete(context.Background(), "k"))
	assert.False(t, called)

	c.Enable()
	assert.True(t, c.IsEnabled())
}
