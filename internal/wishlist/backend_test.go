package wishlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
)

func newBackendForServer(t *testing.T, server *httptest.Server) *HTTPBackend {
	t.Helper()
	backend, err := NewHTTPBackend(config.BackendConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return backend
}

func TestHTTPBackend_FetchWishlist(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wishlists", r.URL.Path)
		require.Equal(t, "ana@example.com", r.URL.Query().Get("user"))
		require.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":[{"slug":"red-hoodie","id":7}]}}`))
	}))
	defer server.Close()

	backend := newBackendForServer(t, server)
	entries, err := backend.FetchWishlist(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "red-hoodie", entries[0].Slug)
}

func TestHTTPBackend_FetchWishlist_Unauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	backend := newBackendForServer(t, server)
	_, err := backend.FetchWishlist(context.Background(), "ana@example.com")
	require.Error(t, err)

	apiErr := pkgerrors.As(err)
	require.NotNil(t, apiErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, apiErr.Code())
}

func TestHTTPBackend_AddEntry_ConflictIsSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	backend := newBackendForServer(t, server)
	require.NoError(t, backend.AddEntry(context.Background(), "ana@example.com", "red-hoodie"))
}

func TestHTTPBackend_RemoveEntry_NotFoundIsSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/wishlists/red-hoodie", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	backend := newBackendForServer(t, server)
	require.NoError(t, backend.RemoveEntry(context.Background(), "ana@example.com", "red-hoodie"))
}

func TestHTTPBackend_RemoveEntry_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	backend := newBackendForServer(t, server)
	err := backend.RemoveEntry(context.Background(), "ana@example.com", "red-hoodie")
	require.Error(t, err)
}
