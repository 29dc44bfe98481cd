package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestVariantDisplayInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/variants/77", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"variant_id":77,"product_id":9,"name":"Mini Serum","image":"serum.jpg","original_price":45000}}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	info, err := client.VariantDisplayInfo(context.Background(), 77)
	require.NoError(t, err)
	require.Equal(t, int64(77), info.VariantID)
	require.Equal(t, "Mini Serum", info.Name)
	require.Equal(t, int64(45000), info.OriginalPrice)
}

func TestVariantDisplayInfoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.VariantDisplayInfo(context.Background(), 12)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVariantDisplayInfoRejectsZeroID(t *testing.T) {
	client, err := NewClient(config.BackendConfig{BaseURL: "http://localhost"})
	require.NoError(t, err)

	_, err = client.VariantDisplayInfo(context.Background(), 0)
	require.Error(t, err)
}
