package promotions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestFetchActiveDecodesPromotionMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/promotions/active", r.URL.Path)
		require.Equal(t, "k", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"variant_10":{"type":"buy_get","conditions":{"buyQuantity":3,"getQuantity":1,"giftProductVariantId":77}},
			"product_4":{"type":"discount","conditions":{"discountType":"percentage","value":15}}
		}}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, APIKey: "k"})
	require.NoError(t, err)

	active, err := client.FetchActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)

	buyGet, ok := active[VariantKey(10)]
	require.True(t, ok)
	require.Equal(t, TypeBuyGet, buyGet.Type)
	require.Equal(t, 3, buyGet.Conditions.BuyQuantity)
	require.Equal(t, int64(77), buyGet.Conditions.GiftProductVariantID)

	discount, ok := active[ProductKey(4)]
	require.True(t, ok)
	require.Equal(t, TypeDiscount, discount.Type)
	require.Equal(t, DiscountPercentage, discount.Conditions.DiscountType)
}

func TestFetchActiveNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.FetchActive(context.Background())
	require.Error(t, err)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.BackendConfig{})
	require.Error(t, err)
}
