package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartsvc "github.com/SoiBeTiiii/datn-sub000/internal/cart"
	"github.com/SoiBeTiiii/datn-sub000/internal/catalog"
	"github.com/SoiBeTiiii/datn-sub000/internal/promotions"
	"github.com/SoiBeTiiii/datn-sub000/internal/session"
	"github.com/SoiBeTiiii/datn-sub000/internal/wishlist"
	"github.com/SoiBeTiiii/datn-sub000/pkg/auth"
	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
)

type stubPromos struct{}

func (stubPromos) FetchActive(context.Context) (map[promotions.Key]promotions.Promotion, error) {
	return map[promotions.Key]promotions.Promotion{}, nil
}

type stubVariants struct{}

func (stubVariants) VariantDisplayInfo(_ context.Context, variantID int64) (*catalog.VariantInfo, error) {
	return &catalog.VariantInfo{VariantID: variantID}, nil
}

type memoryCartSnapshots struct {
	mu    sync.Mutex
	snaps map[string][]cartsvc.LineItem
}

func (m *memoryCartSnapshots) Save(_ context.Context, sessionID string, items []cartsvc.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snaps == nil {
		m.snaps = make(map[string][]cartsvc.LineItem)
	}
	m.snaps[sessionID] = append([]cartsvc.LineItem(nil), items...)
	return nil
}

func (m *memoryCartSnapshots) Load(_ context.Context, sessionID string) ([]cartsvc.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[sessionID], nil
}

type stubWishlistBackend struct{}

func (stubWishlistBackend) FetchWishlist(context.Context, string) ([]wishlist.Entry, error) {
	return []wishlist.Entry{{Slug: "red-hoodie"}}, nil
}

func (stubWishlistBackend) AddEntry(context.Context, string, string) error    { return nil }
func (stubWishlistBackend) RemoveEntry(context.Context, string, string) error { return nil }

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	registry, err := session.NewRegistry(session.RegistryParams{
		Promotions: stubPromos{},
		Variants:   stubVariants{},
		Snapshots:  &memoryCartSnapshots{},
	})
	require.NoError(t, err)

	cache, err := wishlist.NewCache(wishlist.CacheParams{Backend: stubWishlistBackend{}})
	require.NoError(t, err)

	return NewRouter(cfg, nil, nil, registry, cache, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "storefront-test"},
	}
}

func TestRouter_HealthLive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testConfig())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-Storefront-Env"))
}

func TestRouter_CartFetchMintsSessionID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testConfig())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Session-Id"))
}

func TestRouter_CartAddItemRoundTrip(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testConfig())

	body := `{"product_id":1,"variant_id":10,"name":"Red Hoodie","price":1000,"original_price":1200,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "session-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "session-a", rec.Header().Get("X-Session-Id"))

	var envelope struct {
		Data struct {
			SessionID string            `json:"session_id"`
			Items     []cartsvc.LineItem `json:"items"`
			Totals    cartsvc.Totals    `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "session-a", envelope.Data.SessionID)
	require.Len(t, envelope.Data.Items, 1)
	require.Equal(t, 2, envelope.Data.Totals.Items)
}

func TestRouter_WishlistRequiresAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testConfig())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_WishlistWithToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	router := newTestRouter(t, cfg)

	token, err := auth.MintSessionToken(cfg.JWT, time.Now(), "ana@example.com", "session-a", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "red-hoodie")
}

func TestRouter_InvalidTokenRejected(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
