package session

import (
	"context"
	"sync"
	"testing"

	"github.com/SoiBeTiiii/datn-sub000/internal/cart"
	"github.com/SoiBeTiiii/datn-sub000/internal/catalog"
	"github.com/SoiBeTiiii/datn-sub000/internal/promotions"
)

type stubPromos struct{}

func (stubPromos) FetchActive(context.Context) (map[promotions.Key]promotions.Promotion, error) {
	return map[promotions.Key]promotions.Promotion{}, nil
}

type stubVariants struct{}

func (stubVariants) VariantDisplayInfo(_ context.Context, variantID int64) (*catalog.VariantInfo, error) {
	return &catalog.VariantInfo{VariantID: variantID}, nil
}

type memorySnapshots struct {
	mu    sync.Mutex
	snaps map[string][]cart.LineItem
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{snaps: make(map[string][]cart.LineItem)}
}

func (m *memorySnapshots) Save(_ context.Context, sessionID string, items []cart.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[sessionID] = append([]cart.LineItem(nil), items...)
	return nil
}

func (m *memorySnapshots) Load(_ context.Context, sessionID string) ([]cart.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[sessionID], nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(RegistryParams{
		Promotions: stubPromos{},
		Variants:   stubVariants{},
		Snapshots:  newMemorySnapshots(),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func TestRegistry_SameSessionSharesStore(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	ctx := context.Background()

	first, err := registry.Store(ctx, "session-a")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	second, err := registry.Store(ctx, "session-a")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if first != second {
		t.Fatal("expected the same store for one session")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", registry.Len())
	}
}

func TestRegistry_DistinctSessionsGetDistinctStores(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	ctx := context.Background()

	a, _ := registry.Store(ctx, "session-a")
	b, _ := registry.Store(ctx, "session-b")
	if a == b {
		t.Fatal("expected distinct stores per session")
	}

	a.AddItem(ctx, cart.LineItem{VariantID: 1, Name: "Red Hoodie", Price: 1000, Quantity: 1})
	if len(b.Items()) != 0 {
		t.Fatal("items leaked across sessions")
	}
}

func TestRegistry_EmptySessionIDRejected(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	if _, err := registry.Store(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestRegistry_EvictDropsStore(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	ctx := context.Background()

	first, _ := registry.Store(ctx, "session-a")
	registry.Evict("session-a")
	if registry.Len() != 0 {
		t.Fatalf("expected eviction, got %d live sessions", registry.Len())
	}

	second, _ := registry.Store(ctx, "session-a")
	if first == second {
		t.Fatal("expected a fresh store after eviction")
	}
}

func TestRegistry_ConcurrentAccessSingleStore(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	stores := make([]*cart.Store, 8)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := registry.Store(ctx, "session-a")
			if err != nil {
				t.Errorf("Store: %v", err)
				return
			}
			stores[i] = store
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(stores); i++ {
		if stores[i] != stores[0] {
			t.Fatal("concurrent callers received different stores")
		}
	}
}
