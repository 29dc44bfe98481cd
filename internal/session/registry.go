package session

import (
	"context"
	"sync"

	"github.com/SoiBeTiiii/datn-sub000/internal/cart"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/metrics"
)

// RegistryParams groups the dependencies every cart store shares.
type RegistryParams struct {
	Promotions cart.PromotionSource
	Variants   cart.VariantSource
	Snapshots  cart.SnapshotStore
	Logger     *logger.Logger
	Metrics    *metrics.SessionMetrics
}

// Registry hands out one cart store per live session, restoring each from its
// durable snapshot on first use.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*cart.Store
	params RegistryParams
}

// NewRegistry builds the session registry.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion source is required")
	}
	if params.Variants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant source is required")
	}
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	return &Registry{
		stores: make(map[string]*cart.Store),
		params: params,
	}, nil
}

// Store returns the cart store for the session, creating and restoring it on
// first access. Concurrent callers for the same session share one store.
func (r *Registry) Store(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	r.mu.Lock()
	if store, ok := r.stores[sessionID]; ok {
		r.mu.Unlock()
		return store, nil
	}
	r.mu.Unlock()

	store, err := cart.NewStore(cart.StoreParams{
		SessionID:  sessionID,
		Promotions: r.params.Promotions,
		Variants:   r.params.Variants,
		Snapshots:  r.params.Snapshots,
		Logger:     r.params.Logger,
		Metrics:    r.params.Metrics,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Restore(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.stores[sessionID]; ok {
		// another request restored the same session first
		return existing, nil
	}
	r.stores[sessionID] = store
	return store, nil
}

// Evict drops a session's store from memory. The durable snapshot remains.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
