package cart

import (
	"context"
	"sync"

	"github.com/SoiBeTiiii/datn-sub000/internal/catalog"
	"github.com/SoiBeTiiii/datn-sub000/internal/promotions"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
	"github.com/SoiBeTiiii/datn-sub000/pkg/metrics"
)

// PromotionSource looks up the active promotion rules.
type PromotionSource interface {
	FetchActive(ctx context.Context) (map[promotions.Key]promotions.Promotion, error)
}

// VariantSource resolves display data for gift hydration.
type VariantSource interface {
	VariantDisplayInfo(ctx context.Context, variantID int64) (*catalog.VariantInfo, error)
}

// SnapshotStore persists the full item list between visits.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, items []LineItem) error
	Load(ctx context.Context, sessionID string) ([]LineItem, error)
}

// StoreParams groups dependencies for a session's cart store.
type StoreParams struct {
	SessionID  string
	Promotions PromotionSource
	Variants   VariantSource
	Snapshots  SnapshotStore
	Logger     *logger.Logger
	Metrics    *metrics.SessionMetrics
}

// Store owns one session's cart: the real line items plus the gift items
// derived from active promotions. All mutations re-run gift reconciliation
// and persist a snapshot.
type Store struct {
	mu        sync.Mutex
	sessionID string
	items     []LineItem

	// reconcileGen guards against a slow reconciliation overwriting the
	// result of a newer one; only the pass holding the latest generation
	// installs its gift set.
	reconcileGen uint64

	promos    PromotionSource
	variants  VariantSource
	snapshots SnapshotStore
	logg      *logger.Logger
	metrics   *metrics.SessionMetrics
}

// NewStore builds a cart store for the given session.
func NewStore(params StoreParams) (*Store, error) {
	if params.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if params.Promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion source is required")
	}
	if params.Variants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant source is required")
	}
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	return &Store{
		sessionID: params.SessionID,
		promos:    params.Promotions,
		variants:  params.Variants,
		snapshots: params.Snapshots,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// Restore seeds the store from a persisted snapshot. Missing snapshots leave
// the cart empty; a corrupt snapshot is dropped rather than surfaced.
func (s *Store) Restore(ctx context.Context) error {
	items, err := s.snapshots.Load(ctx, s.sessionID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, s.sessionID), "cart snapshot load failed, starting empty")
		}
		return nil
	}
	s.mu.Lock()
	s.items = cloneItems(items)
	s.mu.Unlock()
	return nil
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Items returns a copy of the current item list, real items first, gifts last.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Totals summarizes the current cart.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.items)
}

// AddItem merges the item into the cart. An existing real item with the same
// (variant, options) identity absorbs the quantity and keeps its own price
// and display metadata; otherwise the item is appended. Gift lines never
// participate in the merge.
func (s *Store) AddItem(ctx context.Context, item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.IsGift = false
	item.Options = normalizeOptions(item.Options)

	s.mu.Lock()
	key := item.IdentityKey()
	merged := false
	for i := range s.items {
		if s.items[i].IsGift {
			continue
		}
		if s.items[i].IdentityKey() == key {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.afterMutation(ctx)
}

// RemoveItem deletes the matching real item entirely. Gift lines are not
// user-removable; they disappear on the next reconciliation if their trigger
// is gone. Missing items are a no-op.
func (s *Store) RemoveItem(ctx context.Context, variantID int64, options []Option) {
	key := identityKey(variantID, options)

	s.mu.Lock()
	kept := s.items[:0]
	for _, li := range s.items {
		if !li.IsGift && li.IdentityKey() == key {
			continue
		}
		kept = append(kept, li)
	}
	s.items = kept
	s.mu.Unlock()

	s.afterMutation(ctx)
}

// IncreaseQuantity adds one unit to the matching real item.
func (s *Store) IncreaseQuantity(ctx context.Context, variantID int64, options []Option) {
	s.adjustQuantity(ctx, variantID, options, +1)
}

// DecreaseQuantity removes one unit from the matching real item. Quantity
// floors at 1; removal is a separate explicit action.
func (s *Store) DecreaseQuantity(ctx context.Context, variantID int64, options []Option) {
	s.adjustQuantity(ctx, variantID, options, -1)
}

func (s *Store) adjustQuantity(ctx context.Context, variantID int64, options []Option, delta int) {
	key := identityKey(variantID, options)

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].IsGift {
			continue
		}
		if s.items[i].IdentityKey() == key {
			next := s.items[i].Quantity + delta
			if next < 1 {
				next = 1
			}
			s.items[i].Quantity = next
			break
		}
	}
	s.mu.Unlock()

	s.afterMutation(ctx)
}

// afterMutation persists the post-mutation state, then re-derives gifts.
// Reconciliation failure never loses real items; the snapshot written here is
// already durable before any network call happens.
func (s *Store) afterMutation(ctx context.Context) {
	s.persist(ctx)
	s.Reconcile(ctx)
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	items := cloneItems(s.items)
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, s.sessionID, items); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, s.sessionID), "cart snapshot save failed", err)
	}
}
