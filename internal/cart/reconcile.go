package cart

import (
	"context"
	"time"

	"github.com/SoiBeTiiii/datn-sub000/internal/promotions"
	"go.uber.org/multierr"
)

// Reconcile re-derives the gift lines and discount overrides from the current
// promotion rules. Every pass is a full replacement: existing gifts are
// discarded and rebuilt from the real items, so repeated runs with unchanged
// inputs produce identical results.
//
// Overlapping passes are resolved by generation: each pass captures the real
// items under the latest generation, and only the pass still holding that
// generation at completion installs its result. A stale pass ends quietly.
//
// Promotion fetch failure downgrades the cart to "no gifts" instead of keeping
// a stale gift set; real items are untouched.
func (s *Store) Reconcile(ctx context.Context) {
	s.mu.Lock()
	s.reconcileGen++
	gen := s.reconcileGen
	real := realItems(s.items)
	s.mu.Unlock()

	start := time.Now()
	gifts, overrides, err := s.deriveGifts(ctx, real)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, s.sessionID), "gift reconciliation failed", err)
		}
		gifts = nil
		overrides = nil
	}

	s.mu.Lock()
	if gen != s.reconcileGen {
		s.mu.Unlock()
		return
	}
	next := realItems(s.items)
	for i := range next {
		next[i].SaleDiscountPrice = nil
		next[i].FinalDiscountPrice = nil
		if price, ok := overrides[next[i].IdentityKey()]; ok {
			sale := price
			final := price
			next[i].SaleDiscountPrice = &sale
			next[i].FinalDiscountPrice = &final
		}
	}
	s.items = append(next, gifts...)
	s.mu.Unlock()

	s.persist(ctx)
	s.metrics.ObserveReconcile(time.Since(start), len(gifts), err)
}

// deriveGifts computes the gift lines and per-line discount overrides for the
// captured real items. A variant lookup failure skips that gift and the rest
// of the pass continues; the collected lookup errors are logged once.
func (s *Store) deriveGifts(ctx context.Context, real []LineItem) ([]LineItem, map[string]int64, error) {
	if len(real) == 0 {
		return nil, nil, nil
	}

	active, err := s.promos.FetchActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	var gifts []LineItem
	overrides := make(map[string]int64)
	var lookupErrs error

	for _, li := range real {
		promo, ok := promotionFor(active, li)
		if !ok {
			continue
		}

		switch promo.Type {
		case promotions.TypeBuyGet:
			units := promo.GiftUnits(li.Quantity)
			if units <= 0 {
				continue
			}
			info, err := s.variants.VariantDisplayInfo(ctx, promo.Conditions.GiftProductVariantID)
			if err != nil {
				lookupErrs = multierr.Append(lookupErrs, err)
				continue
			}
			gifts = append(gifts, LineItem{
				ProductID:     info.ProductID,
				VariantID:     info.VariantID,
				Name:          info.Name,
				Image:         info.Image,
				Price:         0,
				OriginalPrice: info.OriginalPrice,
				Quantity:      units,
				IsGift:        true,
			})
		case promotions.TypeDiscount:
			overrides[li.IdentityKey()] = promo.SalePrice(li.Price)
		}
	}

	if lookupErrs != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(s.logg.WithSessionID(ctx, s.sessionID), "error", lookupErrs.Error()), "gift variant lookup skipped items")
	}

	return gifts, overrides, nil
}

// promotionFor resolves the rule for a line item, preferring the variant key
// over the product key.
func promotionFor(active map[promotions.Key]promotions.Promotion, li LineItem) (promotions.Promotion, bool) {
	if promo, ok := active[promotions.VariantKey(li.VariantID)]; ok {
		return promo, true
	}
	if promo, ok := active[promotions.ProductKey(li.ProductID)]; ok {
		return promo, true
	}
	return promotions.Promotion{}, false
}

func realItems(items []LineItem) []LineItem {
	var real []LineItem
	for _, li := range items {
		if li.IsGift {
			continue
		}
		real = append(real, li)
	}
	return cloneItems(real)
}
