package cart

import (
	"fmt"
	"sort"
	"strings"
)

// Option is a single chosen product option (e.g. color, size).
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LineItem is one cart row. Display metadata is denormalized at add-time so
// the cart renders without re-fetching the catalog.
type LineItem struct {
	ProductID     int64    `json:"product_id"`
	VariantID     int64    `json:"variant_id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	Quantity      int      `json:"quantity"`
	Options       []Option `json:"options,omitempty"`
	IsGift        bool     `json:"is_gift"`

	// Discount overrides set by reconciliation when a discount promotion
	// applies directly to this line.
	SaleDiscountPrice  *int64 `json:"sale_discount_price,omitempty"`
	FinalDiscountPrice *int64 `json:"final_discount_price,omitempty"`
}

// IdentityKey is the merge identity: variant plus the option set normalized by
// option name, so permuted option lists from different call sites produce the
// same key.
func (li LineItem) IdentityKey() string {
	return identityKey(li.VariantID, li.Options)
}

func identityKey(variantID int64, options []Option) string {
	normalized := normalizeOptions(options)
	parts := make([]string, 0, len(normalized))
	for _, opt := range normalized {
		parts = append(parts, opt.Name+"="+opt.Value)
	}
	return fmt.Sprintf("%d|%s", variantID, strings.Join(parts, ";"))
}

// normalizeOptions returns a copy sorted by option name. Input is never
// mutated; callers hold normalized slices only.
func normalizeOptions(options []Option) []Option {
	if len(options) == 0 {
		return nil
	}
	normalized := make([]Option, len(options))
	copy(normalized, options)
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Name < normalized[j].Name
	})
	return normalized
}

// UnitPrice returns the effective unit price after discount overrides.
func (li LineItem) UnitPrice() int64 {
	if li.FinalDiscountPrice != nil {
		return *li.FinalDiscountPrice
	}
	if li.SaleDiscountPrice != nil {
		return *li.SaleDiscountPrice
	}
	return li.Price
}

// Totals summarizes the cart for display.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Savings  int64 `json:"savings"`
	Items    int   `json:"items"`
}

func computeTotals(items []LineItem) Totals {
	var t Totals
	for _, li := range items {
		unit := li.UnitPrice()
		t.Subtotal += unit * int64(li.Quantity)
		t.Items += li.Quantity
		if li.OriginalPrice > unit {
			t.Savings += (li.OriginalPrice - unit) * int64(li.Quantity)
		}
	}
	return t
}

func cloneItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	cloned := make([]LineItem, len(items))
	copy(cloned, items)
	for i := range cloned {
		cloned[i].Options = normalizeOptions(cloned[i].Options)
		if cloned[i].SaleDiscountPrice != nil {
			v := *cloned[i].SaleDiscountPrice
			cloned[i].SaleDiscountPrice = &v
		}
		if cloned[i].FinalDiscountPrice != nil {
			v := *cloned[i].FinalDiscountPrice
			cloned[i].FinalDiscountPrice = &v
		}
	}
	return cloned
}
