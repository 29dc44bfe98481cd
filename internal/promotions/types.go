package promotions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Key identifies the purchasable unit a promotion attaches to. The backend
// keys its promotion map by "variant_<id>" or "product_<id>".
type Key string

// VariantKey builds the key for a variant-scoped promotion.
func VariantKey(variantID int64) Key {
	return Key(fmt.Sprintf("variant_%d", variantID))
}

// ProductKey builds the key for a product-scoped promotion.
func ProductKey(productID int64) Key {
	return Key(fmt.Sprintf("product_%d", productID))
}

type Type string

const (
	TypeBuyGet   Type = "buy_get"
	TypeDiscount Type = "discount"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Conditions carries the union of condition fields; which ones are meaningful
// depends on the promotion type.
type Conditions struct {
	BuyQuantity          int             `json:"buyQuantity,omitempty"`
	GetQuantity          int             `json:"getQuantity,omitempty"`
	GiftProductVariantID int64           `json:"giftProductVariantId,omitempty"`
	DiscountType         DiscountType    `json:"discountType,omitempty"`
	Value                decimal.Decimal `json:"value,omitempty"`
}

// Promotion is the read-only rule shape the backend exposes.
type Promotion struct {
	Key        Key        `json:"key"`
	Type       Type       `json:"type"`
	Conditions Conditions `json:"conditions"`
}

// GiftUnits returns how many gift units a buy_get promotion yields for the
// given purchased quantity: floor(qty / buyQuantity) * getQuantity.
func (p Promotion) GiftUnits(quantity int) int {
	if p.Type != TypeBuyGet {
		return 0
	}
	if p.Conditions.BuyQuantity <= 0 || p.Conditions.GetQuantity <= 0 {
		return 0
	}
	if quantity < p.Conditions.BuyQuantity {
		return 0
	}
	return quantity / p.Conditions.BuyQuantity * p.Conditions.GetQuantity
}

// SalePrice applies a discount promotion to a unit price. Results are rounded
// down to whole currency units, including fixed discounts carrying a
// fractional Value, and never go below zero.
func (p Promotion) SalePrice(unitPrice int64) int64 {
	if p.Type != TypeDiscount {
		return unitPrice
	}
	price := decimal.NewFromInt(unitPrice)
	switch p.Conditions.DiscountType {
	case DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(p.Conditions.Value.Div(decimal.NewFromInt(100)))
		discounted := price.Mul(factor)
		if discounted.IsNegative() {
			return 0
		}
		return discounted.Floor().IntPart()
	case DiscountFixed:
		discounted := price.Sub(p.Conditions.Value)
		if discounted.IsNegative() {
			return 0
		}
		return discounted.Floor().IntPart()
	default:
		return unitPrice
	}
}
