package cart

import "testing"

func TestIdentityKeyIgnoresOptionOrder(t *testing.T) {
	t.Parallel()

	a := LineItem{VariantID: 10, Options: []Option{{Name: "size", Value: "M"}, {Name: "color", Value: "red"}}}
	b := LineItem{VariantID: 10, Options: []Option{{Name: "color", Value: "red"}, {Name: "size", Value: "M"}}}

	if a.IdentityKey() != b.IdentityKey() {
		t.Fatalf("permuted options must share identity: %q vs %q", a.IdentityKey(), b.IdentityKey())
	}
}

func TestIdentityKeySeparatesVariantsAndValues(t *testing.T) {
	t.Parallel()

	base := LineItem{VariantID: 10, Options: []Option{{Name: "size", Value: "M"}}}
	otherVariant := LineItem{VariantID: 11, Options: []Option{{Name: "size", Value: "M"}}}
	otherValue := LineItem{VariantID: 10, Options: []Option{{Name: "size", Value: "L"}}}

	if base.IdentityKey() == otherVariant.IdentityKey() {
		t.Fatal("different variants must not share identity")
	}
	if base.IdentityKey() == otherValue.IdentityKey() {
		t.Fatal("different option values must not share identity")
	}
}

func TestUnitPricePrefersOverrides(t *testing.T) {
	t.Parallel()

	sale := int64(80000)
	final := int64(75000)

	li := LineItem{Price: 100000}
	if li.UnitPrice() != 100000 {
		t.Fatalf("expected base price, got %d", li.UnitPrice())
	}

	li.SaleDiscountPrice = &sale
	if li.UnitPrice() != 80000 {
		t.Fatalf("expected sale price, got %d", li.UnitPrice())
	}

	li.FinalDiscountPrice = &final
	if li.UnitPrice() != 75000 {
		t.Fatalf("expected final price, got %d", li.UnitPrice())
	}
}

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{Price: 100000, OriginalPrice: 120000, Quantity: 2},
		{Price: 0, OriginalPrice: 45000, Quantity: 1, IsGift: true},
	}

	totals := computeTotals(items)
	if totals.Subtotal != 200000 {
		t.Fatalf("unexpected subtotal %d", totals.Subtotal)
	}
	// 2 x 20000 from the discounted line plus the full gift value
	if totals.Savings != 85000 {
		t.Fatalf("unexpected savings %d", totals.Savings)
	}
	if totals.Items != 3 {
		t.Fatalf("unexpected item count %d", totals.Items)
	}
}
