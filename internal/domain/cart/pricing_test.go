package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_StandardShipping(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 3, UnitPriceCents: 1999}}

	got := DefaultPricing().Compute(items, ShippingStandard)

	assert.Equal(t, Totals{
		ItemCount:     3,
		SubtotalCents: 5997,
		TaxCents:      495,
		ShippingCents: 0,
		TotalCents:    6492,
	}, got)
}

func TestCompute_ExpressShipping(t *testing.T) {
	s := Snapshot{
		Items:          []LineItem{{BookID: "A", Quantity: 1, UnitPriceCents: 1000}, {BookID: "B", Quantity: 2, UnitPriceCents: 250}},
		ShippingMethod: ShippingExpress,
	}

	got := s.Compute(DefaultPricing())

	assert.Equal(t, 3, got.ItemCount)
	assert.Equal(t, int64(1500), got.SubtotalCents)
	assert.Equal(t, int64(124), got.TaxCents) // 123.75 → 124
	assert.Equal(t, int64(1500), got.ShippingCents)
	assert.Equal(t, int64(3124), got.TotalCents)
}

func TestCompute_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, DefaultPricing().Compute(nil, ShippingStandard))
}

func TestCompute_SubtotalIsExactSum(t *testing.T) {
	items := []LineItem{
		{BookID: "A", Quantity: 99, UnitPriceCents: 999999},
		{BookID: "B", Quantity: 7, UnitPriceCents: 1},
		{BookID: "C", Quantity: 13, UnitPriceCents: 3333},
	}
	var want int64
	for _, it := range items {
		want += int64(it.Quantity) * it.UnitPriceCents
	}
	got := DefaultPricing().Compute(items, ShippingStandard)
	assert.Equal(t, want, got.SubtotalCents)
	assert.Equal(t, got.SubtotalCents+got.TaxCents+got.ShippingCents, got.TotalCents)
}

func TestTax_RoundHalfAwayFromZero(t *testing.T) {
	p := Pricing{TaxRateBasisPoints: 5000} // 50%
	cases := map[int64]int64{
		0:  0,
		1:  1, // 0.5 → 1
		3:  2, // 1.5 → 2
		4:  2,
		-1: -1, // -0.5 → -1
		-3: -2,
	}
	for subtotal, want := range cases {
		assert.Equal(t, want, p.Tax(subtotal), "subtotal=%d", subtotal)
	}

	assert.Equal(t, int64(495), DefaultPricing().Tax(5997))
	assert.Equal(t, int64(83), DefaultPricing().Tax(1000)) // 82.5 → 83
}
