package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuote_NoPromoFreeShipping(t *testing.T) {
	p := pricing.DefaultPolicy()
	got := p.Quote([]pricing.Line{
		{UnitPrice: d("890"), Qty: 1},
		{UnitPrice: d("320"), Qty: 2},
	}, false)

	assert.True(t, got.Subtotal.Equal(d("1530")), "subtotal %s", got.Subtotal)
	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Shipping.IsZero())
	assert.True(t, got.FreeShipping)
	assert.True(t, got.Total.Equal(d("1530")), "total %s", got.Total)
	assert.Equal(t, 3, got.Items)
}

func TestQuote_PromoApplied(t *testing.T) {
	p := pricing.DefaultPolicy()
	require.True(t, p.MatchPromo("welcome10"))

	got := p.Quote([]pricing.Line{
		{UnitPrice: d("890"), Qty: 1},
		{UnitPrice: d("320"), Qty: 2},
	}, true)

	assert.True(t, got.Discount.Equal(d("153")), "discount %s", got.Discount)
	assert.True(t, got.Total.Equal(d("1377")), "total %s", got.Total)
}

func TestQuote_FlatShippingAtOrBelowThreshold(t *testing.T) {
	p := pricing.DefaultPolicy()
	for _, sub := range []string{"120", "500"} {
		got := p.Quote([]pricing.Line{{UnitPrice: d(sub), Qty: 1}}, false)
		assert.True(t, got.Shipping.Equal(d("25")), "subtotal %s shipping %s", sub, got.Shipping)
		assert.True(t, got.Total.Equal(d(sub).Add(d("25"))))
	}
}

func TestQuote_Invariants(t *testing.T) {
	p := pricing.DefaultPolicy()
	carts := [][]pricing.Line{
		{{UnitPrice: d("45.50"), Qty: 3}},
		{{UnitPrice: d("1290"), Qty: 1}, {UnitPrice: d("75"), Qty: 4}},
		{{UnitPrice: d("499.99"), Qty: 1}},
		{{UnitPrice: d("0.01"), Qty: 50}, {UnitPrice: d("250"), Qty: 2}},
	}
	for _, lines := range carts {
		for _, promo := range []bool{false, true} {
			got := p.Quote(lines, promo)

			sum := decimal.Zero
			for _, l := range lines {
				sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
			}
			assert.True(t, got.Subtotal.Equal(sum))

			if promo {
				assert.True(t, got.Discount.Equal(sum.Mul(d("0.1"))))
			} else {
				assert.True(t, got.Discount.IsZero())
			}

			if sum.GreaterThan(d("500")) {
				assert.True(t, got.Shipping.IsZero())
			} else {
				assert.True(t, got.Shipping.Equal(d("25")))
			}
			assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.Discount).Add(got.Shipping)))
		}
	}
}

func TestQuote_EmptyCart(t *testing.T) {
	got := pricing.DefaultPolicy().Quote(nil, true)
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.Shipping.IsZero())
	assert.False(t, got.PromoApplied)
}

func TestMatchPromo(t *testing.T) {
	p := pricing.DefaultPolicy()
	assert.True(t, p.MatchPromo("WELCOME10"))
	assert.True(t, p.MatchPromo("Welcome10"))
	assert.False(t, p.MatchPromo("welcome"))
	assert.False(t, p.MatchPromo("welcome10 "))
	assert.False(t, p.MatchPromo(""))
	assert.EqualValues(t, 10, p.PromoPercent())

	p.PromoCode = ""
	assert.False(t, p.MatchPromo(""))
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"25":      "$25",
		"890":     "$890",
		"1530":    "$1,530",
		"1377":    "$1,377",
		"153.0":   "$153",
		"137.7":   "$137.70",
		"1234567": "$1,234,567",
		"-153":    "-$153",
	}
	for in, want := range cases {
		assert.Equal(t, want, pricing.Format(d(in)), in)
	}
}
