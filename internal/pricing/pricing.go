// Package pricing holds the cart arithmetic: subtotal, promo discount,
// shipping and total.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Policy struct {
	PromoCode string
	// PromoRate is the discount fraction, e.g. 0.10 for 10%.
	PromoRate decimal.Decimal
	// Orders with a subtotal strictly above this ship free.
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		PromoCode:        "WELCOME10",
		PromoRate:        decimal.NewFromFloat(0.10),
		FreeShippingOver: decimal.NewFromInt(500),
		FlatShipping:     decimal.NewFromInt(25),
	}
}

// MatchPromo is a case-insensitive exact comparison against the one
// configured code.
func (p Policy) MatchPromo(code string) bool {
	return p.PromoCode != "" && strings.EqualFold(code, p.PromoCode)
}

// PromoPercent is PromoRate expressed as a whole percentage for display.
func (p Policy) PromoPercent() int64 {
	return p.PromoRate.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type Line struct {
	UnitPrice decimal.Decimal
	Qty       int
}

type Totals struct {
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	PromoApplied bool
	FreeShipping bool
	Items        int
}

// Quote prices a set of lines. An empty cart quotes zero everywhere,
// shipping included.
func (p Policy) Quote(lines []Line, promoApplied bool) Totals {
	t := Totals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, l := range lines {
		if l.Qty < 1 {
			continue
		}
		t.Subtotal = t.Subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
		t.Items += l.Qty
	}
	if t.Items == 0 {
		return t
	}
	if promoApplied {
		t.PromoApplied = true
		t.Discount = t.Subtotal.Mul(p.PromoRate)
	}
	if t.Subtotal.GreaterThan(p.FreeShippingOver) {
		t.FreeShipping = true
	} else {
		t.Shipping = p.FlatShipping
	}
	t.Total = t.Subtotal.Sub(t.Discount).Add(t.Shipping)
	return t
}
