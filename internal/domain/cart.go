package domain

import "github.com/shopspring/decimal"

// MaxLineQty caps the quantity of a single cart line.
const MaxLineQty = 50

// CartLine is one product/size/color combination in a visitor's cart.
// Qty is always in [1, MaxLineQty]; lines asked to go below that are deleted instead.
type CartLine struct {
	ID            string
	Product       Product
	Qty           int
	SelectedSize  string
	SelectedColor string
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}
