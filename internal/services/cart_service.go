package services

import (
	"errors"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/pricing"
	"atelier/internal/repos"
)

var (
	ErrOptionRequired = errors.New("choose a size and color")
	ErrInvalidPromo   = errors.New("invalid promo code")
	ErrInvalidQty     = errors.New("invalid quantity")
)

type CartService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Policy pricing.Policy
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, policy pricing.Policy) *CartService {
	return &CartService{Carts: carts, Prods: prods, Policy: policy}
}

// Add puts qty of a product in the session's cart. Products that offer
// sizes or colors need a valid choice of each; choices for options the
// product does not have are dropped. A line never holds more than
// domain.MaxLineQty; merging into an existing line stops at that cap.
func (s *CartService) Add(sessionID, productID, size, color string, qty int) (string, error) {
	if qty < 1 {
		return "", ErrInvalidQty
	}
	qty = min(qty, domain.MaxLineQty)
	p, err := s.Prods.Get(productID)
	if err != nil {
		return "", fmt.Errorf("add %q: %w", productID, err)
	}
	if len(p.Sizes) == 0 {
		size = ""
	} else if !domain.HasOption(p.Sizes, size) {
		return "", fmt.Errorf("add %q size %q: %w", productID, size, ErrOptionRequired)
	}
	if len(p.Colors) == 0 {
		color = ""
	} else if !domain.HasOption(p.Colors, color) {
		return "", fmt.Errorf("add %q color %q: %w", productID, color, ErrOptionRequired)
	}
	return s.Carts.AddLine(sessionID, productID, size, color, qty)
}

// SetQty changes a line's quantity; anything below one removes the line.
func (s *CartService) SetQty(sessionID, lineID string, qty int) error {
	if qty < 1 {
		return s.Remove(sessionID, lineID)
	}
	return s.Carts.SetQty(sessionID, lineID, min(qty, domain.MaxLineQty))
}

func (s *CartService) Remove(sessionID, lineID string) error {
	return s.Carts.RemoveLine(sessionID, lineID)
}

// ApplyPromo applies code if it matches the configured promotion. A
// mismatch leaves the cart untouched.
func (s *CartService) ApplyPromo(sessionID, code string) error {
	if !s.Policy.MatchPromo(code) {
		return ErrInvalidPromo
	}
	return s.Carts.SetPromo(sessionID, s.Policy.PromoCode)
}

func (s *CartService) ClearPromo(sessionID string) error {
	return s.Carts.SetPromo(sessionID, "")
}

type CartView struct {
	Lines     []domain.CartLine
	Totals    pricing.Totals
	PromoCode string
}

func (s *CartService) View(sessionID string) (CartView, error) {
	lines, err := s.Carts.Lines(sessionID)
	if err != nil {
		return CartView{}, err
	}
	code, err := s.Carts.Promo(sessionID)
	if err != nil {
		return CartView{}, err
	}
	// A stored code stops counting if the configured promotion changed.
	applied := s.Policy.MatchPromo(code)
	if !applied {
		code = ""
	}
	pl := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		pl = append(pl, pricing.Line{UnitPrice: l.Product.Price, Qty: l.Qty})
	}
	return CartView{Lines: lines, Totals: s.Policy.Quote(pl, applied), PromoCode: code}, nil
}

// Count is the badge number in the navigation bar.
func (s *CartService) Count(sessionID string) (int, error) {
	return s.Carts.Count(sessionID)
}
