package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"atelier/internal/catalog"
	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
)

// APIHandler serves the JSON endpoints under /api/v1.
type APIHandler struct {
	Store   *catalog.Store
	Catalog *services.CatalogService
	Cart    *services.CartService
}

type productJSON struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      string           `json:"category"`
	Image         string           `json:"image"`
	HoverImage    string           `json:"hoverImage,omitempty"`
	Description   string           `json:"description"`
	Colors        []string         `json:"colors,omitempty"`
	Sizes         []string         `json:"sizes,omitempty"`
	IsNew         bool             `json:"isNew"`
	IsSale        bool             `json:"isSale"`
}

func toProductJSON(p domain.Product) productJSON {
	out := productJSON{
		ID: p.ID, Name: p.Name, Price: p.Price, Category: p.Category,
		Image: p.Image, HoverImage: p.HoverImage, Description: p.Description,
		Colors: p.Colors, Sizes: p.Sizes, IsNew: p.IsNew, IsSale: p.IsSale,
	}
	if p.OriginalPrice.Valid {
		op := p.OriginalPrice.Decimal
		out.OriginalPrice = &op
	}
	return out
}

func (h *APIHandler) Products(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = domain.CategoryAll
	}
	if !h.Store.Current().HasCategory(category) {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}
	products, err := h.Catalog.Shop(category, strings.TrimSpace(c.Query("sort")))
	if err != nil {
		applog.Error(c, "api.products.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return c.JSON(fiber.Map{"products": out, "count": len(out)})
}

type cartLineJSON struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Quote quotes the caller's cart. A visitor without a session gets an
// empty quote and no cookie.
func (h *APIHandler) Quote(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.Cookies(sidCookie))
	if err != nil {
		applog.Error(c, "api.cart.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	lines := make([]cartLineJSON, 0, len(cv.Lines))
	for _, l := range cv.Lines {
		lines = append(lines, cartLineJSON{
			ID: l.ID, ProductID: l.Product.ID, Name: l.Product.Name, Qty: l.Qty,
			Size: l.SelectedSize, Color: l.SelectedColor,
			UnitPrice: l.Product.Price, LineTotal: l.LineTotal(),
		})
	}
	t := cv.Totals
	return c.JSON(fiber.Map{
		"lines":        lines,
		"items":        t.Items,
		"subtotal":     t.Subtotal,
		"discount":     t.Discount,
		"shipping":     t.Shipping,
		"total":        t.Total,
		"promoApplied": t.PromoApplied,
		"promoCode":    cv.PromoCode,
		"freeShipping": t.FreeShipping,
	})
}
