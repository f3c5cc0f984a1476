package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
	"atelier/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Wish    *services.WishlistService
}

const productGone = "This item is no longer available"

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, productGone, "/shop", "Continue shopping")
	}
	p, err := h.Catalog.Product(id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, productGone, "/shop", "Continue shopping")
	}
	if err != nil {
		return serverError(c, "product.load.fail", err, "Could not load this item. Please retry.")
	}
	related, err := h.Catalog.Related(p)
	if err != nil {
		applog.Error(c, "product.related.fail", err, map[string]any{"product": id})
	}

	saved := false
	if sid := c.Cookies(sidCookie); sid != "" {
		saved, _ = h.Wish.Has(sid, p.ID)
	}
	data := fiber.Map{"P": p, "Related": related, "Saved": saved}
	if c.Query("err") == "options" {
		c.Status(fiber.StatusBadRequest)
		data["Err"] = "Please choose a size and color."
	}
	return render(c, "product", data)
}
