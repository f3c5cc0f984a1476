package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
	"atelier/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	return h.renderCart(c, sid, "")
}

func (h *CartHandler) renderCart(c *fiber.Ctx, sid, promoErr string) error {
	cv, err := h.Cart.View(sid)
	if err != nil {
		return serverError(c, "cart.view.fail", err, "Could not load your bag. Please retry.")
	}
	return render(c, "cart", fiber.Map{
		"Cart":         cv,
		"PromoErr":     promoErr,
		"PromoPercent": h.Cart.Policy.PromoPercent(),
		"FreeOver":     h.Cart.Policy.FreeShippingOver,
	})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	size, okSize := validate.Option(c.FormValue("size"))
	color, okColor := validate.Option(c.FormValue("color"))
	if !okSize || !okColor {
		applog.Security(c, "validation.fail", map[string]any{"field": "option", "product": productID})
		return c.Status(fiber.StatusBadRequest).SendString("invalid option")
	}
	qty := validate.Qty(c.FormValue("qty"))

	lineID, err := h.Cart.Add(sid, productID, size, color, qty)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return notFound(c, productGone, "/shop", "Continue shopping")
	case errors.Is(err, services.ErrOptionRequired):
		return c.Redirect("/products/"+productID+"?err=options", fiber.StatusSeeOther)
	case err != nil:
		return serverError(c, "cart.add.fail", err, "Could not add this item. Please retry.")
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "line": lineID, "qty": qty})
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// Update sets a line's quantity; zero or less removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "line"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid line")
	}
	qty, ok := validate.SetQty(c.FormValue("qty"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	err := h.Cart.SetQty(sid, lineID, qty)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}
	if err != nil {
		return serverError(c, "cart.update.fail", err, "Could not update your bag. Please retry.")
	}
	applog.Audit(c, "cart.update", map[string]any{"line": lineID, "qty": qty})
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "line"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid line")
	}
	if err := h.Cart.Remove(sid, lineID); err != nil {
		return serverError(c, "cart.remove.fail", err, "Could not update your bag. Please retry.")
	}
	applog.Audit(c, "cart.remove", map[string]any{"line": lineID})
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

func (h *CartHandler) ApplyPromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code, ok := validate.Promo(c.FormValue("code"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "promo"})
		c.Status(fiber.StatusBadRequest)
		return h.renderCart(c, sid, "Enter a valid promo code.")
	}
	err := h.Cart.ApplyPromo(sid, code)
	if errors.Is(err, services.ErrInvalidPromo) {
		applog.Info(c, "cart.promo.reject", nil)
		c.Status(fiber.StatusBadRequest)
		return h.renderCart(c, sid, "That promo code isn't valid.")
	}
	if err != nil {
		return serverError(c, "cart.promo.fail", err, "Could not apply the code. Please retry.")
	}
	applog.Audit(c, "cart.promo.apply", nil)
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

func (h *CartHandler) ClearPromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.ClearPromo(sid); err != nil {
		return serverError(c, "cart.promo.fail", err, "Could not update your bag. Please retry.")
	}
	applog.Audit(c, "cart.promo.clear", nil)
	return c.Redirect("/cart", fiber.StatusSeeOther)
}
