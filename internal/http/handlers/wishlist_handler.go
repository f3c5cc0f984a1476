package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
	"atelier/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Wish.List(sid)
	if err != nil {
		return serverError(c, "wishlist.list.fail", err, "Could not load wishlist")
	}
	return render(c, "wishlist", fiber.Map{"Items": items})
}

func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	err := h.Wish.Save(sid, pid)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, productGone, "/shop", "Continue shopping")
	}
	if err != nil {
		applog.Error(c, "wishlist.save.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not save item")
	}
	applog.Audit(c, "wishlist.save", map[string]any{"product": pid})
	return c.Redirect(back(c, "/wishlist"), fiber.StatusSeeOther)
}

func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Wish.Unsave(sid, pid); err != nil {
		applog.Error(c, "wishlist.unsave.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not unsave item")
	}
	applog.Audit(c, "wishlist.unsave", map[string]any{"product": pid})
	return c.Redirect(back(c, "/wishlist"), fiber.StatusSeeOther)
}

// back returns the form's "next" path when it is a local path, else def.
func back(c *fiber.Ctx, def string) string {
	next := c.FormValue("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return def
}
