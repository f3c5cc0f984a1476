package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"atelier/internal/catalog"
	"atelier/internal/services"
)

const (
	sidCookie      = "sid"
	localCatalog   = "catalog"
	localCartCount = "cartCount"
)

// ensureSID returns the visitor's session id, issuing a cookie on first
// contact. Cart and wishlist rows are keyed by it.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err == nil {
		return sid
	}
	sid = uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
	})
	return sid
}

// Chrome puts the current catalog snapshot and the cart badge count into
// Locals for render. Static assets and the JSON API skip it.
func Chrome(store *catalog.Store, cart *services.CartService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := c.Path()
		if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/api/") {
			return c.Next()
		}
		c.Locals(localCatalog, store.Current())
		if sid := c.Cookies(sidCookie); sid != "" {
			if n, err := cart.Count(sid); err == nil {
				c.Locals(localCartCount, n)
			}
		}
		return c.Next()
	}
}

func currentCatalog(c *fiber.Ctx) *catalog.Catalog {
	cat, _ := c.Locals(localCatalog).(*catalog.Catalog)
	return cat
}
