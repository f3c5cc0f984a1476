package handlers

import (
	"github.com/gofiber/fiber/v2"

	"atelier/internal/catalog"
	applog "atelier/internal/log"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Navigation, footer and cart badge come from the Chrome middleware
	if cat, ok := c.Locals(localCatalog).(*catalog.Catalog); ok && cat != nil {
		data["Nav"] = cat.Nav
		data["Footer"] = cat.Footer
		data["Categories"] = cat.Categories
	}
	n, _ := c.Locals(localCartCount).(int)
	data["CartCount"] = n
	data["Path"] = c.Path()

	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// notFound renders the not-found view with a link back to a listing.
func notFound(c *fiber.Ctx, msg, backHref, backLabel string) error {
	return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{
		"Message":   msg,
		"BackHref":  backHref,
		"BackLabel": backLabel,
	})
}

// Fallback is the catch-all for unmatched routes.
func Fallback(c *fiber.Ctx) error {
	return notFound(c, "Page not found", "/shop", "Continue shopping")
}

// notice renders a short confirmation page.
func notice(c *fiber.Ctx, title, msg string) error {
	return render(c, "notice", fiber.Map{"Title": title, "Message": msg})
}

func serverError(c *fiber.Ctx, action string, err error, msg string) error {
	applog.Error(c, action, err, nil)
	return render(c.Status(fiber.StatusInternalServerError), "notfound", fiber.Map{
		"Message":   msg,
		"BackHref":  "/",
		"BackLabel": "Back to home",
	})
}
