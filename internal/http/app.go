// Package http assembles the storefront's Fiber application.
package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/content"
	"atelier/internal/http/handlers"
	applog "atelier/internal/log"
	"atelier/internal/motion"
	"atelier/internal/pricing"
	"atelier/web"
)

const genericError = "Something went wrong. Please try again."

// NewEngine builds the view engine over the embedded templates with the
// motion and money helpers registered.
func NewEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(web.Templates(), ".html")
	engine.Reload(reload)
	engine.AddFuncMap(motion.TemplateFuncs())
	engine.AddFunc("money", pricing.Format)
	return engine
}

// ErrorHandler logs the failure and renders a friendly page without
// internals. Client errors keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
		msg = utils.StatusMessage(code)
		applog.Info(c, "client.error", map[string]any{"code": code})
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message":   msg,
		"BackHref":  "/",
		"BackLabel": "Back to home",
	}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// New wires middleware, handlers and routes. The database must already
// hold the catalog (repos.SyncCatalog).
func New(db *sqlx.DB, store *catalog.Store, pages *content.Library, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 NewEngine(cfg.TemplateReload),
		ViewsLayout:           "layouts/main",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 120
	}

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        rate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{
				"Message":   "Security check failed. Please refresh and try again.",
				"BackHref":  "/",
				"BackLabel": "Back to home",
			})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, store, pages, cfg.Pricing)
	app.Use(handlers.Chrome(store, deps.Cart))

	// ---------- Static assets ----------
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   web.Static(),
		MaxAge: 3600,
	}))

	// ---------- Pages ----------
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/shop", deps.CategoryHandler.Shop)
	app.Get("/new-arrivals", deps.CategoryHandler.NewArrivals)
	app.Get("/best-sellers", deps.CategoryHandler.BestSellers)
	app.Get("/search", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	}), deps.CategoryHandler.Search)

	app.Get("/products", func(c *fiber.Ctx) error { return c.Redirect("/shop") })
	app.Get("/products/:id", deps.ProductHandler.Detail)

	app.Get("/collections", deps.CollectionHandler.List)
	app.Get("/collections/:slug", deps.CollectionHandler.Detail)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/lines/:id", deps.CartHandler.Update)
	app.Post("/cart/lines/:id/remove", deps.CartHandler.Remove)
	app.Post("/cart/promo", deps.CartHandler.ApplyPromo)
	app.Post("/cart/promo/clear", deps.CartHandler.ClearPromo)

	// Wishlist
	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Save)
	app.Post("/wishlist/delete", deps.WishlistHandler.Unsave)

	// Informational
	app.Get("/faq", deps.PageHandler.FAQ)
	app.Get("/pages/:slug", deps.PageHandler.Page)
	for _, slug := range pages.Slugs() {
		if slug == "contact" {
			continue
		}
		app.Get("/"+slug, deps.PageHandler.Alias(slug))
	}
	app.Get("/contact", deps.PageHandler.ContactForm)
	app.Post("/contact", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	}), deps.PageHandler.Contact)
	app.Post("/newsletter", deps.PageHandler.Newsletter)
	app.Get("/gift-cards", deps.PageHandler.GiftCardForm)
	app.Post("/gift-cards", deps.PageHandler.GiftCard)

	// API
	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	api.Get("/products", deps.APIHandler.Products)
	api.Get("/cart", deps.APIHandler.Quote)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(handlers.Fallback)
	return app
}
