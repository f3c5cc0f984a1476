package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
	"atelier/internal/validate"
)

// CategoryHandler serves the product listings: home, shop, new arrivals
// and best sellers.
type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	featured, err := h.Catalog.Featured()
	if err != nil {
		return serverError(c, "home.load.fail", err, "Could not load the collection. Please retry.")
	}
	cols, err := h.Catalog.Collections()
	if err != nil {
		return serverError(c, "home.load.fail", err, "Could not load the collection. Please retry.")
	}
	if len(cols) > 3 {
		cols = cols[:3]
	}
	return render(c, "home", fiber.Map{"Featured": featured, "Collections": cols})
}

func (h *CategoryHandler) Shop(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = domain.CategoryAll
	}
	sortKey := strings.TrimSpace(c.Query("sort"))
	if sortKey == "" {
		sortKey = services.SortNewest
	}
	data := fiber.Map{
		"Category":    category,
		"Sort":        sortKey,
		"SortOptions": services.SortOptions,
	}

	if cat := currentCatalog(c); cat != nil && !cat.HasCategory(category) {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		data["Category"] = domain.CategoryAll
		data["Products"] = []domain.Product{}
		data["Err"] = "That category does not exist."
		return render(c.Status(fiber.StatusBadRequest), "shop", data)
	}

	products, err := h.Catalog.Shop(category, sortKey)
	if err != nil {
		return serverError(c, "shop.load.fail", err, "Could not load products. Please retry.")
	}
	data["Products"] = products
	data["Count"] = len(products)
	return render(c, "shop", data)
}

func (h *CategoryHandler) NewArrivals(c *fiber.Ctx) error {
	products, err := h.Catalog.NewArrivals()
	if err != nil {
		return serverError(c, "new_arrivals.load.fail", err, "Could not load products. Please retry.")
	}
	return render(c, "new_arrivals", fiber.Map{"Products": products})
}

func (h *CategoryHandler) BestSellers(c *fiber.Ctx) error {
	products, err := h.Catalog.BestSellers()
	if err != nil {
		return serverError(c, "best_sellers.load.fail", err, "Could not load products. Please retry.")
	}
	return render(c, "best_sellers", fiber.Map{"Products": products})
}

func (h *CategoryHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Category": "", "Products": []domain.Product{}, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return render(c.Status(fiber.StatusBadRequest), "search", fiber.Map{
			"Q": "", "Category": "", "Products": []domain.Product{}, "Count": 0, "Err": "Enter a valid keyword (letters and numbers only)",
		})
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if cat := currentCatalog(c); cat != nil && !cat.HasCategory(category) {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return render(c.Status(fiber.StatusBadRequest), "search", fiber.Map{
				"Q": q, "Category": "", "Products": []domain.Product{}, "Count": 0, "Err": "Invalid category",
			})
		}
	}

	products, err := h.Catalog.Search(q, category)
	if err != nil {
		return serverError(c, "search.error", err, "Could not load results. Please retry.")
	}
	return render(c, "search", fiber.Map{
		"Q": q, "Category": category, "Products": products, "Count": len(products),
	})
}
