package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"atelier/internal/domain"
	applog "atelier/internal/log"
	"atelier/internal/services"
	"atelier/internal/validate"
)

type CollectionHandler struct {
	Catalog *services.CatalogService
}

func (h *CollectionHandler) List(c *fiber.Ctx) error {
	cols, err := h.Catalog.Collections()
	if err != nil {
		return serverError(c, "collections.load.fail", err, "Could not load collections. Please retry.")
	}
	return render(c, "collections", fiber.Map{"Collections": cols})
}

func (h *CollectionHandler) Detail(c *fiber.Ctx) error {
	const gone = "We couldn't find that collection"
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "collection"})
		return notFound(c, gone, "/collections", "View all collections")
	}
	col, products, err := h.Catalog.Collection(slug)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, gone, "/collections", "View all collections")
	}
	if err != nil {
		return serverError(c, "collection.load.fail", err, "Could not load this collection. Please retry.")
	}
	others, err := h.Catalog.RelatedCollections(slug)
	if err != nil {
		applog.Error(c, "collection.related.fail", err, map[string]any{"collection": slug})
	}
	return render(c, "collection", fiber.Map{
		"Collection": col,
		"Products":   products,
		"Others":     others,
	})
}
