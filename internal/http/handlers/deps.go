package handlers

import (
	"github.com/jmoiron/sqlx"

	"atelier/internal/catalog"
	"atelier/internal/content"
	"atelier/internal/pricing"
	"atelier/internal/repos"
	"atelier/internal/services"
)

type Deps struct {
	CategoryHandler   *CategoryHandler
	ProductHandler    *ProductHandler
	CollectionHandler *CollectionHandler
	CartHandler       *CartHandler
	WishlistHandler   *WishlistHandler
	PageHandler       *PageHandler
	APIHandler        *APIHandler

	Cart *services.CartService
}

func NewDeps(db *sqlx.DB, store *catalog.Store, pages *content.Library, policy pricing.Policy) *Deps {
	prodRepo := repos.NewProductRepo(db)
	colRepo := repos.NewCollectionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, colRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, policy)
	wishSvc := services.NewWishlistService(wishRepo, prodRepo)

	return &Deps{
		CategoryHandler:   &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:    &ProductHandler{Catalog: catalogSvc, Wish: wishSvc},
		CollectionHandler: &CollectionHandler{Catalog: catalogSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		WishlistHandler:   &WishlistHandler{Wish: wishSvc},
		PageHandler:       &PageHandler{Pages: pages},
		APIHandler:        &APIHandler{Store: store, Catalog: catalogSvc, Cart: cartSvc},
		Cart:              cartSvc,
	}
}
