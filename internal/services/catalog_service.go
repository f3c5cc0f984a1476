package services

import (
	"fmt"
	"sort"
	"strings"

	"atelier/internal/domain"
	"atelier/internal/repos"
)

// Sort keys accepted by the shop listing.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

type SortOption struct {
	Key   string
	Label string
}

var SortOptions = []SortOption{
	{SortNewest, "Newest"},
	{SortPriceLow, "Price: Low to High"},
	{SortPriceHigh, "Price: High to Low"},
}

const (
	relatedProductsMax    = 4
	relatedCollectionsMax = 3
	featuredMax           = 6
)

// FilterByCategory keeps products whose category is exactly category.
// "all" and "" keep everything.
func FilterByCategory(ps []domain.Product, category string) []domain.Product {
	if category == "" || category == domain.CategoryAll {
		return append([]domain.Product(nil), ps...)
	}
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortProducts returns a sorted copy. Price sorts are stable; "newest" and
// unknown keys keep catalog order.
func SortProducts(ps []domain.Product, key string) []domain.Product {
	out := append([]domain.Product(nil), ps...)
	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}
	return out
}

type CatalogService struct {
	Prods *repos.ProductRepo
	Cols  *repos.CollectionRepo
}

func NewCatalogService(prods *repos.ProductRepo, cols *repos.CollectionRepo) *CatalogService {
	return &CatalogService{Prods: prods, Cols: cols}
}

// Shop lists products for the shop page.
func (s *CatalogService) Shop(category, sortKey string) ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	return SortProducts(FilterByCategory(all, category), sortKey), nil
}

// Search matches q case-insensitively against name, category and
// description, optionally within one category.
func (s *CatalogService) Search(q, category string) ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Product, 0)
	for _, p := range FilterByCategory(all, category) {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(p.Category, q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) Product(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %q: %w", id, err)
	}
	return p, nil
}

// Related returns up to four other products from p's category.
func (s *CatalogService) Related(p domain.Product) ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, relatedProductsMax)
	for _, q := range all {
		if q.Category == p.Category && q.ID != p.ID {
			out = append(out, q)
			if len(out) == relatedProductsMax {
				break
			}
		}
	}
	return out, nil
}

// Featured is the head of the catalog shown on the home page.
func (s *CatalogService) Featured() ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	if len(all) > featuredMax {
		all = all[:featuredMax]
	}
	return all, nil
}

func (s *CatalogService) NewArrivals() ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.IsNew {
			out = append(out, p)
		}
	}
	return out, nil
}

// BestSellers returns ranked products, best first.
func (s *CatalogService) BestSellers() ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.BestSellerRank > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BestSellerRank < out[j].BestSellerRank })
	return out, nil
}

func (s *CatalogService) Collections() ([]domain.Collection, error) {
	return s.Cols.List()
}

// Collection returns the collection and its products. A collection with
// no product list shows the whole catalog.
func (s *CatalogService) Collection(slug string) (domain.Collection, []domain.Product, error) {
	c, err := s.Cols.BySlug(slug)
	if err != nil {
		return domain.Collection{}, nil, fmt.Errorf("collection %q: %w", slug, err)
	}
	all, err := s.Prods.List()
	if err != nil {
		return domain.Collection{}, nil, err
	}
	if len(c.ProductIDs) == 0 {
		return c, all, nil
	}
	byID := make(map[string]domain.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	prods := make([]domain.Product, 0, len(c.ProductIDs))
	for _, id := range c.ProductIDs {
		if p, ok := byID[id]; ok {
			prods = append(prods, p)
		}
	}
	return c, prods, nil
}

// RelatedCollections returns up to three collections other than slug.
func (s *CatalogService) RelatedCollections(slug string) ([]domain.Collection, error) {
	all, err := s.Cols.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Collection, 0, relatedCollectionsMax)
	for _, c := range all {
		if c.Slug != slug {
			out = append(out, c)
			if len(out) == relatedCollectionsMax {
				break
			}
		}
	}
	return out, nil
}
