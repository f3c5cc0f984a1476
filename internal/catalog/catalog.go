// Package catalog loads the storefront's static data module: products,
// collections, navigation, shop categories and FAQ. The default catalog
// is embedded; a YAML file with the same shape can replace it.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"atelier/internal/domain"
)

//go:embed catalog.yaml
var embedded []byte

type Catalog struct {
	Products    []domain.Product
	Collections []domain.Collection
	Nav         []domain.NavItem
	Footer      []domain.FooterGroup
	Categories  []domain.Category
	FAQ         []domain.FAQCategory
	GiftCards   domain.GiftCards
}

type productRecord struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Price          string   `yaml:"price"`
	OriginalPrice  string   `yaml:"original_price"`
	Category       string   `yaml:"category"`
	Image          string   `yaml:"image"`
	HoverImage     string   `yaml:"hover_image"`
	Description    string   `yaml:"description"`
	Colors         []string `yaml:"colors"`
	Sizes          []string `yaml:"sizes"`
	IsNew          bool     `yaml:"is_new"`
	IsSale         bool     `yaml:"is_sale"`
	BestSellerRank int      `yaml:"best_seller_rank"`
}

type collectionRecord struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Slug         string   `yaml:"slug"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	ProductCount int      `yaml:"product_count"`
	ProductIDs   []string `yaml:"product_ids"`
}

type file struct {
	Categories  []domain.Category    `yaml:"categories"`
	Nav         []domain.NavItem     `yaml:"nav"`
	Footer      []domain.FooterGroup `yaml:"footer"`
	Products    []productRecord      `yaml:"products"`
	Collections []collectionRecord   `yaml:"collections"`
	FAQ         []domain.FAQCategory `yaml:"faq"`
	GiftCards   domain.GiftCards     `yaml:"gift_cards"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{
		Nav:        f.Nav,
		Footer:     f.Footer,
		Categories: f.Categories,
		FAQ:        f.FAQ,
		GiftCards:  f.GiftCards,
	}
	for _, r := range f.Products {
		p, err := r.product()
		if err != nil {
			return nil, err
		}
		c.Products = append(c.Products, p)
	}
	for _, r := range f.Collections {
		c.Collections = append(c.Collections, domain.Collection{
			ID:           r.ID,
			Name:         r.Name,
			Slug:         r.Slug,
			Description:  r.Description,
			Image:        r.Image,
			ProductCount: r.ProductCount,
			ProductIDs:   r.ProductIDs,
		})
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r productRecord) product() (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog: product %q: price: %w", r.ID, err)
	}
	p := domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Price:          price,
		Category:       r.Category,
		Image:          r.Image,
		HoverImage:     r.HoverImage,
		Description:    r.Description,
		Colors:         r.Colors,
		Sizes:          r.Sizes,
		IsNew:          r.IsNew,
		IsSale:         r.IsSale,
		BestSellerRank: r.BestSellerRank,
	}
	if r.OriginalPrice != "" {
		op, err := decimal.NewFromString(r.OriginalPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("catalog: product %q: original_price: %w", r.ID, err)
		}
		p.OriginalPrice = decimal.NewNullDecimal(op)
	}
	return p, nil
}

func (c *Catalog) validate() error {
	var errs []error
	cats := map[string]bool{}
	for _, cat := range c.Categories {
		cats[cat.ID] = true
	}
	ids := map[string]bool{}
	for _, p := range c.Products {
		switch {
		case p.ID == "":
			errs = append(errs, errors.New("product with empty id"))
		case ids[p.ID]:
			errs = append(errs, fmt.Errorf("duplicate product id %q", p.ID))
		}
		ids[p.ID] = true
		if p.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("product %q: negative price", p.ID))
		}
		if len(cats) > 0 && !cats[p.Category] {
			errs = append(errs, fmt.Errorf("product %q: unknown category %q", p.ID, p.Category))
		}
	}
	slugs := map[string]bool{}
	for _, col := range c.Collections {
		if col.Slug == "" || slugs[col.Slug] {
			errs = append(errs, fmt.Errorf("collection %q: missing or duplicate slug", col.ID))
		}
		slugs[col.Slug] = true
		for _, pid := range col.ProductIDs {
			if !ids[pid] {
				errs = append(errs, fmt.Errorf("collection %q: unknown product %q", col.Slug, pid))
			}
		}
	}
	faq := map[string]bool{}
	for _, fc := range c.FAQ {
		if fc.Slug == "" || faq[fc.Slug] {
			errs = append(errs, fmt.Errorf("faq %q: missing or duplicate slug", fc.Name))
		}
		faq[fc.Slug] = true
	}
	for _, a := range c.GiftCards.Amounts {
		if a <= 0 {
			errs = append(errs, fmt.Errorf("gift card amount %d: must be positive", a))
		}
	}
	designs := map[string]bool{}
	for _, d := range c.GiftCards.Designs {
		if d.ID == "" || designs[d.ID] {
			errs = append(errs, fmt.Errorf("gift card design %q: missing or duplicate id", d.Name))
		}
		designs[d.ID] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("catalog: invalid: %w", err)
	}
	return nil
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) { return Parse(embedded) }

// Load reads path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Store holds the current catalog. Readers never see a partially
// replaced catalog.
type Store struct {
	cur atomic.Pointer[Catalog]
}

func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.cur.Store(c)
	return s
}

func (s *Store) Current() *Catalog { return s.cur.Load() }

func (s *Store) Swap(c *Catalog) { s.cur.Store(c) }

// FAQCategory returns the category with the given slug, or the first one
// when slug is empty or unknown.
func (c *Catalog) FAQCategory(slug string) (domain.FAQCategory, bool) {
	if len(c.FAQ) == 0 {
		return domain.FAQCategory{}, false
	}
	for _, fc := range c.FAQ {
		if fc.Slug == slug {
			return fc, true
		}
	}
	return c.FAQ[0], true
}

// HasCategory reports whether id is a shop category key (including "all").
func (c *Catalog) HasCategory(id string) bool {
	if id == domain.CategoryAll {
		return true
	}
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}
