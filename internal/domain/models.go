package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")
)

// CategoryAll is the pseudo-category that matches every product.
const CategoryAll = "all"

type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	OriginalPrice  decimal.NullDecimal
	Category       string
	Image          string
	HoverImage     string
	Description    string
	Colors         []string
	Sizes          []string
	IsNew          bool
	IsSale         bool
	BestSellerRank int
}

// Images returns the primary image followed by the hover image, if any.
func (p Product) Images() []string {
	out := []string{p.Image}
	if p.HoverImage != "" {
		out = append(out, p.HoverImage)
	}
	return out
}

// HasOption reports whether v is one of opts. An empty v never matches.
func HasOption(opts []string, v string) bool {
	if v == "" {
		return false
	}
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

type Collection struct {
	ID           string
	Name         string
	Description  string
	Image        string
	ProductCount int
	Slug         string
	ProductIDs   []string
}

type NavItem struct {
	Label    string    `yaml:"label" json:"label"`
	Href     string    `yaml:"href" json:"href"`
	Children []NavItem `yaml:"children,omitempty" json:"children,omitempty"`
}

type Category struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type FAQCategory struct {
	Name      string `yaml:"name"`
	Slug      string `yaml:"slug"`
	Questions []FAQ  `yaml:"questions"`
}

// FooterGroup is one titled column of footer links.
type FooterGroup struct {
	Title string    `yaml:"title"`
	Links []NavItem `yaml:"links"`
}

type GiftCardDesign struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

// GiftCards lists the whole-dollar amounts and card designs on offer.
type GiftCards struct {
	Amounts []int            `yaml:"amounts"`
	Designs []GiftCardDesign `yaml:"designs"`
}

func (g GiftCards) Design(id string) (GiftCardDesign, bool) {
	for _, d := range g.Designs {
		if d.ID == id {
			return d, true
		}
	}
	return GiftCardDesign{}, false
}
