package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"atelier/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEmbeddedCatalog(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)

	require.NotEmpty(t, c.Products)
	require.NotEmpty(t, c.Collections)
	assert.Equal(t, domain.CategoryAll, c.Categories[0].ID)
	assert.NotEmpty(t, c.Nav)
	assert.Len(t, c.Footer, 3)

	blazer := c.Products[0]
	assert.Equal(t, "Oversized Linen Blazer", blazer.Name)
	assert.True(t, blazer.Price.Equal(decimal.NewFromInt(289)))
	require.True(t, blazer.OriginalPrice.Valid)
	assert.True(t, blazer.OriginalPrice.Decimal.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, []string{"XS", "S", "M", "L", "XL"}, blazer.Sizes)
	assert.Equal(t, 1, blazer.BestSellerRank)

	for _, p := range c.Products {
		assert.True(t, c.HasCategory(p.Category), p.ID)
	}

	assert.Equal(t, []int{50, 100, 200, 500}, c.GiftCards.Amounts)
	floral, ok := c.GiftCards.Design("floral")
	require.True(t, ok)
	assert.Equal(t, "Heritage Floral", floral.Name)
	_, ok = c.GiftCards.Design("neon")
	assert.False(t, ok)
}

func TestParseRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"unknown field": `
products:
  - id: "1"
    name: A
    price: "1"
    colour: red
`,
		"bad price": `
products:
  - id: "1"
    name: A
    price: twelve
`,
		"duplicate id": `
products:
  - { id: "1", name: A, price: "1" }
  - { id: "1", name: B, price: "2" }
`,
		"unknown category": `
categories: [{ id: tops, label: Tops }]
products:
  - { id: "1", name: A, price: "1", category: hats }
`,
		"collection references missing product": `
products:
  - { id: "1", name: A, price: "1" }
collections:
  - { id: c1, name: C, slug: c, product_ids: ["9"] }
`,
		"non-positive gift card amount": `
gift_cards:
  amounts: [50, 0]
`,
		"duplicate gift card design": `
gift_cards:
  designs:
    - { id: classic, name: A }
    - { id: classic, name: B }
`,
		"duplicate faq slug": `
faq:
  - { name: A, slug: a }
  - { name: B, slug: a }
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestFAQCategory(t *testing.T) {
	c, err := Embedded()
	require.NoError(t, err)

	fc, ok := c.FAQCategory("returns-exchanges")
	require.True(t, ok)
	assert.Equal(t, "Returns & Exchanges", fc.Name)

	fc, ok = c.FAQCategory("nope")
	require.True(t, ok)
	assert.Equal(t, c.FAQ[0].Slug, fc.Slug)

	_, ok = (&Catalog{}).FAQCategory("")
	assert.False(t, ok)
}

func TestStoreSwap(t *testing.T) {
	a := &Catalog{Products: []domain.Product{{ID: "a"}}}
	b := &Catalog{Products: []domain.Product{{ID: "b"}}}
	s := NewStore(a)
	assert.Same(t, a, s.Current())
	s.Swap(b)
	assert.Same(t, b, s.Current())
}

const small = `
categories: [{ id: all, label: All }, { id: tops, label: Tops }]
products:
  - { id: "1", name: Tee, price: "40", category: tops }
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "Tee", c.Products[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o644))

	got := make(chan *Catalog, 4)
	w := NewWatcher(path, func(c *Catalog) error {
		select {
		case got <- c:
		default:
		}
		return nil
	})
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Broken versions are skipped; the next valid write still applies.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("products: ["), 0o644)
		updated := small + `  - { id: "2", name: Shirt, price: "90", category: tops }` + "\n"
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return false
		}
		select {
		case c := <-got:
			return len(c.Products) == 2
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
