package services_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"atelier/internal/catalog"
	"atelier/internal/domain"
	"atelier/internal/pricing"
	"atelier/internal/repos"
	"atelier/internal/services"
)

func memdb(t *testing.T, products []domain.Product, collections []domain.Collection) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repos.SyncCatalog(context.Background(), db, products, collections); err != nil {
		t.Fatal(err)
	}
	return db
}

func embedded(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func money(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestFilterByCategory(t *testing.T) {
	all := embedded(t).Products

	if diff := cmp.Diff(ids(all), ids(services.FilterByCategory(all, "all"))); diff != "" {
		t.Fatalf("all should keep the catalog unchanged (-want +got):\n%s", diff)
	}

	knit := services.FilterByCategory(all, "knitwear")
	var want []string
	for _, p := range all {
		if p.Category == "knitwear" {
			want = append(want, p.ID)
		}
	}
	if diff := cmp.Diff(want, ids(knit)); diff != "" {
		t.Fatalf("knitwear subset (-want +got):\n%s", diff)
	}

	if got := services.FilterByCategory(all, "hats"); len(got) != 0 {
		t.Fatalf("unknown category should match nothing, got %v", ids(got))
	}
}

func TestSortProducts(t *testing.T) {
	all := embedded(t).Products

	low := services.SortProducts(all, services.SortPriceLow)
	for i := 1; i < len(low); i++ {
		if low[i-1].Price.GreaterThan(low[i].Price) {
			t.Fatalf("price-low out of order at %d: %s > %s", i, low[i-1].Price, low[i].Price)
		}
	}
	high := services.SortProducts(all, services.SortPriceHigh)
	for i := 1; i < len(high); i++ {
		if high[i-1].Price.LessThan(high[i].Price) {
			t.Fatalf("price-high out of order at %d", i)
		}
	}

	wantSet := ids(all)
	sort.Strings(wantSet)
	for _, got := range [][]domain.Product{low, high} {
		gotSet := ids(got)
		sort.Strings(gotSet)
		if diff := cmp.Diff(wantSet, gotSet); diff != "" {
			t.Fatalf("sorting changed the id set (-want +got):\n%s", diff)
		}
	}

	for _, key := range []string{services.SortNewest, "", "bogus"} {
		if diff := cmp.Diff(ids(all), ids(services.SortProducts(all, key))); diff != "" {
			t.Fatalf("sort %q should keep order (-want +got):\n%s", key, diff)
		}
	}
}

func TestSortProducts_Stable(t *testing.T) {
	ps := []domain.Product{
		{ID: "a", Price: money(100)},
		{ID: "b", Price: money(50)},
		{ID: "c", Price: money(100)},
		{ID: "d", Price: money(50)},
	}
	if diff := cmp.Diff([]string{"b", "d", "a", "c"}, ids(services.SortProducts(ps, services.SortPriceLow))); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"a", "c", "b", "d"}, ids(services.SortProducts(ps, services.SortPriceHigh))); diff != "" {
		t.Fatal(diff)
	}
}

func TestCatalogService_Lookups(t *testing.T) {
	cat := embedded(t)
	db := memdb(t, cat.Products, cat.Collections)
	svc := services.NewCatalogService(repos.NewProductRepo(db), repos.NewCollectionRepo(db))

	if _, err := svc.Product("999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
	if _, _, err := svc.Collection("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown collection: want ErrNotFound, got %v", err)
	}

	coat, err := svc.Product("5")
	if err != nil {
		t.Fatal(err)
	}
	related, err := svc.Related(coat)
	if err != nil {
		t.Fatal(err)
	}
	if len(related) == 0 || len(related) > 4 {
		t.Fatalf("related count = %d", len(related))
	}
	for _, p := range related {
		if p.ID == coat.ID || p.Category != coat.Category {
			t.Fatalf("bad related product %+v", p)
		}
	}

	best, err := svc.BestSellers()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1", "2", "5", "4", "7", "6"}, ids(best)); diff != "" {
		t.Fatalf("best sellers (-want +got):\n%s", diff)
	}

	fresh, _ := svc.NewArrivals()
	for _, p := range fresh {
		if !p.IsNew {
			t.Fatalf("%s is not new", p.ID)
		}
	}

	featured, _ := svc.Featured()
	if len(featured) != 6 || featured[0].ID != cat.Products[0].ID {
		t.Fatalf("featured = %v", ids(featured))
	}

	// An empty product list means the whole catalog.
	_, prods, err := svc.Collection("essentials")
	if err != nil {
		t.Fatal(err)
	}
	if len(prods) != len(cat.Products) {
		t.Fatalf("essentials shows %d products, want %d", len(prods), len(cat.Products))
	}
	_, prods, _ = svc.Collection("evening")
	if diff := cmp.Diff([]string{"4", "11", "7"}, ids(prods)); diff != "" {
		t.Fatalf("evening (-want +got):\n%s", diff)
	}

	others, _ := svc.RelatedCollections("evening")
	if len(others) != 3 {
		t.Fatalf("related collections = %d", len(others))
	}
	for _, c := range others {
		if c.Slug == "evening" {
			t.Fatal("related collections include the current one")
		}
	}

	shop, err := svc.Shop("outerwear", services.SortPriceHigh)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"5", "1"}, ids(shop)); diff != "" {
		t.Fatalf("shop (-want +got):\n%s", diff)
	}

	hits, err := svc.Search("CASHMERE", "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2", "10"}, ids(hits)); diff != "" {
		t.Fatalf("search (-want +got):\n%s", diff)
	}
	hits, _ = svc.Search("cashmere", "accessories")
	if diff := cmp.Diff([]string{"10"}, ids(hits)); diff != "" {
		t.Fatalf("search in category (-want +got):\n%s", diff)
	}
}

// Two plain products with no size/color options.
func scenarioCart(t *testing.T) *services.CartService {
	t.Helper()
	db := memdb(t, []domain.Product{
		{ID: "A", Name: "Coat", Price: money(890), Category: "outerwear", Image: "a.jpg"},
		{ID: "B", Name: "Knit", Price: money(320), Category: "knitwear", Image: "b.jpg"},
		{ID: "S", Name: "Shirt", Price: money(100), Category: "tops", Image: "s.jpg", Sizes: []string{"S", "M"}, Colors: []string{"White"}},
	}, nil)
	return services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db), pricing.DefaultPolicy())
}

func TestCartService_Scenarios(t *testing.T) {
	svc := scenarioCart(t)
	sid := "sid-1"

	if _, err := svc.Add(sid, "A", "", "", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(sid, "B", "", "", 2); err != nil {
		t.Fatal(err)
	}
	v, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	tt := v.Totals
	if !tt.Subtotal.Equal(money(1530)) || !tt.Discount.IsZero() || !tt.Shipping.IsZero() || !tt.Total.Equal(money(1530)) {
		t.Fatalf("bad totals: %+v", tt)
	}

	if err := svc.ApplyPromo(sid, "welcome10"); err != nil {
		t.Fatal(err)
	}
	v, _ = svc.View(sid)
	if !v.Totals.Discount.Equal(decimal.RequireFromString("153.0")) || !v.Totals.Total.Equal(money(1377)) {
		t.Fatalf("promo totals: %+v", v.Totals)
	}
	if v.PromoCode != "WELCOME10" {
		t.Fatalf("promo code = %q", v.PromoCode)
	}

	if err := svc.ApplyPromo(sid, "WELCOME20"); !errors.Is(err, services.ErrInvalidPromo) {
		t.Fatalf("want ErrInvalidPromo, got %v", err)
	}
	v, _ = svc.View(sid)
	if !v.Totals.PromoApplied {
		t.Fatal("a rejected code must not clear the applied promo")
	}

	if err := svc.ClearPromo(sid); err != nil {
		t.Fatal(err)
	}
	v, _ = svc.View(sid)
	if v.Totals.PromoApplied || !v.Totals.Discount.IsZero() {
		t.Fatalf("promo should be cleared: %+v", v.Totals)
	}
}

func TestCartService_DecrementToZeroRemoves(t *testing.T) {
	svc := scenarioCart(t)

	a, _ := svc.Add("x", "A", "", "", 1)
	if _, err := svc.Add("x", "B", "", "", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetQty("x", a, 0); err != nil {
		t.Fatal(err)
	}

	b, _ := svc.Add("y", "A", "", "", 1)
	if _, err := svc.Add("y", "B", "", "", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Remove("y", b); err != nil {
		t.Fatal(err)
	}

	vx, _ := svc.View("x")
	vy, _ := svc.View("y")
	if len(vx.Lines) != 1 || len(vy.Lines) != 1 || vx.Lines[0].Product.ID != vy.Lines[0].Product.ID {
		t.Fatalf("decrement to zero should equal removal: %+v vs %+v", vx.Lines, vy.Lines)
	}
	if !vx.Totals.Total.Equal(vy.Totals.Total) {
		t.Fatalf("totals differ: %s vs %s", vx.Totals.Total, vy.Totals.Total)
	}
	// 320 is under the threshold, so shipping applies.
	if !vx.Totals.Shipping.Equal(money(25)) {
		t.Fatalf("shipping = %s", vx.Totals.Shipping)
	}
}

func TestCartService_MergeStopsAtLineCap(t *testing.T) {
	svc := scenarioCart(t)

	var line string
	for i := 0; i < 3; i++ {
		id, err := svc.Add("m", "A", "", "", domain.MaxLineQty)
		if err != nil {
			t.Fatal(err)
		}
		line = id
	}
	v, _ := svc.View("m")
	if len(v.Lines) != 1 || v.Lines[0].Qty != domain.MaxLineQty {
		t.Fatalf("repeated adds should cap the line at %d: %+v", domain.MaxLineQty, v.Lines)
	}

	if _, err := svc.Add("n", "B", "", "", domain.MaxLineQty+25); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetQty("m", line, 500); err != nil {
		t.Fatal(err)
	}
	vm, _ := svc.View("m")
	vn, _ := svc.View("n")
	if vm.Lines[0].Qty != domain.MaxLineQty || vn.Lines[0].Qty != domain.MaxLineQty {
		t.Fatalf("qty over the cap: set=%d add=%d", vm.Lines[0].Qty, vn.Lines[0].Qty)
	}
}

func TestCartService_Validation(t *testing.T) {
	svc := scenarioCart(t)

	if _, err := svc.Add("z", "nope", "", "", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown product: want ErrNotFound, got %v", err)
	}
	if _, err := svc.Add("z", "A", "", "", 0); !errors.Is(err, services.ErrInvalidQty) {
		t.Fatalf("qty 0: want ErrInvalidQty, got %v", err)
	}
	if _, err := svc.Add("z", "S", "", "White", 1); !errors.Is(err, services.ErrOptionRequired) {
		t.Fatalf("missing size: want ErrOptionRequired, got %v", err)
	}
	if _, err := svc.Add("z", "S", "XL", "White", 1); !errors.Is(err, services.ErrOptionRequired) {
		t.Fatalf("unknown size: want ErrOptionRequired, got %v", err)
	}
	if _, err := svc.Add("z", "S", "M", "White", 1); err != nil {
		t.Fatal(err)
	}
	// Options the product does not have are ignored.
	if _, err := svc.Add("z", "A", "M", "Red", 1); err != nil {
		t.Fatal(err)
	}
	v, _ := svc.View("z")
	if len(v.Lines) != 2 || v.Lines[1].SelectedSize != "" || v.Lines[1].SelectedColor != "" {
		t.Fatalf("bad lines: %+v", v.Lines)
	}

	empty, err := svc.View("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Totals.Total.IsZero() || !empty.Totals.Shipping.IsZero() {
		t.Fatalf("empty cart should quote zero: %+v", empty.Totals)
	}
}

func TestWishlistService(t *testing.T) {
	cat := embedded(t)
	db := memdb(t, cat.Products, nil)
	prods := repos.NewProductRepo(db)
	svc := services.NewWishlistService(repos.NewWishlistRepo(db), prods)

	if err := svc.Save("w", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := svc.Save("w", "2"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := svc.Has("w", "2"); !ok {
		t.Fatal("want saved")
	}
	list, _ := svc.List("w")
	if len(list) != 1 || list[0].Name != "Cashmere Crew Sweater" {
		t.Fatalf("bad list: %+v", list)
	}
	if err := svc.Unsave("w", "2"); err != nil {
		t.Fatal(err)
	}
	if list, _ := svc.List("w"); len(list) != 0 {
		t.Fatalf("want empty, got %+v", list)
	}
}
