package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/content"
	apphttp "atelier/internal/http"
	"atelier/internal/pricing"
	"atelier/internal/repos"
)

func testConfig() config.Config {
	return config.Config{
		DBDSN:     ":memory:",
		RateLimit: 1000,
		Pricing:   pricing.DefaultPolicy(),
	}
}

// newTestApp builds the full application over an in-memory database
// seeded with cat (the embedded catalog when nil).
func newTestApp(t *testing.T, cfg config.Config, cat *catalog.Catalog) (*fiber.App, *sqlx.DB) {
	t.Helper()
	if cat == nil {
		var err error
		cat, err = catalog.Embedded()
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repos.SyncCatalog(context.Background(), db, cat.Products, cat.Collections); err != nil {
		t.Fatalf("sync catalog: %v", err)
	}
	pages, err := content.Load()
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	return apphttp.New(db, catalog.NewStore(cat), pages, cfg), db
}

// client replays cookies between requests the way a browser would.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for k, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	for _, ck := range resp.Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits a form, adding the CSRF token (fetching one first if the
// client has none yet).
func (c *client) post(path string, form url.Values) *http.Response {
	c.t.Helper()
	if c.cookies["csrf_"] == "" {
		c.get("/cart")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", c.cookies["csrf_"])
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
