package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/catalog"
	"atelier/internal/config"
	"atelier/internal/content"
	"atelier/internal/domain"
	apphttp "atelier/internal/http"
	"atelier/internal/pricing"
	"atelier/internal/repos"
)

func outputOf(t *testing.T, run func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := run(cmd, args)
	return buf.String(), err
}

func TestCatalogCmd(t *testing.T) {
	catalogFile, catalogCategory, catalogSort = "", "outerwear", "price-high"
	defer func() { catalogCategory, catalogSort = "all", "" }()

	out, err := outputOf(t, runCatalog)
	require.NoError(t, err)
	assert.Contains(t, out, "2 products")
	coat := strings.Index(out, "Merino Wool Coat")
	blazer := strings.Index(out, "Oversized Linen Blazer")
	require.True(t, coat > 0 && blazer > 0, out)
	assert.Less(t, coat, blazer)
	assert.Contains(t, out, "$289 (was $350)")
	assert.NotContains(t, out, "Cotton Poplin Shirt")

	catalogCategory = "hats"
	_, err = outputOf(t, runCatalog)
	assert.ErrorContains(t, err, `unknown category "hats"`)
}

func TestCatalogCmdMissingFile(t *testing.T) {
	catalogFile = t.TempDir() + "/missing.yaml"
	defer func() { catalogFile = "" }()

	_, err := outputOf(t, runCatalog)
	assert.Error(t, err)
}

func TestPagesCmd(t *testing.T) {
	out, err := outputOf(t, runPagesList)
	require.NoError(t, err)
	for _, slug := range []string{"about", "shipping", "returns", "terms"} {
		assert.Contains(t, out, slug)
	}

	pagesStyle, pagesWidth = "notty", 80
	defer func() { pagesStyle = "auto" }()
	out, err = outputOf(t, runPagesShow, "shipping")
	require.NoError(t, err)
	assert.Contains(t, out, "Shipping")
	assert.Contains(t, out, "Standard")

	_, err = outputOf(t, runPagesShow, "gift-cards")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestServeConfigFlags(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DSN", "shop.db")
	t.Cleanup(func() {
		serveCmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})

	cfg := serveConfig(serveCmd)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "shop.db", cfg.DBDSN)

	require.NoError(t, serveCmd.Flags().Parse([]string{"--port", "9100", "--watch", "--catalog", "c.yaml"}))
	cfg = serveConfig(serveCmd)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "shop.db", cfg.DBDSN, "unset flags keep the environment value")
	assert.Equal(t, "c.yaml", cfg.CatalogFile)
	assert.True(t, cfg.WatchCatalog)
}

func TestServeStopsOnCancel(t *testing.T) {
	cat, err := catalog.Embedded()
	require.NoError(t, err)
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, repos.SyncCatalog(context.Background(), db, cat.Products, cat.Collections))
	pages, err := content.Load()
	require.NoError(t, err)
	app := apphttp.New(db, catalog.NewStore(cat), pages, config.Config{RateLimit: 100, Pricing: pricing.DefaultPolicy()})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, app, ln, nil) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"ok":true}`, string(b))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
