package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "CATALOG_FILE", "WATCH_CATALOG", "RATE_LIMIT", "PROMO_CODE",
		"PROMO_PERCENT", "FREE_SHIPPING_OVER", "FLAT_SHIPPING", "LOG_LEVEL", "TEMPLATE_RELOAD"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.False(t, cfg.WatchCatalog)
	assert.Equal(t, "WELCOME10", cfg.Pricing.PromoCode)
	assert.Equal(t, int64(10), cfg.Pricing.PromoPercent())
	assert.True(t, cfg.Pricing.FreeShippingOver.Equal(decimal.NewFromInt(500)))
	assert.True(t, cfg.Pricing.FlatShipping.Equal(decimal.NewFromInt(25)))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WATCH_CATALOG", "true")
	t.Setenv("RATE_LIMIT", "30")
	t.Setenv("PROMO_CODE", "SPRING")
	t.Setenv("PROMO_PERCENT", "15")
	t.Setenv("FREE_SHIPPING_OVER", "250")
	t.Setenv("FLAT_SHIPPING", "12.5")
	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.WatchCatalog)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.True(t, cfg.Pricing.MatchPromo("spring"))
	assert.True(t, cfg.Pricing.PromoRate.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, cfg.Pricing.FreeShippingOver.Equal(decimal.NewFromInt(250)))
	assert.True(t, cfg.Pricing.FlatShipping.Equal(decimal.RequireFromString("12.5")))
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("RATE_LIMIT", "lots")
	t.Setenv("PROMO_PERCENT", "250")
	t.Setenv("FLAT_SHIPPING", "-3")
	t.Setenv("WATCH_CATALOG", "maybe")
	cfg := Load()

	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, int64(10), cfg.Pricing.PromoPercent())
	assert.True(t, cfg.Pricing.FlatShipping.Equal(decimal.NewFromInt(25)))
	assert.False(t, cfg.WatchCatalog)
}
