package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	applog "atelier/internal/log"
	"atelier/internal/pricing"
)

type Config struct {
	Port           string
	DBDSN          string
	CatalogFile    string
	WatchCatalog   bool
	LogFile        string
	LogLevel       string
	RateLimit      int
	TemplateReload bool
	Pricing        pricing.Policy
}

func Load() Config {
	def := pricing.DefaultPolicy()
	cfg := Config{
		Port:           env("PORT", "8080"),
		DBDSN:          env("DB_DSN", ":memory:"),
		CatalogFile:    os.Getenv("CATALOG_FILE"),
		WatchCatalog:   envBool("WATCH_CATALOG", false),
		LogFile:        os.Getenv("LOG_FILE"),
		LogLevel:       env("LOG_LEVEL", "info"),
		RateLimit:      envInt("RATE_LIMIT", 120),
		TemplateReload: envBool("TEMPLATE_RELOAD", false),
		Pricing: pricing.Policy{
			PromoCode:        env("PROMO_CODE", def.PromoCode),
			PromoRate:        def.PromoRate,
			FreeShippingOver: envDecimal("FREE_SHIPPING_OVER", def.FreeShippingOver),
			FlatShipping:     envDecimal("FLAT_SHIPPING", def.FlatShipping),
		},
	}
	if pct := envDecimal("PROMO_PERCENT", decimal.Zero); pct.IsPositive() && pct.LessThanOrEqual(decimal.NewFromInt(100)) {
		cfg.Pricing.PromoRate = pct.Div(decimal.NewFromInt(100))
	}
	return cfg
}

// Log reports the effective configuration once logging is set up. The
// database DSN is left out since it may carry credentials.
func (c Config) Log() {
	applog.L().Info("config",
		zap.String("port", c.Port),
		zap.Bool("postgres", strings.HasPrefix(c.DBDSN, "postgres")),
		zap.String("catalog_file", c.CatalogFile),
		zap.Bool("watch_catalog", c.WatchCatalog),
		zap.String("log_file", c.LogFile),
		zap.Int("rate_limit", c.RateLimit),
		zap.String("promo_code", c.Pricing.PromoCode),
		zap.Int64("promo_percent", c.Pricing.PromoPercent()),
		zap.String("free_shipping_over", c.Pricing.FreeShippingOver.String()),
		zap.String("flat_shipping", c.Pricing.FlatShipping.String()),
	)
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(env(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(env(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}
