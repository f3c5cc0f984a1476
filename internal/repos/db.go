package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"atelier/internal/domain"
	applog "atelier/internal/log"
)

// OpenDB opens dsn and makes sure the schema exists. "postgres://" and
// "postgresql://" DSNs use lib/pq; anything else is a SQLite path or
// ":memory:". SQLite is pinned to one connection, which also keeps an
// in-memory database shared by every query.
func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "postgres"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	applog.L().Info("db.open", zap.String("driver", driver))
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	if db.DriverName() == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return err
		}
	}
	schema := `
-- Catalog (mirrors the catalog data module; replaced on reload)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  original_price TEXT,
  category TEXT NOT NULL,
  image TEXT NOT NULL,
  hover_image TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  colors_json TEXT NOT NULL DEFAULT '[]',
  sizes_json TEXT NOT NULL DEFAULT '[]',
  is_new INTEGER NOT NULL DEFAULT 0,
  is_sale INTEGER NOT NULL DEFAULT 0,
  best_seller_rank INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS collections(
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  product_count INTEGER NOT NULL DEFAULT 0,
  product_ids_json TEXT NOT NULL DEFAULT '[]'
);

-- Carts (one per visitor session)
CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  promo_code TEXT NOT NULL DEFAULT '',
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_lines(
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES carts(session_id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  qty INTEGER NOT NULL CHECK (qty >= 1),
  position INTEGER NOT NULL,
  UNIQUE (session_id, product_id, size, color)
);
CREATE INDEX IF NOT EXISTS idx_cart_lines_session ON cart_lines(session_id);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlists(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  created_at  TEXT,
  PRIMARY KEY (wishlist_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// SyncCatalog makes the catalog tables match products and collections.
// Rows that disappeared from the catalog are deleted, along with cart and
// wishlist lines pointing at them. Safe to run on every start and reload.
func SyncCatalog(ctx context.Context, db *sqlx.DB, products []domain.Product, collections []domain.Collection) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	upsertProduct := tx.Rebind(`
		INSERT INTO products(id, position, name, price, original_price, category, image, hover_image,
		  description, colors_json, sizes_json, is_new, is_sale, best_seller_rank)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		  position = excluded.position, name = excluded.name, price = excluded.price,
		  original_price = excluded.original_price, category = excluded.category,
		  image = excluded.image, hover_image = excluded.hover_image,
		  description = excluded.description, colors_json = excluded.colors_json,
		  sizes_json = excluded.sizes_json, is_new = excluded.is_new, is_sale = excluded.is_sale,
		  best_seller_rank = excluded.best_seller_rank`)
	ids := make([]string, 0, len(products))
	for i, p := range products {
		colors, err := encodeList(p.Colors)
		if err != nil {
			return err
		}
		sizes, err := encodeList(p.Sizes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertProduct,
			p.ID, i, p.Name, p.Price, p.OriginalPrice, p.Category, p.Image, p.HoverImage,
			p.Description, colors, sizes, boolInt(p.IsNew), boolInt(p.IsSale), p.BestSellerRank,
		); err != nil {
			return fmt.Errorf("sync product %s: %w", p.ID, err)
		}
		ids = append(ids, p.ID)
	}
	if err := deleteMissing(ctx, tx, "products", ids); err != nil {
		return err
	}

	upsertCollection := tx.Rebind(`
		INSERT INTO collections(id, position, slug, name, description, image, product_count, product_ids_json)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		  position = excluded.position, slug = excluded.slug, name = excluded.name,
		  description = excluded.description, image = excluded.image,
		  product_count = excluded.product_count, product_ids_json = excluded.product_ids_json`)
	ids = ids[:0]
	for i, c := range collections {
		pids, err := encodeList(c.ProductIDs)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertCollection,
			c.ID, i, c.Slug, c.Name, c.Description, c.Image, c.ProductCount, pids,
		); err != nil {
			return fmt.Errorf("sync collection %s: %w", c.Slug, err)
		}
		ids = append(ids, c.ID)
	}
	if err := deleteMissing(ctx, tx, "collections", ids); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteMissing(ctx context.Context, tx *sqlx.Tx, table string, keep []string) error {
	if len(keep) == 0 {
		_, err := tx.ExecContext(ctx, `DELETE FROM `+table)
		return err
	}
	q, args, err := sqlx.In(`DELETE FROM `+table+` WHERE id NOT IN (?)`, keep)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(q), args...)
	return err
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeList(s string) []string {
	var out []string
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil || len(out) == 0 {
		return nil
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
