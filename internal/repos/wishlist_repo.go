package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"atelier/internal/domain"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Ensure(sessionID string) (string, error) {
	var id string
	if err := r.db.Get(&id, r.db.Rebind(`SELECT id FROM wishlists WHERE session_id=?`), sessionID); err == nil {
		return id, nil
	} else if !isNoRows(err) {
		return "", err
	}
	_, err := r.db.Exec(r.db.Rebind(`INSERT INTO wishlists(id,session_id,updated_at) VALUES(?,?,?)`),
		sessionID, sessionID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *WishlistRepo) Add(wishlistID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  INSERT INTO wishlist_items(wishlist_id, product_id, created_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(wishlist_id, product_id) DO NOTHING
	`), wishlistID, productID, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (r *WishlistRepo) Remove(wishlistID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`DELETE FROM wishlist_items WHERE wishlist_id=? AND product_id=?`), wishlistID, productID)
	return err
}

// List returns saved products, most recently saved first.
func (r *WishlistRepo) List(wishlistID string) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, r.db.Rebind(`
	  SELECT`+productCols+`
	  FROM wishlist_items wi
	  JOIN products p ON p.id = wi.product_id
	  WHERE wi.wishlist_id = ?
	  ORDER BY wi.created_at DESC, p.position
	`), wishlistID); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}

// Has reports whether productID is saved in the wishlist.
func (r *WishlistRepo) Has(wishlistID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id=? AND product_id=?`), wishlistID, productID)
	return n > 0, err
}
