package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"atelier/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// EnsureCart creates the session's cart if it does not exist yet.
func (r *CartRepo) EnsureCart(sessionID string) error {
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO carts(session_id, promo_code, updated_at) VALUES(?, '', ?)
		ON CONFLICT(session_id) DO NOTHING
	`), sessionID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// AddLine adds qty of a product/size/color combination, merging into an
// existing line for the same combination. It returns the line id.
func (r *CartRepo) AddLine(sessionID, productID, size, color string, qty int) (string, error) {
	if err := r.EnsureCart(sessionID); err != nil {
		return "", err
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.Get(&id, tx.Rebind(`
		SELECT id FROM cart_lines
		WHERE session_id = ? AND product_id = ? AND size = ? AND color = ?
	`), sessionID, productID, size, color)
	switch {
	case err == nil:
		if _, err := tx.Exec(tx.Rebind(`UPDATE cart_lines SET qty = CASE WHEN qty + ? > ? THEN ? ELSE qty + ? END WHERE id = ?`),
			qty, domain.MaxLineQty, domain.MaxLineQty, qty, id); err != nil {
			return "", err
		}
	case isNoRows(err):
		id = uuid.NewString()
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO cart_lines(id, session_id, product_id, size, color, qty, position)
			SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(position), 0) + 1
			FROM cart_lines WHERE session_id = ?
		`), id, sessionID, productID, size, color, min(qty, domain.MaxLineQty), sessionID); err != nil {
			return "", err
		}
	default:
		return "", err
	}
	if err := touch(tx, sessionID); err != nil {
		return "", err
	}
	return id, tx.Commit()
}

// SetQty sets a line's quantity. Callers remove lines instead of setting
// a quantity below one.
func (r *CartRepo) SetQty(sessionID, lineID string, qty int) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE cart_lines SET qty = ? WHERE id = ? AND session_id = ?`), qty, lineID, sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveLine deletes a line. Removing a line that is not there is not an
// error.
func (r *CartRepo) RemoveLine(sessionID, lineID string) error {
	_, err := r.db.Exec(r.db.Rebind(`DELETE FROM cart_lines WHERE id = ? AND session_id = ?`), lineID, sessionID)
	return err
}

func (r *CartRepo) SetPromo(sessionID, code string) error {
	if err := r.EnsureCart(sessionID); err != nil {
		return err
	}
	_, err := r.db.Exec(r.db.Rebind(`UPDATE carts SET promo_code = ?, updated_at = ? WHERE session_id = ?`),
		code, time.Now().UTC().Format(time.RFC3339), sessionID)
	return err
}

// Promo returns the code applied to the session's cart, or "".
func (r *CartRepo) Promo(sessionID string) (string, error) {
	var code string
	err := r.db.Get(&code, r.db.Rebind(`SELECT promo_code FROM carts WHERE session_id = ?`), sessionID)
	if isNoRows(err) {
		return "", nil
	}
	return code, err
}

type cartLineRow struct {
	LineID string `db:"line_id"`
	Size   string `db:"size"`
	Color  string `db:"color"`
	Qty    int    `db:"qty"`
	productRow
}

// Lines returns the session's cart in the order lines were first added.
func (r *CartRepo) Lines(sessionID string) ([]domain.CartLine, error) {
	var rows []cartLineRow
	if err := r.db.Select(&rows, r.db.Rebind(`
		SELECT cl.id AS line_id, cl.size, cl.color, cl.qty,`+productCols+`
		FROM cart_lines cl JOIN products p ON p.id = cl.product_id
		WHERE cl.session_id = ?
		ORDER BY cl.position
	`), sessionID); err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CartLine{
			ID:            row.LineID,
			Product:       row.product(),
			Qty:           row.Qty,
			SelectedSize:  row.Size,
			SelectedColor: row.Color,
		})
	}
	return out, nil
}

// Count is the number of items (sum of quantities) in the session's cart.
func (r *CartRepo) Count(sessionID string) (int, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COALESCE(SUM(qty), 0) FROM cart_lines WHERE session_id = ?`), sessionID)
	return n, err
}

func touch(tx *sqlx.Tx, sessionID string) error {
	_, err := tx.Exec(tx.Rebind(`UPDATE carts SET updated_at = ? WHERE session_id = ?`),
		time.Now().UTC().Format(time.RFC3339), sessionID)
	return err
}
