package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"atelier/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    p.id, p.name, p.price, p.original_price, p.category, p.image, p.hover_image,
    p.description, p.colors_json, p.sizes_json, p.is_new, p.is_sale, p.best_seller_rank`

type productRow struct {
	ID             string              `db:"id"`
	Name           string              `db:"name"`
	Price          decimal.Decimal     `db:"price"`
	OriginalPrice  decimal.NullDecimal `db:"original_price"`
	Category       string              `db:"category"`
	Image          string              `db:"image"`
	HoverImage     string              `db:"hover_image"`
	Description    string              `db:"description"`
	ColorsJSON     string              `db:"colors_json"`
	SizesJSON      string              `db:"sizes_json"`
	IsNew          bool                `db:"is_new"`
	IsSale         bool                `db:"is_sale"`
	BestSellerRank int                 `db:"best_seller_rank"`
}

func (r productRow) product() domain.Product {
	return domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Category:       r.Category,
		Image:          r.Image,
		HoverImage:     r.HoverImage,
		Description:    r.Description,
		Colors:         decodeList(r.ColorsJSON),
		Sizes:          decodeList(r.SizesJSON),
		IsNew:          r.IsNew,
		IsSale:         r.IsSale,
		BestSellerRank: r.BestSellerRank,
	}
}

// List returns the whole catalog in catalog order.
func (r *ProductRepo) List() ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT`+productCols+` FROM products p ORDER BY p.position`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	err := r.db.Get(&row, r.db.Rebind(`SELECT`+productCols+` FROM products p WHERE p.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.product(), nil
}
