package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"atelier/internal/domain"
)

type CollectionRepo struct{ db *sqlx.DB }

func NewCollectionRepo(db *sqlx.DB) *CollectionRepo { return &CollectionRepo{db: db} }

type collectionRow struct {
	ID             string `db:"id"`
	Slug           string `db:"slug"`
	Name           string `db:"name"`
	Description    string `db:"description"`
	Image          string `db:"image"`
	ProductCount   int    `db:"product_count"`
	ProductIDsJSON string `db:"product_ids_json"`
}

func (r collectionRow) collection() domain.Collection {
	return domain.Collection{
		ID:           r.ID,
		Slug:         r.Slug,
		Name:         r.Name,
		Description:  r.Description,
		Image:        r.Image,
		ProductCount: r.ProductCount,
		ProductIDs:   decodeList(r.ProductIDsJSON),
	}
}

const collectionCols = `id, slug, name, description, image, product_count, product_ids_json`

func (r *CollectionRepo) List() ([]domain.Collection, error) {
	var rows []collectionRow
	if err := r.db.Select(&rows, `SELECT `+collectionCols+` FROM collections ORDER BY position`); err != nil {
		return nil, err
	}
	out := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.collection())
	}
	return out, nil
}

func (r *CollectionRepo) BySlug(slug string) (domain.Collection, error) {
	var row collectionRow
	err := r.db.Get(&row, r.db.Rebind(`SELECT `+collectionCols+` FROM collections WHERE slug = ?`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Collection{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Collection{}, err
	}
	return row.collection(), nil
}
