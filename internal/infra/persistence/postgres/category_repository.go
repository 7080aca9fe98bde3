package postgres

import (
	"context"
	"database/sql"
	"errors"

	domcategory "example.com/storefront/internal/domain/category"
)

type categoryRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
	ParentID *int64 `db:"parent_id"`
	IsActive bool   `db:"is_active"`
}

func (r categoryRow) toDomain() *domcategory.Category {
	return &domcategory.Category{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		ParentID: r.ParentID,
		IsActive: r.IsActive,
	}
}

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetBySlug returns an active category.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domcategory.Category, error) {
	var row categoryRow
	err := r.db.Get(ctx, &row, `
        SELECT id, name, slug, parent_id, is_active
        FROM categories
        WHERE slug = $1 AND is_active = TRUE
    `, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcategory.ErrCategoryNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	query := `SELECT id, name, slug, parent_id, is_active FROM categories`
	if filter.OnlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC, id ASC`

	var rows []categoryRow
	if err := r.db.Select(ctx, &rows, query); err != nil {
		return nil, err
	}
	categories := make([]*domcategory.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toDomain())
	}
	return categories, nil
}
