package repository

import (
	"context"

	"github.com/adisood/mandi/internal/domain"
)

// ListActiveCategories returns active categories ordered for display.
func (q *Queries) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, name, slug, image, sort_order, is_active, created_at, updated_at
		FROM categories WHERE is_active
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Image,
			&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var c domain.Category
	err := q.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, image, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, slug, image, sort_order, is_active, created_at, updated_at`,
		category.ID, category.Name, category.Slug, category.Image,
		category.SortOrder, category.IsActive,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.SortOrder, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
