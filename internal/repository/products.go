package repository

import (
	"context"
	"fmt"

	"github.com/adisood/mandi/internal/domain"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, category_id, name, slug, description, brand, sku, unit,
	images, price, compare_at_price, quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description, &p.Brand,
		&p.SKU, &p.Unit, &p.Images, &p.Price, &p.CompareAtPrice,
		&p.Quantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveProduct returns an active product by ID.
func (q *Queries) GetActiveProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, id)
	return scanProduct(row)
}

// GetActiveProductBySlug returns an active product by slug.
func (q *Queries) GetActiveProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1 AND is_active`, slug)
	return scanProduct(row)
}

// GetProduct returns a product by ID regardless of active state.
func (q *Queries) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// ListActiveProducts returns active products matching the filter, newest first.
func (q *Queries) ListActiveProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR brand ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO products (id, category_id, name, slug, description, brand, sku, unit,
			images, price, compare_at_price, quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+productColumns,
		product.ID, product.CategoryID, product.Name, product.Slug,
		product.Description, product.Brand, product.SKU, product.Unit,
		product.Images, product.Price, product.CompareAtPrice,
		product.Quantity, product.IsActive,
	)
	return scanProduct(row)
}

// UpdateProduct overwrites a product's mutable columns and returns the stored row.
func (q *Queries) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := q.pool.QueryRow(ctx, `
		UPDATE products SET
			category_id = $2, name = $3, slug = $4, description = $5, brand = $6,
			unit = $7, images = $8, price = $9, compare_at_price = $10,
			quantity = $11, is_active = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		product.ID, product.CategoryID, product.Name, product.Slug,
		product.Description, product.Brand, product.Unit, product.Images,
		product.Price, product.CompareAtPrice, product.Quantity, product.IsActive,
	)
	return scanProduct(row)
}
