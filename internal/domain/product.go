package domain

import (
	"context"
	"time"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product represents a grocery catalog item. Prices are whole rupees.
type Product struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"categoryId"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	Brand          string    `json:"brand,omitempty"`
	SKU            string    `json:"sku"`
	Unit           string    `json:"unit"` // e.g. "500g", "1L", "dozen"
	Images         []string  `json:"images,omitempty"`
	Price          int64     `json:"price"`
	CompareAtPrice int64     `json:"compareAtPrice,omitempty"`
	Quantity       int       `json:"quantity"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// InStock reports whether any stock remains.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// ProductFilter contains optional filters for product listing.
type ProductFilter struct {
	CategoryID *string
	Search     *string
	Limit      int
	Offset     int
}

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	CategoryID     string
	Name           string
	Slug           string
	Description    string
	Brand          string
	SKU            string
	Unit           string
	Images         []string
	Price          int64
	CompareAtPrice int64
	Quantity       int
}

// UpdateProductParams contains parameters for updating a product.
// Pointer fields indicate optional updates (nil = no change).
type UpdateProductParams struct {
	CategoryID     *string
	Name           *string
	Slug           *string
	Description    *string
	Brand          *string
	Unit           *string
	Images         []string
	Price          *int64
	CompareAtPrice *int64
	Quantity       *int
	IsActive       *bool
}

// CatalogService provides read access to the product catalog and admin CRUD.
type CatalogService interface {
	// ListProducts returns active products matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// GetProduct retrieves an active product by ID.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// GetProductBySlug retrieves an active product by slug.
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)

	// CreateProduct creates a new product (admin).
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct updates an existing product (admin).
	UpdateProduct(ctx context.Context, id string, params UpdateProductParams) (*Product, error)

	// ArchiveProduct deactivates a product (admin). Archived products stay
	// referenced by cart snapshots but drop out of availability checks.
	ArchiveProduct(ctx context.Context, id string) error

	// AdjustStock changes a product's stock by delta (admin, may be negative).
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
}

// Product-specific errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrDuplicateSlug   = &Error{Code: ECONFLICT, Message: "Product slug already exists"}
)
