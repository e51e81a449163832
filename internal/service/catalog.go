package service

import (
	"context"
	"errors"
	"strings"

	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultProductLimit = 20
	maxProductLimit     = 100
)

type catalogService struct {
	repo repository.Querier
}

// NewCatalogService creates a CatalogService backed by the given storage.
func NewCatalogService(repo repository.Querier) domain.CatalogService {
	return &catalogService{repo: repo}
}

// ListProducts returns active products matching the filter, newest first.
func (s *catalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultProductLimit
	}
	if filter.Limit > maxProductLimit {
		filter.Limit = maxProductLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.repo.ListActiveProducts(ctx, filter)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list", "failed to list products")
	}
	return products, nil
}

// GetProduct retrieves an active product by ID.
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := validateID(id, ErrInvalidProductID); err != nil {
		return nil, err
	}

	product, err := s.repo.GetActiveProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get", "failed to load product")
	}
	return product, nil
}

// GetProductBySlug retrieves an active product by slug.
func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.Invalid("catalog.get_by_slug", "Product slug is required")
	}

	product, err := s.repo.GetActiveProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, "catalog.get_by_slug", "failed to load product")
	}
	return product, nil
}

// CreateProduct creates a new active product.
func (s *catalogService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "catalog.create"

	switch {
	case strings.TrimSpace(params.Name) == "":
		return nil, domain.Invalid(op, "Product name is required")
	case strings.TrimSpace(params.Slug) == "":
		return nil, domain.Invalid(op, "Product slug is required")
	case params.Price < 0:
		return nil, domain.Invalid(op, "Price cannot be negative")
	case params.Quantity < 0:
		return nil, domain.Invalid(op, "Stock quantity cannot be negative")
	}
	if params.CategoryID != "" {
		if err := validateID(params.CategoryID, domain.Invalid(op, "Invalid category ID")); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.CreateProduct(ctx, &domain.Product{
		ID:             uuid.NewString(),
		CategoryID:     params.CategoryID,
		Name:           strings.TrimSpace(params.Name),
		Slug:           strings.ToLower(strings.TrimSpace(params.Slug)),
		Description:    params.Description,
		Brand:          params.Brand,
		SKU:            params.SKU,
		Unit:           params.Unit,
		Images:         params.Images,
		Price:          params.Price,
		CompareAtPrice: params.CompareAtPrice,
		Quantity:       params.Quantity,
		IsActive:       true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, domain.Internal(err, op, "failed to create product")
	}
	return product, nil
}

// UpdateProduct applies the non-nil fields of params to an existing product.
func (s *catalogService) UpdateProduct(ctx context.Context, id string, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "catalog.update"

	if err := validateID(id, ErrInvalidProductID); err != nil {
		return nil, err
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "failed to load product")
	}

	if params.CategoryID != nil {
		product.CategoryID = *params.CategoryID
	}
	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, domain.Invalid(op, "Product name cannot be blank")
		}
		product.Name = strings.TrimSpace(*params.Name)
	}
	if params.Slug != nil {
		if strings.TrimSpace(*params.Slug) == "" {
			return nil, domain.Invalid(op, "Product slug cannot be blank")
		}
		product.Slug = strings.ToLower(strings.TrimSpace(*params.Slug))
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Brand != nil {
		product.Brand = *params.Brand
	}
	if params.Unit != nil {
		product.Unit = *params.Unit
	}
	if params.Images != nil {
		product.Images = params.Images
	}
	if params.Price != nil {
		if *params.Price < 0 {
			return nil, domain.Invalid(op, "Price cannot be negative")
		}
		product.Price = *params.Price
	}
	if params.CompareAtPrice != nil {
		product.CompareAtPrice = *params.CompareAtPrice
	}
	if params.Quantity != nil {
		if *params.Quantity < 0 {
			return nil, domain.Invalid(op, "Stock quantity cannot be negative")
		}
		product.Quantity = *params.Quantity
	}
	if params.IsActive != nil {
		product.IsActive = *params.IsActive
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, domain.Internal(err, op, "failed to update product")
	}
	return updated, nil
}

// ArchiveProduct deactivates a product. Cart lines keep their snapshot; the
// product just stops resolving as available.
func (s *catalogService) ArchiveProduct(ctx context.Context, id string) error {
	inactive := false
	_, err := s.UpdateProduct(ctx, id, domain.UpdateProductParams{IsActive: &inactive})
	return err
}

// AdjustStock changes a product's stock by delta, which may be negative.
func (s *catalogService) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	const op = "catalog.adjust_stock"

	if err := validateID(id, ErrInvalidProductID); err != nil {
		return nil, err
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "failed to load product")
	}

	next := product.Quantity + delta
	if next < 0 {
		return nil, domain.Invalid(op, "Stock cannot go below zero")
	}
	product.Quantity = next

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to update stock")
	}
	return updated, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
