package service

import (
	"context"
	"strings"

	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/repository"
	"github.com/google/uuid"
)

type categoryService struct {
	repo repository.Querier
}

// NewCategoryService creates a CategoryService backed by the given storage.
func NewCategoryService(repo repository.Querier) domain.CategoryService {
	return &categoryService{repo: repo}
}

// ListCategories returns active categories in display order.
func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, domain.Internal(err, "category.list", "failed to list categories")
	}
	return categories, nil
}

// CreateCategory creates an active category.
func (s *categoryService) CreateCategory(ctx context.Context, name, slug, image string, sortOrder int) (*domain.Category, error) {
	const op = "category.create"

	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, domain.Invalid(op, "Category name is required")
	}
	if slug == "" {
		return nil, domain.Invalid(op, "Category slug is required")
	}

	category, err := s.repo.CreateCategory(ctx, &domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		Image:     image,
		SortOrder: sortOrder,
		IsActive:  true,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "Category slug already exists")
		}
		return nil, domain.Internal(err, op, "failed to create category")
	}
	return category, nil
}
