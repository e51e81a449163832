package domain

import (
	"context"
	"time"
)

// Category is a flat product grouping (no tree maintenance here).
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image,omitempty"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryService lists and manages categories.
type CategoryService interface {
	// ListCategories returns all active categories ordered by sort order.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a new category (admin).
	CreateCategory(ctx context.Context, name, slug, image string, sortOrder int) (*Category, error)
}

var ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
