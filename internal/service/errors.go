package service

import (
	"github.com/adisood/mandi/internal/domain"
)

// Cart errors
var (
	ErrCartNotFound     = domain.ErrCartNotFound
	ErrCartItemNotFound = domain.ErrCartItemNotFound
	ErrCartEmpty        = domain.ErrCartEmpty
	ErrInvalidQuantity  = domain.ErrInvalidQuantity
)

// Catalog errors
var (
	ErrProductNotFound  = domain.ErrProductNotFound
	ErrCategoryNotFound = domain.ErrCategoryNotFound
	ErrDuplicateSlug    = domain.ErrDuplicateSlug
)

// Identifier errors - use domain.EINVALID
var (
	ErrInvalidUserID    = domain.Errorf(domain.EINVALID, "", "Invalid user ID")
	ErrInvalidProductID = domain.Errorf(domain.EINVALID, "", "Invalid product ID")
)
