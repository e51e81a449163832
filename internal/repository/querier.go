package repository

import (
	"context"
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// Querier is the storage boundary consumed by the service layer. The pgx
// implementation lives in this package; tests substitute func-field mocks.
//
// Methods that look up a single row return pgx.ErrNoRows when nothing
// matches; callers map that to domain errors.
type Querier interface {
	// Products. "Active" lookups only see is_active rows; the unqualified
	// getters are for admin use.
	GetActiveProduct(ctx context.Context, id string) (*domain.Product, error)
	GetActiveProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListActiveProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)

	// Categories.
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)

	// Carts. SaveCart upserts the whole aggregate in one statement; a partial
	// unique index guarantees at most one active cart per user.
	GetActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	UpdateCartStatus(ctx context.Context, cartID string, status domain.CartStatus) error
	MarkExpiredCartsAbandoned(ctx context.Context, now time.Time) (int64, error)
	DeleteAbandonedCartsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Users and OTP challenges.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpsertOTPChallenge(ctx context.Context, challenge *domain.OTPChallenge) error
	GetOTPChallenge(ctx context.Context, phone string) (*domain.OTPChallenge, error)
	IncrementOTPAttempts(ctx context.Context, phone string) error
	DeleteOTPChallenge(ctx context.Context, phone string) error
}
