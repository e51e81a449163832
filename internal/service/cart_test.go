package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adisood/mandi/internal/coupon"
	"github.com/adisood/mandi/internal/delivery"
	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/tax"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID    = "11111111-1111-1111-1111-111111111111"
	testProductID = "22222222-2222-2222-2222-222222222222"
	testProduct2  = "33333333-3333-3333-3333-333333333333"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// mockQuerier is a func-field mock of repository.Querier. Methods without a
// configured func panic so a test fails loudly on an unexpected call.
type mockQuerier struct {
	GetActiveProductFunc       func(ctx context.Context, id string) (*domain.Product, error)
	GetActiveProductBySlugFunc func(ctx context.Context, slug string) (*domain.Product, error)
	ListActiveProductsFunc     func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductFunc             func(ctx context.Context, id string) (*domain.Product, error)
	CreateProductFunc          func(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProductFunc          func(ctx context.Context, product *domain.Product) (*domain.Product, error)

	ListActiveCategoriesFunc func(ctx context.Context) ([]domain.Category, error)
	CreateCategoryFunc       func(ctx context.Context, category *domain.Category) (*domain.Category, error)

	GetActiveCartByUserFunc        func(ctx context.Context, userID string) (*domain.Cart, error)
	SaveCartFunc                   func(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	UpdateCartStatusFunc           func(ctx context.Context, cartID string, status domain.CartStatus) error
	MarkExpiredCartsAbandonedFunc  func(ctx context.Context, now time.Time) (int64, error)
	DeleteAbandonedCartsBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)

	GetUserByIDFunc          func(ctx context.Context, id string) (*domain.User, error)
	GetUserByPhoneFunc       func(ctx context.Context, phone string) (*domain.User, error)
	CreateUserFunc           func(ctx context.Context, user *domain.User) (*domain.User, error)
	UpsertOTPChallengeFunc   func(ctx context.Context, challenge *domain.OTPChallenge) error
	GetOTPChallengeFunc      func(ctx context.Context, phone string) (*domain.OTPChallenge, error)
	IncrementOTPAttemptsFunc func(ctx context.Context, phone string) error
	DeleteOTPChallengeFunc   func(ctx context.Context, phone string) error
}

func (m *mockQuerier) GetActiveProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetActiveProductFunc == nil {
		panic("unexpected call to GetActiveProduct")
	}
	return m.GetActiveProductFunc(ctx, id)
}

func (m *mockQuerier) GetActiveProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if m.GetActiveProductBySlugFunc == nil {
		panic("unexpected call to GetActiveProductBySlug")
	}
	return m.GetActiveProductBySlugFunc(ctx, slug)
}

func (m *mockQuerier) ListActiveProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if m.ListActiveProductsFunc == nil {
		panic("unexpected call to ListActiveProducts")
	}
	return m.ListActiveProductsFunc(ctx, filter)
}

func (m *mockQuerier) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetProductFunc == nil {
		panic("unexpected call to GetProduct")
	}
	return m.GetProductFunc(ctx, id)
}

func (m *mockQuerier) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.CreateProductFunc == nil {
		panic("unexpected call to CreateProduct")
	}
	return m.CreateProductFunc(ctx, product)
}

func (m *mockQuerier) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.UpdateProductFunc == nil {
		panic("unexpected call to UpdateProduct")
	}
	return m.UpdateProductFunc(ctx, product)
}

func (m *mockQuerier) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListActiveCategoriesFunc == nil {
		panic("unexpected call to ListActiveCategories")
	}
	return m.ListActiveCategoriesFunc(ctx)
}

func (m *mockQuerier) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateCategoryFunc == nil {
		panic("unexpected call to CreateCategory")
	}
	return m.CreateCategoryFunc(ctx, category)
}

func (m *mockQuerier) GetActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	if m.GetActiveCartByUserFunc == nil {
		panic("unexpected call to GetActiveCartByUser")
	}
	return m.GetActiveCartByUserFunc(ctx, userID)
}

func (m *mockQuerier) SaveCart(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if m.SaveCartFunc == nil {
		panic("unexpected call to SaveCart")
	}
	return m.SaveCartFunc(ctx, cart)
}

func (m *mockQuerier) UpdateCartStatus(ctx context.Context, cartID string, status domain.CartStatus) error {
	if m.UpdateCartStatusFunc == nil {
		panic("unexpected call to UpdateCartStatus")
	}
	return m.UpdateCartStatusFunc(ctx, cartID, status)
}

func (m *mockQuerier) MarkExpiredCartsAbandoned(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkExpiredCartsAbandonedFunc == nil {
		panic("unexpected call to MarkExpiredCartsAbandoned")
	}
	return m.MarkExpiredCartsAbandonedFunc(ctx, now)
}

func (m *mockQuerier) DeleteAbandonedCartsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteAbandonedCartsBeforeFunc == nil {
		panic("unexpected call to DeleteAbandonedCartsBefore")
	}
	return m.DeleteAbandonedCartsBeforeFunc(ctx, cutoff)
}

func (m *mockQuerier) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetUserByIDFunc == nil {
		panic("unexpected call to GetUserByID")
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *mockQuerier) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.GetUserByPhoneFunc == nil {
		panic("unexpected call to GetUserByPhone")
	}
	return m.GetUserByPhoneFunc(ctx, phone)
}

func (m *mockQuerier) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateUserFunc == nil {
		panic("unexpected call to CreateUser")
	}
	return m.CreateUserFunc(ctx, user)
}

func (m *mockQuerier) UpsertOTPChallenge(ctx context.Context, challenge *domain.OTPChallenge) error {
	if m.UpsertOTPChallengeFunc == nil {
		panic("unexpected call to UpsertOTPChallenge")
	}
	return m.UpsertOTPChallengeFunc(ctx, challenge)
}

func (m *mockQuerier) GetOTPChallenge(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	if m.GetOTPChallengeFunc == nil {
		panic("unexpected call to GetOTPChallenge")
	}
	return m.GetOTPChallengeFunc(ctx, phone)
}

func (m *mockQuerier) IncrementOTPAttempts(ctx context.Context, phone string) error {
	if m.IncrementOTPAttemptsFunc == nil {
		panic("unexpected call to IncrementOTPAttempts")
	}
	return m.IncrementOTPAttemptsFunc(ctx, phone)
}

func (m *mockQuerier) DeleteOTPChallenge(ctx context.Context, phone string) error {
	if m.DeleteOTPChallengeFunc == nil {
		panic("unexpected call to DeleteOTPChallenge")
	}
	return m.DeleteOTPChallengeFunc(ctx, phone)
}

// cartFixture wires a cart service against an in-memory cart/product table
// with the real rate table, 5% tax, and the launch coupon set.
type cartFixture struct {
	repo     *mockQuerier
	svc      *cartService
	products map[string]*domain.Product
	cart     *domain.Cart
	saves    int
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	f := &cartFixture{
		repo:     &mockQuerier{},
		products: make(map[string]*domain.Product),
	}

	f.repo.GetActiveProductFunc = func(ctx context.Context, id string) (*domain.Product, error) {
		p, ok := f.products[id]
		if !ok || !p.IsActive {
			return nil, pgx.ErrNoRows
		}
		return p, nil
	}
	f.repo.GetActiveCartByUserFunc = func(ctx context.Context, userID string) (*domain.Cart, error) {
		if f.cart == nil || f.cart.UserID != userID {
			return nil, pgx.ErrNoRows
		}
		return f.cart, nil
	}
	f.repo.SaveCartFunc = func(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
		f.cart = cart
		f.saves++
		return cart, nil
	}

	svc := NewCartService(
		f.repo,
		delivery.NewTableCalculator(),
		tax.NewPercentageCalculator(0.05),
		coupon.NewDefaultPolicy(),
		DefaultCartConfig(),
	).(*cartService)
	svc.now = func() time.Time { return testNow }

	f.svc = svc
	return f
}

func (f *cartFixture) addProduct(id, name string, price int64, stock int) *domain.Product {
	p := &domain.Product{
		ID:       id,
		Name:     name,
		Slug:     name,
		Price:    price,
		Quantity: stock,
		IsActive: true,
	}
	f.products[id] = p
	return p
}

func TestAddToCart_CreatesCart(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	cart, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)
	require.NotNil(t, cart)

	_, err = uuid.Parse(cart.ID)
	assert.NoError(t, err, "cart ID should be a valid UUID")
	assert.Equal(t, testUserID, cart.UserID)
	assert.Equal(t, domain.CartStatusActive, cart.Status)
	assert.Equal(t, domain.DeliveryStandard, cart.DeliveryType)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(100), cart.Items[0].Price)
	assert.Equal(t, int64(200), cart.Items[0].Subtotal)

	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, int64(200), cart.Subtotal)
	assert.Equal(t, int64(40), cart.DeliveryCharges)
	assert.Equal(t, int64(10), cart.Taxes)
	assert.Equal(t, int64(250), cart.TotalAmount)

	assert.Equal(t, testNow, cart.UpdatedAt)
	assert.Equal(t, testNow.Add(24*time.Hour), cart.ExpiresAt)
}

func TestAddToCart_FreeDeliveryThreshold(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	cart, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)

	assert.Equal(t, int64(500), cart.Subtotal)
	assert.Equal(t, int64(0), cart.DeliveryCharges)
	assert.Equal(t, int64(25), cart.Taxes)
	assert.Equal(t, int64(525), cart.TotalAmount)
}

func TestAddToCart_CombinesQuantityKeepsPriceSnapshot(t *testing.T) {
	f := newCartFixture(t)
	p := f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)

	// A later catalog price change must not touch the snapshotted line price.
	p.Price = 120

	cart, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 3, domain.AddToCartParams{})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(100), cart.Items[0].Price)
	assert.Equal(t, int64(500), cart.Subtotal)
}

func TestAddToCart_Validation(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		productID string
		quantity  int
		wantErr   error
	}{
		{"invalid user id", "nope", testProductID, 1, ErrInvalidUserID},
		{"invalid product id", testUserID, "nope", 1, ErrInvalidProductID},
		{"zero quantity", testUserID, testProductID, 0, ErrInvalidQuantity},
		{"negative quantity", testUserID, testProductID, -1, ErrInvalidQuantity},
		{"quantity above limit", testUserID, testProductID, 51, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(t)
			_, err := f.svc.AddToCart(context.Background(), tt.userID, tt.productID, tt.quantity, domain.AddToCartParams{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestAddToCart_OutOfStock(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "alphonso-mango", 100, 5)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 6, domain.AddToCartParams{})
	require.Error(t, err)
	assert.Equal(t, domain.EOUTOFSTOCK, domain.ErrorCode(err))
	assert.Equal(t, "Only 5 of alphonso-mango left in stock", domain.ErrorMessage(err))
}

func TestAddToCart_OutOfStockHeadroom(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "alphonso-mango", 100, 5)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 3, domain.AddToCartParams{})
	require.NoError(t, err)

	_, err = f.svc.AddToCart(context.Background(), testUserID, testProductID, 3, domain.AddToCartParams{})
	require.Error(t, err)
	assert.Equal(t, domain.EOUTOFSTOCK, domain.ErrorCode(err))
	assert.Equal(t, "Only 2 more of alphonso-mango can be added", domain.ErrorMessage(err))
}

func TestUpdateCartItem_OverwritesQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, int64(400), cart.Subtotal)
	assert.Equal(t, int64(40), cart.DeliveryCharges)
	assert.Equal(t, int64(20), cart.Taxes)
	assert.Equal(t, int64(460), cart.TotalAmount)
}

func TestUpdateCartItem_ZeroRemovesLineKeepsCoupons(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)

	cart, err := f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 0)
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, int64(0), cart.Subtotal)
	assert.Equal(t, int64(0), cart.Discount)
	assert.Equal(t, int64(0), cart.DeliveryCharges)
	assert.Equal(t, int64(0), cart.Taxes)
	assert.Equal(t, int64(0), cart.TotalAmount)
	assert.Equal(t, []string{"SAVE50"}, cart.AppliedCoupons, "applied codes survive item removal")
}

func TestUpdateCartItem_Errors(t *testing.T) {
	t.Run("no cart", func(t *testing.T) {
		f := newCartFixture(t)
		_, err := f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 1)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("line not in cart", func(t *testing.T) {
		f := newCartFixture(t)
		f.addProduct(testProductID, "basmati-rice", 100, 10)
		_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
		require.NoError(t, err)

		_, err = f.svc.UpdateCartItem(context.Background(), testUserID, testProduct2, 1)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("beyond stock", func(t *testing.T) {
		f := newCartFixture(t)
		f.addProduct(testProductID, "basmati-rice", 100, 5)
		_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
		require.NoError(t, err)

		_, err = f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 6)
		assert.Equal(t, domain.EOUTOFSTOCK, domain.ErrorCode(err))
	})

	t.Run("quantity above limit", func(t *testing.T) {
		f := newCartFixture(t)
		_, err := f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 51)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestRemoveFromCart(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)
	f.addProduct(testProduct2, "toor-dal", 150, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(context.Background(), testUserID, testProduct2, 1, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.RemoveFromCart(context.Background(), testUserID, testProductID)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, testProduct2, cart.Items[0].ProductID)
	assert.Equal(t, int64(150), cart.Subtotal)
}

func TestApplyCoupon_Fixed(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)

	assert.Equal(t, []string{"SAVE50"}, cart.AppliedCoupons)
	assert.Equal(t, int64(50), cart.Discount)
	assert.Equal(t, int64(50), cart.Savings)
	// 500 - 50 + 0 delivery + 25 tax
	assert.Equal(t, int64(475), cart.TotalAmount)
}

func TestApplyCoupon_Percentage(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.ApplyCoupon(context.Background(), testUserID, "welcome10")
	require.NoError(t, err)

	assert.Equal(t, []string{"WELCOME10"}, cart.AppliedCoupons, "codes are normalized to uppercase")
	assert.Equal(t, int64(50), cart.Discount)
}

func TestApplyCoupon_Stacking(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)

	_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)
	cart, err := f.svc.ApplyCoupon(context.Background(), testUserID, "FREEDEL")
	require.NoError(t, err)

	assert.Equal(t, []string{"SAVE50", "FREEDEL"}, cart.AppliedCoupons)
	assert.Equal(t, int64(90), cart.Discount)
	assert.Equal(t, int64(435), cart.TotalAmount)
}

func TestApplyCoupon_Errors(t *testing.T) {
	setup := func(t *testing.T, subtotalQty int) *cartFixture {
		f := newCartFixture(t)
		f.addProduct(testProductID, "basmati-rice", 100, 50)
		if subtotalQty > 0 {
			_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, subtotalQty, domain.AddToCartParams{})
			require.NoError(t, err)
		}
		return f
	}

	t.Run("empty cart", func(t *testing.T) {
		f := setup(t, 0)
		_, err := f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := setup(t, 5)
		_, err := f.svc.ApplyCoupon(context.Background(), testUserID, "BOGUS")
		assert.Equal(t, domain.ECOUPON, domain.ErrorCode(err))
	})

	t.Run("below minimum order", func(t *testing.T) {
		f := newCartFixture(t)
		f.addProduct(testProductID, "amul-butter", 299, 10)
		_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
		require.NoError(t, err)

		_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "WELCOME10")
		assert.Equal(t, domain.EMINORDER, domain.ErrorCode(err))
	})

	t.Run("duplicate code", func(t *testing.T) {
		f := setup(t, 5)
		_, err := f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
		require.NoError(t, err)

		_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "save50")
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	})

	t.Run("blank code", func(t *testing.T) {
		f := setup(t, 5)
		_, err := f.svc.ApplyCoupon(context.Background(), testUserID, "  ")
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestClearCart(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)

	savesBefore := f.saves
	require.NoError(t, f.svc.ClearCart(context.Background(), testUserID))

	assert.Equal(t, savesBefore+1, f.saves, "clear is one atomic save")
	assert.Empty(t, f.cart.Items)
	assert.Empty(t, f.cart.AppliedCoupons)
	assert.Equal(t, int64(0), f.cart.Subtotal)
	assert.Equal(t, int64(0), f.cart.TotalAmount)
	assert.Equal(t, domain.CartStatusActive, f.cart.Status)
}

func TestClearCart_NoCart(t *testing.T) {
	f := newCartFixture(t)
	err := f.svc.ClearCart(context.Background(), testUserID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestSetDeliveryInfo_Express(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.SetDeliveryInfo(context.Background(), testUserID, domain.DeliveryInfoParams{
		Type:              domain.DeliveryExpress,
		DeliveryAddressID: "44444444-4444-4444-4444-444444444444",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryExpress, cart.DeliveryType)
	assert.Equal(t, int64(60), cart.DeliveryCharges)
	require.NotNil(t, cart.EstimatedDelivery)
	assert.Equal(t, testNow.Add(30*time.Minute), *cart.EstimatedDelivery)
	// 200 + 60 + 10 tax
	assert.Equal(t, int64(270), cart.TotalAmount)
}

func TestSetDeliveryInfo_PickupIsFree(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)

	cart, err := f.svc.SetDeliveryInfo(context.Background(), testUserID, domain.DeliveryInfoParams{
		Type: domain.DeliveryPickup,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), cart.DeliveryCharges)
	require.NotNil(t, cart.EstimatedDelivery)
	assert.Equal(t, testNow.Add(15*time.Minute), *cart.EstimatedDelivery)
}

func TestSetDeliveryInfo_ScheduledSlot(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)

	slot := testNow.Add(48 * time.Hour)
	cart, err := f.svc.SetDeliveryInfo(context.Background(), testUserID, domain.DeliveryInfoParams{
		Type:              domain.DeliveryScheduled,
		DeliveryAddressID: "44444444-4444-4444-4444-444444444444",
		ScheduledDelivery: &slot,
	})
	require.NoError(t, err)

	require.NotNil(t, cart.EstimatedDelivery)
	assert.Equal(t, slot, *cart.EstimatedDelivery, "a chosen slot wins over the lead-time fallback")
}

func TestSetDeliveryInfo_Validation(t *testing.T) {
	past := testNow.Add(-time.Hour)

	tests := []struct {
		name   string
		params domain.DeliveryInfoParams
	}{
		{"unknown type", domain.DeliveryInfoParams{Type: "drone"}},
		{"scheduled without slot", domain.DeliveryInfoParams{Type: domain.DeliveryScheduled}},
		{"scheduled slot in the past", domain.DeliveryInfoParams{Type: domain.DeliveryScheduled, ScheduledDelivery: &past}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(t)
			_, err := f.svc.SetDeliveryInfo(context.Background(), testUserID, tt.params)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestSetDeliveryInfo_KeepsCouponDiscount(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)

	cart, err := f.svc.SetDeliveryInfo(context.Background(), testUserID, domain.DeliveryInfoParams{
		Type:              domain.DeliveryExpress,
		DeliveryAddressID: "44444444-4444-4444-4444-444444444444",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), cart.Discount)
	// 500 - 50 + 60 express + 25 tax
	assert.Equal(t, int64(535), cart.TotalAmount)
}

func TestGetCart_NoActiveCart(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.svc.GetCart(context.Background(), testUserID, false)
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestGetCart_ResolvesAvailability(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 3)
	p2 := f.addProduct(testProduct2, "toor-dal", 150, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 2, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.AddToCart(context.Background(), testUserID, testProduct2, 1, domain.AddToCartParams{})
	require.NoError(t, err)

	// Archive the second product after it was carted.
	p2.IsActive = false

	cart, err := f.svc.GetCart(context.Background(), testUserID, false)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, testProductID, cart.Items[0].ProductID)
	assert.True(t, cart.Items[0].IsAvailable)
	assert.Equal(t, 3, cart.Items[0].MaxQuantity)

	cart, err = f.svc.GetCart(context.Background(), testUserID, true)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.False(t, cart.Items[1].IsAvailable)
	assert.Equal(t, 0, cart.Items[1].MaxQuantity)

	// The unavailable line was filtered from the view only.
	assert.Len(t, f.cart.Items, 2)
}

func TestGetCartSummary(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 5, domain.AddToCartParams{})
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(context.Background(), testUserID, "SAVE50")
	require.NoError(t, err)

	summary, err := f.svc.GetCartSummary(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, f.cart.ID, summary.CartID)
	assert.Equal(t, 5, summary.TotalItems)
	assert.Equal(t, int64(500), summary.Subtotal)
	assert.Equal(t, int64(50), summary.Discount)
	assert.Equal(t, int64(475), summary.TotalAmount)
	assert.Equal(t, []string{"SAVE50"}, summary.AppliedCoupons)
}

func TestGetCartSummary_Empty(t *testing.T) {
	t.Run("no cart", func(t *testing.T) {
		f := newCartFixture(t)
		_, err := f.svc.GetCartSummary(context.Background(), testUserID)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("cart with no items", func(t *testing.T) {
		f := newCartFixture(t)
		f.addProduct(testProductID, "basmati-rice", 100, 10)
		_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
		require.NoError(t, err)
		require.NoError(t, f.svc.ClearCart(context.Background(), testUserID))

		_, err = f.svc.GetCartSummary(context.Background(), testUserID)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})
}

func TestCartTTLSlidesOnMutation(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
	require.NoError(t, err)
	first := f.cart.ExpiresAt

	later := testNow.Add(2 * time.Hour)
	f.svc.now = func() time.Time { return later }

	cart, err := f.svc.UpdateCartItem(context.Background(), testUserID, testProductID, 2)
	require.NoError(t, err)

	assert.Equal(t, later.Add(24*time.Hour), cart.ExpiresAt)
	assert.True(t, cart.ExpiresAt.After(first))
}

func TestCartStorageErrorIsInternal(t *testing.T) {
	f := newCartFixture(t)
	f.addProduct(testProductID, "basmati-rice", 100, 10)
	f.repo.GetActiveCartByUserFunc = func(ctx context.Context, userID string) (*domain.Cart, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.AddToCart(context.Background(), testUserID, testProductID, 1, domain.AddToCartParams{})
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}
