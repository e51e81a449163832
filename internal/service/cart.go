package service

import (
	"context"
	"errors"
	"time"

	"github.com/adisood/mandi/internal/coupon"
	"github.com/adisood/mandi/internal/delivery"
	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/repository"
	"github.com/adisood/mandi/internal/tax"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CartConfig tunes the cart engine.
type CartConfig struct {
	// TTL is the sliding expiration window, refreshed on every mutation.
	TTL time.Duration

	// MaxQuantity is the per-line quantity ceiling.
	MaxQuantity int
}

// DefaultCartConfig returns the standard cart policy: 24 hour sliding TTL,
// at most 50 units per line.
func DefaultCartConfig() CartConfig {
	return CartConfig{
		TTL:         24 * time.Hour,
		MaxQuantity: 50,
	}
}

type cartService struct {
	repo     repository.Querier
	delivery delivery.Calculator
	tax      tax.Calculator
	coupons  coupon.Policy
	cfg      CartConfig

	// locks serializes mutations per user. Storage saves whole documents, so
	// without this two concurrent mutations of the same cart would race on
	// the read-modify-write cycle.
	locks *keyedMutex

	now func() time.Time
}

// NewCartService creates a CartService backed by the given storage and
// pricing policies.
func NewCartService(
	repo repository.Querier,
	deliveryCalc delivery.Calculator,
	taxCalc tax.Calculator,
	coupons coupon.Policy,
	cfg CartConfig,
) domain.CartService {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.MaxQuantity <= 0 {
		cfg.MaxQuantity = 50
	}
	return &cartService{
		repo:     repo,
		delivery: deliveryCalc,
		tax:      taxCalc,
		coupons:  coupons,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// AddToCart adds quantity of a product to the user's active cart, creating
// the cart lazily. An existing line keeps its original price snapshot; only
// the combined quantity changes.
func (s *cartService) AddToCart(ctx context.Context, userID, productID string, quantity int, params domain.AddToCartParams) (*domain.Cart, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	if err := validateID(productID, ErrInvalidProductID); err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > s.cfg.MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	product, err := s.repo.GetActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, "cart.add_item", "failed to load product")
	}

	if !product.InStock() || quantity > product.Quantity {
		return nil, domain.Errorf(domain.EOUTOFSTOCK, "cart.add_item",
			"Only %d of %s left in stock", product.Quantity, product.Name)
	}

	cart, err := s.loadOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if line := cart.Item(productID); line != nil {
		headroom := product.Quantity - line.Quantity
		if quantity > headroom {
			return nil, domain.Errorf(domain.EOUTOFSTOCK, "cart.add_item",
				"Only %d more of %s can be added", headroom, product.Name)
		}
		if line.Quantity+quantity > s.cfg.MaxQuantity {
			return nil, domain.Errorf(domain.EINVALID, "cart.add_item",
				"A cart cannot hold more than %d of a single product", s.cfg.MaxQuantity)
		}
		line.Quantity += quantity
		if params.Notes != "" {
			line.Notes = params.Notes
		}
	} else {
		cart.Items = append(cart.Items, snapshotItem(product, quantity, params.Notes))
	}

	if params.DeviceInfo != "" {
		cart.DeviceInfo = params.DeviceInfo
	}

	s.recomputeTotals(cart)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCartItem overwrites a line's quantity using the line's stored price
// snapshot. Quantity 0 removes the line.
func (s *cartService) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	if err := validateID(productID, ErrInvalidProductID); err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > s.cfg.MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.update_item", "failed to load cart")
	}

	line := cart.Item(productID)
	if line == nil {
		return nil, ErrCartItemNotFound
	}

	if quantity == 0 {
		items := make([]domain.CartItem, 0, len(cart.Items)-1)
		for _, it := range cart.Items {
			if it.ProductID != productID {
				items = append(items, it)
			}
		}
		cart.Items = items
	} else {
		product, err := s.repo.GetActiveProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrProductNotFound
			}
			return nil, domain.Internal(err, "cart.update_item", "failed to load product")
		}
		if quantity > product.Quantity {
			return nil, domain.Errorf(domain.EOUTOFSTOCK, "cart.update_item",
				"Only %d of %s left in stock", product.Quantity, product.Name)
		}
		line.Quantity = quantity
	}

	s.recomputeTotals(cart)
	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart removes a line from the cart.
func (s *cartService) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.UpdateCartItem(ctx, userID, productID, 0)
}

// ClearCart resets items, totals, and applied coupons in one atomic save.
// Caller confirmation is a transport-layer concern.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCartNotFound
		}
		return domain.Internal(err, "cart.clear", "failed to load cart")
	}

	cart.Items = nil
	cart.AppliedCoupons = nil
	s.recomputeTotals(cart)

	return s.persist(ctx, cart)
}

// ApplyCoupon validates a code against the coupon policy and stacks its
// discount onto the cart.
func (s *cartService) ApplyCoupon(ctx context.Context, userID, code string) (*domain.Cart, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	code = normalizeCouponCode(code)
	if code == "" {
		return nil, domain.Invalid("cart.apply_coupon", "Coupon code is required")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartEmpty
		}
		return nil, domain.Internal(err, "cart.apply_coupon", "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	if cart.HasCoupon(code) {
		return nil, domain.Conflict("cart.apply_coupon", "Coupon "+code+" is already applied")
	}

	c, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, coupon.ErrUnknownCode) {
			return nil, domain.Errorf(domain.ECOUPON, "cart.apply_coupon", "Invalid coupon code: %s", code)
		}
		return nil, domain.Internal(err, "cart.apply_coupon", "failed to look up coupon")
	}
	if cart.Subtotal < c.MinOrder {
		return nil, domain.Errorf(domain.EMINORDER, "cart.apply_coupon",
			"A minimum order of %d is required for %s", c.MinOrder, code)
	}

	amount := c.DiscountFor(cart.Subtotal)
	cart.AppliedCoupons = append(cart.AppliedCoupons, code)
	cart.Discount += amount
	cart.Savings += amount
	cart.TotalAmount = clampTotal(cart)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetDeliveryInfo updates delivery type, address, and schedule, then
// recomputes the delivery charge and estimated delivery time. A missing
// address for non-pickup types is tolerated here; the transport layer is
// responsible for requiring it.
func (s *cartService) SetDeliveryInfo(ctx context.Context, userID string, params domain.DeliveryInfoParams) (*domain.Cart, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}
	if !params.Type.Valid() {
		return nil, domain.Invalid("cart.set_delivery", "Unknown delivery type")
	}

	now := s.now()
	if params.Type == domain.DeliveryScheduled {
		if params.ScheduledDelivery == nil {
			return nil, domain.Invalid("cart.set_delivery", "A delivery slot is required for scheduled delivery")
		}
		if !params.ScheduledDelivery.After(now) {
			return nil, domain.Invalid("cart.set_delivery", "The delivery slot must be in the future")
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.set_delivery", "failed to load cart")
	}

	cart.DeliveryType = params.Type
	cart.DeliveryAddressID = params.DeliveryAddressID
	cart.ScheduledDelivery = params.ScheduledDelivery

	estimated := s.delivery.Estimate(params.Type, params.ScheduledDelivery, now)
	cart.EstimatedDelivery = &estimated

	if len(cart.Items) > 0 {
		cart.DeliveryCharges = s.delivery.Charge(cart.Subtotal, cart.DeliveryType)
	} else {
		cart.DeliveryCharges = 0
	}
	cart.TotalAmount = clampTotal(cart)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the user's active cart with per-line availability resolved
// against the live catalog, or nil if no active cart exists. Filtered lines
// stay in storage; only the returned view omits them.
func (s *cartService) GetCart(ctx context.Context, userID string, includeUnavailable bool) (*domain.Cart, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Internal(err, "cart.get", "failed to load cart")
	}

	items := make([]domain.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		product, err := s.repo.GetActiveProduct(ctx, it.ProductID)
		switch {
		case err == nil:
			it.IsAvailable = product.IsActive && product.InStock()
			it.MaxQuantity = min(product.Quantity, s.cfg.MaxQuantity)
		case errors.Is(err, pgx.ErrNoRows):
			it.IsAvailable = false
			it.MaxQuantity = 0
		default:
			return nil, domain.Internal(err, "cart.get", "failed to resolve product availability")
		}

		if it.IsAvailable || includeUnavailable {
			items = append(items, it)
		}
	}
	cart.Items = items

	return cart, nil
}

// GetCartSummary returns the totals of a non-empty active cart.
func (s *cartService) GetCartSummary(ctx context.Context, userID string) (*domain.CartSummary, error) {
	if err := validateID(userID, ErrInvalidUserID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartEmpty
		}
		return nil, domain.Internal(err, "cart.summary", "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	return &domain.CartSummary{
		CartID:            cart.ID,
		TotalItems:        cart.TotalItems,
		Subtotal:          cart.Subtotal,
		Discount:          cart.Discount,
		DeliveryCharges:   cart.DeliveryCharges,
		Taxes:             cart.Taxes,
		TotalAmount:       cart.TotalAmount,
		Savings:           cart.Savings,
		AppliedCoupons:    cart.AppliedCoupons,
		EstimatedDelivery: cart.EstimatedDelivery,
	}, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *cartService) loadOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetActiveCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "cart.load", "failed to load cart")
	}

	now := s.now()
	return &domain.Cart{
		ID:           uuid.NewString(),
		UserID:       userID,
		Status:       domain.CartStatusActive,
		DeliveryType: domain.DeliveryStandard,
		CreatedAt:    now,
	}, nil
}

// snapshotItem copies the product attributes that a line freezes at add time.
func snapshotItem(product *domain.Product, quantity int, notes string) domain.CartItem {
	return domain.CartItem{
		ProductID:      product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Brand:          product.Brand,
		SKU:            product.SKU,
		Unit:           product.Unit,
		Images:         product.Images,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Quantity:       quantity,
		Notes:          notes,
	}
}

// recomputeTotals rebuilds every aggregate from the line items. Coupon
// discount amounts are not carried across item mutations; the applied codes
// are, matching the original storefront behavior.
func (s *cartService) recomputeTotals(cart *domain.Cart) {
	var totalItems int
	var subtotal, discount int64

	for i := range cart.Items {
		it := &cart.Items[i]
		it.Subtotal = it.Price * int64(it.Quantity)
		if it.CompareAtPrice > it.Price {
			it.Discount = (it.CompareAtPrice - it.Price) * int64(it.Quantity)
		} else {
			it.Discount = 0
		}
		it.FinalPrice = it.Subtotal

		totalItems += it.Quantity
		subtotal += it.Subtotal
		discount += it.Discount
	}

	cart.TotalItems = totalItems
	cart.Subtotal = subtotal
	cart.Discount = discount
	cart.Savings = discount

	if len(cart.Items) == 0 {
		cart.DeliveryCharges = 0
		cart.Taxes = 0
	} else {
		cart.DeliveryCharges = s.delivery.Charge(subtotal, cart.DeliveryType)
		cart.Taxes = s.tax.Calculate(subtotal)
	}

	cart.TotalAmount = clampTotal(cart)
}

// clampTotal computes subtotal - discount + deliveryCharges + taxes, never
// below zero.
func clampTotal(cart *domain.Cart) int64 {
	total := cart.Subtotal - cart.Discount + cart.DeliveryCharges + cart.Taxes
	if total < 0 {
		return 0
	}
	return total
}

// persist refreshes the sliding TTL and saves the whole aggregate.
func (s *cartService) persist(ctx context.Context, cart *domain.Cart) error {
	now := s.now()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cfg.TTL)

	if _, err := s.repo.SaveCart(ctx, cart); err != nil {
		return domain.Internal(err, "cart.save", "failed to persist cart")
	}
	return nil
}

func validateID(id string, invalid error) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalid
	}
	return nil
}

func normalizeCouponCode(code string) string {
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
