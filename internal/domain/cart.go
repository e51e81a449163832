package domain

import (
	"context"
	"time"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Item not found in cart"}
	ErrCartEmpty        = &Error{Code: EEMPTYCART, Message: "Cart is empty"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be between 1 and 50"}
)

// CartStatus represents the lifecycle state of a cart.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCheckout  CartStatus = "checkout"
	CartStatusCompleted CartStatus = "completed"
	CartStatusAbandoned CartStatus = "abandoned"
)

// DeliveryType represents how a cart will be fulfilled.
type DeliveryType string

const (
	DeliveryStandard  DeliveryType = "standard"
	DeliveryExpress   DeliveryType = "express"
	DeliveryScheduled DeliveryType = "scheduled"
	DeliveryPickup    DeliveryType = "pickup"
)

// Valid reports whether t is a known delivery type.
func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryStandard, DeliveryExpress, DeliveryScheduled, DeliveryPickup:
		return true
	}
	return false
}

// CartItem is one line in a cart, keyed by product ID. The product attributes
// are a denormalized snapshot taken when the line was added; only quantity math
// changes on later updates, never the stored price.
type CartItem struct {
	ProductID      string   `json:"productId"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Brand          string   `json:"brand,omitempty"`
	SKU            string   `json:"sku,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	Images         []string `json:"images,omitempty"`
	Price          int64    `json:"price"`
	CompareAtPrice int64    `json:"compareAtPrice,omitempty"`
	Quantity       int      `json:"quantity"`
	Subtotal       int64    `json:"subtotal"`
	Discount       int64    `json:"discount"`
	FinalPrice     int64    `json:"finalPrice"`
	Notes          string   `json:"notes,omitempty"`

	// Derived from live catalog state on read, not persisted as source of truth.
	IsAvailable bool `json:"isAvailable"`
	MaxQuantity int  `json:"maxQuantity"`
}

// Cart is the single active aggregate per user. All monetary amounts are whole
// rupees; the server recomputes every aggregate field on each mutation.
type Cart struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	Items           []CartItem   `json:"items"`
	TotalItems      int          `json:"totalItems"`
	Subtotal        int64        `json:"subtotal"`
	Discount        int64        `json:"discount"`
	DeliveryCharges int64        `json:"deliveryCharges"`
	Taxes           int64        `json:"taxes"`
	TotalAmount     int64        `json:"totalAmount"`
	Savings         int64        `json:"savings"`
	Status          CartStatus   `json:"status"`
	DeliveryType    DeliveryType `json:"deliveryType"`

	// DeliveryAddressID references a saved address; required unless the
	// delivery type is pickup (enforced at the transport layer).
	DeliveryAddressID string     `json:"deliveryAddressId,omitempty"`
	ScheduledDelivery *time.Time `json:"scheduledDelivery,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`

	// AppliedCoupons holds uppercase codes, each appliable at most once.
	AppliedCoupons []string `json:"appliedCoupons,omitempty"`

	DeviceInfo string `json:"deviceInfo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// ExpiresAt is a sliding TTL refreshed on every mutation. A cart past
	// this instant is eligible for the abandonment sweep.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Item returns the line for productID, or nil if no such line exists.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// HasCoupon reports whether the (already uppercased) code is applied.
func (c *Cart) HasCoupon(code string) bool {
	for _, applied := range c.AppliedCoupons {
		if applied == code {
			return true
		}
	}
	return false
}

// CartSummary carries the cart's totals without line items.
type CartSummary struct {
	CartID            string     `json:"cartId"`
	TotalItems        int        `json:"totalItems"`
	Subtotal          int64      `json:"subtotal"`
	Discount          int64      `json:"discount"`
	DeliveryCharges   int64      `json:"deliveryCharges"`
	Taxes             int64      `json:"taxes"`
	TotalAmount       int64      `json:"totalAmount"`
	Savings           int64      `json:"savings"`
	AppliedCoupons    []string   `json:"appliedCoupons,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// AddToCartParams carries optional metadata for AddToCart.
type AddToCartParams struct {
	DeviceInfo string
	Notes      string
}

// DeliveryInfoParams carries the fields for SetDeliveryInfo.
type DeliveryInfoParams struct {
	Type              DeliveryType
	DeliveryAddressID string
	ScheduledDelivery *time.Time
	Latitude          *float64
	Longitude         *float64
}

// CartService provides business logic for shopping cart operations.
// Every method is safe for concurrent use; mutations for the same user are
// serialized internally.
type CartService interface {
	// AddToCart adds quantity of a product to the user's active cart,
	// creating the cart if none exists. Adding to an existing line combines
	// quantities; the line keeps its original price snapshot.
	AddToCart(ctx context.Context, userID, productID string, quantity int, params AddToCartParams) (*Cart, error)

	// UpdateCartItem overwrites a line's quantity. Quantity 0 removes the
	// line entirely.
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error)

	// RemoveFromCart removes a line from the cart.
	RemoveFromCart(ctx context.Context, userID, productID string) (*Cart, error)

	// ClearCart resets items, totals, and applied coupons in a single update.
	ClearCart(ctx context.Context, userID string) error

	// ApplyCoupon validates a coupon code and adds its discount to the cart.
	// Coupons stack; each code applies at most once.
	ApplyCoupon(ctx context.Context, userID, code string) (*Cart, error)

	// SetDeliveryInfo updates delivery type, address, and schedule, and
	// recomputes delivery charges and the estimated delivery time.
	SetDeliveryInfo(ctx context.Context, userID string, params DeliveryInfoParams) (*Cart, error)

	// GetCart returns the user's active cart with per-line availability
	// resolved against the live catalog, or nil if no active cart exists.
	// Unless includeUnavailable is set, unavailable lines are filtered from
	// the returned view (they are not deleted from storage).
	GetCart(ctx context.Context, userID string, includeUnavailable bool) (*Cart, error)

	// GetCartSummary returns the totals of a non-empty active cart.
	GetCartSummary(ctx context.Context, userID string) (*CartSummary, error)
}
