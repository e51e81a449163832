package coupon

import (
	"context"
	"math"
)

// DiscountType distinguishes percentage coupons from flat-amount coupons.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code with a minimum order value. Codes are uppercase.
type Coupon struct {
	Code     string
	Type     DiscountType
	Value    int64 // percent for percentage coupons, rupees for fixed
	MinOrder int64
}

// DiscountFor computes the discount this coupon yields on a subtotal.
// Percentage discounts round to the nearest rupee.
func (c *Coupon) DiscountFor(subtotal int64) int64 {
	switch c.Type {
	case DiscountPercentage:
		return int64(math.Round(float64(subtotal) * float64(c.Value) / 100))
	case DiscountFixed:
		return c.Value
	}
	return 0
}

// Policy resolves coupon codes. The cart engine treats this as a port so the
// static table can be swapped for a store-backed implementation without
// touching engine logic.
type Policy interface {
	// Lookup returns the coupon for an uppercase code, or ErrUnknownCode.
	Lookup(ctx context.Context, code string) (*Coupon, error)
}
