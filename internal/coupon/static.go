package coupon

import (
	"context"
	"strings"
)

// StaticPolicy resolves codes from a fixed in-memory table.
type StaticPolicy struct {
	coupons map[string]Coupon
}

// NewStaticPolicy creates a policy from the given coupons, keyed by
// uppercased code.
func NewStaticPolicy(coupons []Coupon) Policy {
	table := make(map[string]Coupon, len(coupons))
	for _, c := range coupons {
		c.Code = strings.ToUpper(c.Code)
		table[c.Code] = c
	}
	return &StaticPolicy{coupons: table}
}

// NewDefaultPolicy returns the launch coupon table.
func NewDefaultPolicy() Policy {
	return NewStaticPolicy([]Coupon{
		{Code: "WELCOME10", Type: DiscountPercentage, Value: 10, MinOrder: 300},
		{Code: "SAVE50", Type: DiscountFixed, Value: 50, MinOrder: 500},
		{Code: "FIRSTORDER", Type: DiscountPercentage, Value: 15, MinOrder: 200},
		{Code: "FREEDEL", Type: DiscountFixed, Value: 40, MinOrder: 400},
	})
}

// Lookup returns the coupon for the code, or ErrUnknownCode.
func (p *StaticPolicy) Lookup(ctx context.Context, code string) (*Coupon, error) {
	c, ok := p.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, ErrUnknownCode
	}
	return &c, nil
}
