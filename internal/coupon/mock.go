package coupon

import "context"

// MockPolicy is a configurable Policy for tests.
type MockPolicy struct {
	LookupFunc func(ctx context.Context, code string) (*Coupon, error)
}

// Lookup delegates to LookupFunc, defaulting to ErrUnknownCode.
func (m *MockPolicy) Lookup(ctx context.Context, code string) (*Coupon, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, code)
	}
	return nil, ErrUnknownCode
}
