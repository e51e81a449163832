package coupon

import "errors"

// ErrUnknownCode indicates the code does not match any configured coupon.
var ErrUnknownCode = errors.New("coupon: unknown code")
