package delivery

import (
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// Calculator computes delivery charges and estimated delivery times from the
// cart subtotal and delivery type. Implementations are pure: no I/O, same
// inputs yield the same charge.
type Calculator interface {
	// Charge returns the delivery charge for the given subtotal and type.
	Charge(subtotal int64, deliveryType domain.DeliveryType) int64

	// Estimate returns the estimated delivery time. A scheduled time, when
	// given, is used verbatim; otherwise the type's lead time is added to now.
	Estimate(deliveryType domain.DeliveryType, scheduled *time.Time, now time.Time) time.Time
}

// Rate defines charges and lead time for one delivery type. When the subtotal
// reaches FreeAbove, ReducedCharge applies instead of BaseCharge.
type Rate struct {
	BaseCharge    int64
	ReducedCharge int64
	FreeAbove     int64
	LeadTime      time.Duration
}
