package delivery

import (
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// Charges below the free-delivery threshold, per delivery type. Express keeps
// a reduced charge even above its threshold.
const (
	standardCharge      = 40
	standardFreeAbove   = 500
	expressCharge       = 60
	expressReduced      = 20
	expressFreeAbove    = 1000
	unknownTypeCharge   = 40
)

// Lead times used when no scheduled slot is given. The scheduled lead time is
// a fallback only; a chosen slot always wins.
const (
	standardLeadTime  = 4 * time.Hour
	expressLeadTime   = 30 * time.Minute
	scheduledLeadTime = 24 * time.Hour
	pickupLeadTime    = 15 * time.Minute
)

// TableCalculator returns charges from a fixed table keyed by delivery type.
type TableCalculator struct {
	rates map[domain.DeliveryType]Rate
}

// NewTableCalculator creates a calculator with the standard grocery rate table.
func NewTableCalculator() Calculator {
	return &TableCalculator{
		rates: map[domain.DeliveryType]Rate{
			domain.DeliveryStandard: {
				BaseCharge: standardCharge,
				FreeAbove:  standardFreeAbove,
				LeadTime:   standardLeadTime,
			},
			domain.DeliveryExpress: {
				BaseCharge:    expressCharge,
				ReducedCharge: expressReduced,
				FreeAbove:     expressFreeAbove,
				LeadTime:      expressLeadTime,
			},
			domain.DeliveryScheduled: {
				BaseCharge: standardCharge,
				FreeAbove:  standardFreeAbove,
				LeadTime:   scheduledLeadTime,
			},
			domain.DeliveryPickup: {
				LeadTime: pickupLeadTime,
			},
		},
	}
}

// NewCustomTableCalculator creates a calculator with a caller-supplied table.
// Unknown delivery types fall back to the standard below-threshold charge.
func NewCustomTableCalculator(rates map[domain.DeliveryType]Rate) Calculator {
	return &TableCalculator{rates: rates}
}

// Charge returns the delivery charge for the subtotal and type.
func (c *TableCalculator) Charge(subtotal int64, deliveryType domain.DeliveryType) int64 {
	rate, ok := c.rates[deliveryType]
	if !ok {
		return unknownTypeCharge
	}
	if deliveryType == domain.DeliveryPickup {
		return 0
	}
	if rate.FreeAbove > 0 && subtotal >= rate.FreeAbove {
		return rate.ReducedCharge
	}
	return rate.BaseCharge
}

// Estimate returns the estimated delivery time.
func (c *TableCalculator) Estimate(deliveryType domain.DeliveryType, scheduled *time.Time, now time.Time) time.Time {
	if scheduled != nil {
		return *scheduled
	}
	rate, ok := c.rates[deliveryType]
	if !ok {
		return now.Add(standardLeadTime)
	}
	return now.Add(rate.LeadTime)
}
