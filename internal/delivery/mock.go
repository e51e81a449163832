package delivery

import (
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// MockCalculator is a configurable Calculator for tests.
type MockCalculator struct {
	ChargeFunc   func(subtotal int64, deliveryType domain.DeliveryType) int64
	EstimateFunc func(deliveryType domain.DeliveryType, scheduled *time.Time, now time.Time) time.Time
}

// Charge delegates to ChargeFunc, defaulting to free delivery.
func (m *MockCalculator) Charge(subtotal int64, deliveryType domain.DeliveryType) int64 {
	if m.ChargeFunc != nil {
		return m.ChargeFunc(subtotal, deliveryType)
	}
	return 0
}

// Estimate delegates to EstimateFunc, defaulting to now.
func (m *MockCalculator) Estimate(deliveryType domain.DeliveryType, scheduled *time.Time, now time.Time) time.Time {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(deliveryType, scheduled, now)
	}
	if scheduled != nil {
		return *scheduled
	}
	return now
}
