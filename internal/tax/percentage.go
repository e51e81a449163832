package tax

import "math"

// PercentageCalculator calculates tax using a simple percentage rate.
type PercentageCalculator struct {
	rate float64 // e.g. 0.05 for 5%
}

// NewPercentageCalculator creates a new percentage-based tax calculator.
func NewPercentageCalculator(rate float64) Calculator {
	return &PercentageCalculator{rate: rate}
}

// Calculate computes tax on the subtotal using the configured rate,
// rounded to the nearest rupee.
func (c *PercentageCalculator) Calculate(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	return int64(math.Round(float64(subtotal) * c.rate))
}
