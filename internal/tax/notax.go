package tax

// NoTaxCalculator returns zero tax for all calculations.
// Used in tests and for tax-exempt storefronts.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// Calculate always returns zero tax.
func (c *NoTaxCalculator) Calculate(subtotal int64) int64 {
	return 0
}
