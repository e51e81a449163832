package tax

// Calculator defines the interface for tax calculation.
// Implementations: PercentageCalculator, NoTaxCalculator.
//
// Calculators are pure: the same subtotal always yields the same tax, and no
// I/O happens behind this interface.
type Calculator interface {
	// Calculate computes tax on the cart subtotal. Amounts are whole rupees;
	// the result is rounded to the nearest rupee.
	Calculate(subtotal int64) int64
}
