package tax

// MockCalculator is a configurable Calculator for tests.
type MockCalculator struct {
	CalculateFunc func(subtotal int64) int64
}

// Calculate delegates to CalculateFunc, defaulting to zero tax.
func (m *MockCalculator) Calculate(subtotal int64) int64 {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(subtotal)
	}
	return 0
}
