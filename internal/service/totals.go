package service

import "github.com/shopspring/decimal"

// totalMatches reports whether total equals quantity*unit once both sides are
// rounded to cents.
func totalMatches(quantity int, unit, total float64) bool {
	expected := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(unit)).Round(2)
	return expected.Equal(decimal.NewFromFloat(total).Round(2))
}
