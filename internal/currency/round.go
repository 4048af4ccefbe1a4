package currency

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds amount to two decimal places, half away from zero.
// NaN and infinities are returned unchanged.
func Round(amount float64) float64 {
	return RoundTo(amount, 2)
}

// RoundTo rounds amount to the given number of decimal places, half away from zero.
func RoundTo(amount float64, places int32) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(places).InexactFloat64()
}
