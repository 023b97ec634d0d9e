// Package price converts integer tick bounds into human-readable prices.
package price

import (
	"math"

	"github.com/shopspring/decimal"
)

// Range converts tick bounds plus token decimal counts into prices quoted as
// token1 per token0:
//
//	scale = 10^(dec0-dec1)
//	lower = 1.0001^tickLower * scale
//	upper = 1.0001^tickUpper * scale
//	mid   = sqrt(lower * upper)
//
// Float exponentiation loses precision at extreme tick magnitudes; that is an
// accepted boundary for typical liquidity ranges.
func Range(tickLower, tickUpper int32, dec0, dec1 uint8) (lower, upper, mid float64) {
	scale := math.Pow(10, float64(int(dec0)-int(dec1)))
	lower = math.Pow(1.0001, float64(tickLower)) * scale
	upper = math.Pow(1.0001, float64(tickUpper)) * scale
	mid = math.Sqrt(lower * upper)
	return lower, upper, mid
}

// Format renders a price to 2 decimal places for display.
func Format(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2)
}
