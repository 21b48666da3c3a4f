// Package convert maps USD amounts to native token amounts and back.
package convert

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// USDToToken returns how many tokens usdAmount buys at price. A zero price
// means the price is unknown and yields 0. No rounding or bounds checks are
// applied.
func USDToToken(usdAmount, price float64) float64 {
	if price == 0 {
		return 0
	}
	return usdAmount / price
}

// TokenToUSD values amount tokens at price.
func TokenToUSD(amount, price float64) float64 {
	return amount * price
}

// ToBaseUnits floors amount to the chain's smallest unit (lamports, wei).
func ToBaseUnits(amount float64, decimals int32) *big.Int {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return new(big.Int)
	}
	return decimal.NewFromFloat(amount).Shift(decimals).Floor().BigInt()
}

// RoundUSD rounds to cents for display.
func RoundUSD(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// RoundToken rounds to six places for display.
func RoundToken(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(6)
}
