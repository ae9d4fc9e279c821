// Package finance provides the low-level financial primitives: fixed-rate
// mortgage payments, amortization schedules, and the IRR root-finder.
// All arithmetic is exact decimal; binary floating point never touches a
// monetary value. Rounding to currency precision (2 places) or rate
// precision (4 places) happens once, at the values that leave this package.
package finance

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// powScale is the number of decimal places kept between compounding steps.
// Exact multiplication over 360 periods would let the digit count grow
// unbounded; 20 places keeps the accumulated error far below a cent.
const powScale = 20

// RoundMoney rounds to cents, half up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundRate quantizes a rate to 4 decimal places, half up.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// intPow raises base to the n-th power by repeated multiplication,
// rounding to powScale places after each step.
func intPow(base decimal.Decimal, n int) decimal.Decimal {
	acc := one
	for i := 0; i < n; i++ {
		acc = acc.Mul(base).Round(powScale)
	}
	return acc
}

// GrowthFactor returns (1 + ratePct/100)^periods, the compound growth
// multiplier used for appreciation, rent growth, and expense growth.
func GrowthFactor(ratePct decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return one
	}
	return intPow(one.Add(ratePct.Div(hundred)), periods)
}
