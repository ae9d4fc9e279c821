package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrIRRNotConvergent means the cash-flow vector has no internal rate
	// of return in the search bracket (typically: all flows share a sign).
	// This is a legitimate "IRR undefined" state, not a computation bug.
	ErrIRRNotConvergent = errors.New("irr does not converge: no sign change in bracket")
	// ErrTooFewCashFlows rejects vectors shorter than two entries.
	ErrTooFewCashFlows = errors.New("irr requires at least two cash flows")
)

const irrMaxIterations = 100

var (
	irrSeed      = decimal.RequireFromString("0.1")
	irrTolerance = decimal.New(1, -7) // NPV residual
	irrBracketLo = decimal.RequireFromString("-0.99")
	irrBracketHi = decimal.RequireFromString("10.0")
)

// IRR solves for the rate r with sum(CF_t / (1+r)^t) = 0 over the given
// ordered cash flows (index 0 is the initial outlay, normally negative).
// Newton-Raphson runs first, seeded at 10%; if it fails to converge the
// solver falls back to bisection over [-0.99, 10.0]. The returned rate is
// quantized to 4 decimal places.
func IRR(cashFlows []decimal.Decimal) (decimal.Decimal, error) {
	if len(cashFlows) < 2 {
		return decimal.Zero, ErrTooFewCashFlows
	}

	r := irrSeed
	for i := 0; i < irrMaxIterations; i++ {
		v := npv(r, cashFlows)
		if v.Abs().LessThan(irrTolerance) {
			return RoundRate(r), nil
		}
		d := npvDerivative(r, cashFlows)
		if d.IsZero() {
			break
		}
		r = r.Sub(v.Div(d))
		if r.LessThanOrEqual(irrBracketLo) {
			r = irrBracketLo
		}
		if r.GreaterThan(irrBracketHi) {
			// Newton left the documented bracket; bisection decides.
			break
		}
	}

	return bisectIRR(cashFlows)
}

// npv evaluates sum(CF_t / (1+r)^t).
func npv(r decimal.Decimal, cashFlows []decimal.Decimal) decimal.Decimal {
	base := one.Add(r)
	pow := one
	total := decimal.Zero
	for t, cf := range cashFlows {
		if t > 0 {
			pow = pow.Mul(base).Round(powScale)
		}
		total = total.Add(cf.Div(pow))
	}
	return total
}

// npvDerivative evaluates d(NPV)/dr = sum(-t * CF_t / (1+r)^(t+1)).
func npvDerivative(r decimal.Decimal, cashFlows []decimal.Decimal) decimal.Decimal {
	base := one.Add(r)
	pow := one
	total := decimal.Zero
	for t, cf := range cashFlows {
		pow = pow.Mul(base).Round(powScale)
		if t == 0 {
			continue
		}
		total = total.Sub(decimal.NewFromInt(int64(t)).Mul(cf).Div(pow))
	}
	return total
}

func bisectIRR(cashFlows []decimal.Decimal) (decimal.Decimal, error) {
	lo, hi := irrBracketLo, irrBracketHi
	flo := npv(lo, cashFlows)
	fhi := npv(hi, cashFlows)

	if flo.IsZero() {
		return RoundRate(lo), nil
	}
	if fhi.IsZero() {
		return RoundRate(hi), nil
	}
	if flo.Sign() == fhi.Sign() {
		return decimal.Zero, ErrIRRNotConvergent
	}

	two := decimal.NewFromInt(2)
	for i := 0; i < 200; i++ {
		mid := lo.Add(hi).Div(two)
		fm := npv(mid, cashFlows)
		if fm.Abs().LessThan(irrTolerance) {
			return RoundRate(mid), nil
		}
		if flo.Sign() != fm.Sign() {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return RoundRate(lo.Add(hi).Div(two)), nil
}
