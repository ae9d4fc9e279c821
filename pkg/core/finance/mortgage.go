package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTerm rejects non-positive or absurd loan terms.
	ErrInvalidTerm = errors.New("loan term must be at least 1 year")
	// ErrNegativeRate rejects negative interest rates.
	ErrNegativeRate = errors.New("interest rate must be non-negative")
)

// PaymentEntry is one month of an amortization schedule.
type PaymentEntry struct {
	Number    int             `json:"payment_number"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"remaining_balance"`
}

// YearEntry aggregates twelve monthly payments into one calendar year.
type YearEntry struct {
	Year          int             `json:"year"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// MonthlyPayment computes the fixed monthly payment (principal + interest)
// for a fully amortizing loan:
//
//	M = P * r(1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate (annualRatePct/100/12) and n = termYears*12.
// A non-positive principal means an all-cash purchase and returns 0.
// A zero rate takes the P/n branch; the general formula would divide by zero.
// The result is rounded to cents once, here, never per intermediate step.
func MonthlyPayment(principal, annualRatePct decimal.Decimal, termYears int) (decimal.Decimal, error) {
	if termYears < 1 {
		return decimal.Zero, ErrInvalidTerm
	}
	if annualRatePct.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}
	if principal.Sign() <= 0 {
		return RoundMoney(decimal.Zero), nil
	}

	n := termYears * 12
	if annualRatePct.IsZero() {
		return RoundMoney(principal.Div(decimal.NewFromInt(int64(n)))), nil
	}

	r := annualRatePct.Div(decimal.NewFromInt(1200))
	pow := intPow(one.Add(r), n)
	payment := principal.Mul(r).Mul(pow).Div(pow.Sub(one))
	return RoundMoney(payment), nil
}

// MonthlySchedule produces the full payment-by-payment amortization
// schedule. Interest accrues on the running balance; the final amortizing
// payment absorbs the rounding remainder so the balance lands exactly at
// zero and the principal column sums to the original loan amount.
func MonthlySchedule(principal, annualRatePct decimal.Decimal, termYears int) ([]PaymentEntry, error) {
	if termYears < 1 {
		return nil, ErrInvalidTerm
	}
	if annualRatePct.IsNegative() {
		return nil, ErrNegativeRate
	}
	if principal.Sign() <= 0 {
		return nil, nil
	}

	n := termYears * 12
	payment, err := MonthlyPayment(principal, annualRatePct, termYears)
	if err != nil {
		return nil, err
	}

	var r decimal.Decimal
	if !annualRatePct.IsZero() {
		r = annualRatePct.Div(decimal.NewFromInt(1200))
	}

	schedule := make([]PaymentEntry, 0, n)
	remaining := principal
	for i := 1; i <= n; i++ {
		var interest, paid decimal.Decimal
		if annualRatePct.IsZero() {
			interest = RoundMoney(decimal.Zero)
			paid = RoundMoney(principal.Div(decimal.NewFromInt(int64(n))))
		} else {
			interest = RoundMoney(remaining.Mul(r))
			paid = payment.Sub(interest)
		}
		// Last payment (or a truncated one) clears whatever is left.
		if i == n || paid.GreaterThan(remaining) {
			paid = remaining
		}
		remaining = remaining.Sub(paid)
		schedule = append(schedule, PaymentEntry{
			Number:    i,
			Payment:   payment,
			Principal: paid,
			Interest:  interest,
			Balance:   RoundMoney(remaining),
		})
	}
	return schedule, nil
}

// AnnualSchedule buckets the monthly schedule into one entry per year, up
// to yearsToProject. Years past loan payoff carry all-zero values; an
// all-cash purchase (principal <= 0) yields zero rows for every year.
func AnnualSchedule(principal, annualRatePct decimal.Decimal, termYears, yearsToProject int) ([]YearEntry, error) {
	zero := RoundMoney(decimal.Zero)

	annual := make([]YearEntry, 0, yearsToProject)
	if principal.Sign() <= 0 {
		for y := 1; y <= yearsToProject; y++ {
			annual = append(annual, YearEntry{Year: y, PrincipalPaid: zero, InterestPaid: zero, EndingBalance: zero})
		}
		return annual, nil
	}

	schedule, err := MonthlySchedule(principal, annualRatePct, termYears)
	if err != nil {
		return nil, err
	}

	for y := 1; y <= yearsToProject; y++ {
		start := (y - 1) * 12
		end := y * 12
		if start >= len(schedule) {
			annual = append(annual, YearEntry{Year: y, PrincipalPaid: zero, InterestPaid: zero, EndingBalance: zero})
			continue
		}
		if end > len(schedule) {
			end = len(schedule)
		}
		principalPaid := decimal.Zero
		interestPaid := decimal.Zero
		for _, m := range schedule[start:end] {
			principalPaid = principalPaid.Add(m.Principal)
			interestPaid = interestPaid.Add(m.Interest)
		}
		annual = append(annual, YearEntry{
			Year:          y,
			PrincipalPaid: RoundMoney(principalPaid),
			InterestPaid:  RoundMoney(interestPaid),
			EndingBalance: schedule[end-1].Balance,
		})
	}
	return annual, nil
}

// RemainingBalance returns the principal still owed after yearsElapsed
// years of payments.
func RemainingBalance(principal, annualRatePct decimal.Decimal, termYears, yearsElapsed int) (decimal.Decimal, error) {
	if termYears < 1 {
		return decimal.Zero, ErrInvalidTerm
	}
	if principal.Sign() <= 0 {
		return RoundMoney(decimal.Zero), nil
	}
	if yearsElapsed <= 0 {
		return RoundMoney(principal), nil
	}
	if yearsElapsed >= termYears {
		return RoundMoney(decimal.Zero), nil
	}

	schedule, err := MonthlySchedule(principal, annualRatePct, termYears)
	if err != nil {
		return decimal.Zero, err
	}
	months := yearsElapsed * 12
	if months > len(schedule) {
		return RoundMoney(decimal.Zero), nil
	}
	return schedule[months-1].Balance, nil
}
