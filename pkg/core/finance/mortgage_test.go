package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// 148000 at 7% over 30 years. Standard annuity:
// r = 0.07/12, P*r*(1+r)^360 / ((1+r)^360 - 1) = 984.65
func TestMonthlyPayment(t *testing.T) {
	p, err := MonthlyPayment(dec("148000"), dec("7"), 30)
	require.NoError(t, err)
	require.Equal(t, "984.65", p.StringFixed(2))
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	// 0% note is a straight division: 120000 / 360.
	p, err := MonthlyPayment(dec("120000"), dec("0"), 30)
	require.NoError(t, err)
	require.Equal(t, "333.33", p.StringFixed(2))
}

func TestMonthlyPaymentNoPrincipal(t *testing.T) {
	p, err := MonthlyPayment(decimal.Zero, dec("7"), 30)
	require.NoError(t, err)
	require.True(t, p.IsZero())
}

func TestMonthlyPaymentBadInputs(t *testing.T) {
	_, err := MonthlyPayment(dec("100000"), dec("7"), 0)
	require.ErrorIs(t, err, ErrInvalidTerm)

	_, err = MonthlyPayment(dec("100000"), dec("-1"), 30)
	require.ErrorIs(t, err, ErrNegativeRate)
}

func TestMonthlyScheduleSumsToPrincipal(t *testing.T) {
	schedule, err := MonthlySchedule(dec("148000"), dec("7"), 30)
	require.NoError(t, err)
	require.Len(t, schedule, 360)

	totalPrincipal := decimal.Zero
	totalInterest := decimal.Zero
	for _, e := range schedule {
		totalPrincipal = totalPrincipal.Add(e.Principal)
		totalInterest = totalInterest.Add(e.Interest)
	}
	// The final payment absorbs the rounding drift, so principal sums
	// exactly to the loan.
	require.Equal(t, "148000.00", totalPrincipal.StringFixed(2))
	require.Equal(t, "206471.10", totalInterest.StringFixed(2))
	require.Equal(t, "0.00", schedule[359].Balance.StringFixed(2))

	// Spot-check the balance on the anniversaries the equity figures
	// hang off.
	require.Equal(t, "139314.57", schedule[59].Balance.StringFixed(2))
	require.Equal(t, "127001.92", schedule[119].Balance.StringFixed(2))
}

func TestMonthlyScheduleZeroRate(t *testing.T) {
	schedule, err := MonthlySchedule(dec("120000"), dec("0"), 30)
	require.NoError(t, err)
	require.Len(t, schedule, 360)

	totalPrincipal := decimal.Zero
	for _, e := range schedule {
		require.True(t, e.Interest.IsZero())
		totalPrincipal = totalPrincipal.Add(e.Principal)
	}
	require.Equal(t, "120000.00", totalPrincipal.StringFixed(2))
}

func TestAnnualSchedule(t *testing.T) {
	years, err := AnnualSchedule(dec("148000"), dec("7"), 30, 10)
	require.NoError(t, err)
	require.Len(t, years, 10)

	// Early years are interest-heavy; the split shifts slowly.
	require.Equal(t, "1503.44", years[0].PrincipalPaid.StringFixed(2))
	require.Equal(t, "10312.36", years[0].InterestPaid.StringFixed(2))
	require.Equal(t, "146496.56", years[0].EndingBalance.StringFixed(2))

	require.Equal(t, "1612.13", years[1].PrincipalPaid.StringFixed(2))
	require.Equal(t, "10203.67", years[1].InterestPaid.StringFixed(2))
	require.Equal(t, "144884.43", years[1].EndingBalance.StringFixed(2))

	require.Equal(t, "1987.60", years[4].PrincipalPaid.StringFixed(2))
	require.Equal(t, "9828.20", years[4].InterestPaid.StringFixed(2))
	require.Equal(t, "139314.57", years[4].EndingBalance.StringFixed(2))

	require.Equal(t, "2817.70", years[9].PrincipalPaid.StringFixed(2))
	require.Equal(t, "8998.10", years[9].InterestPaid.StringFixed(2))
	require.Equal(t, "127001.92", years[9].EndingBalance.StringFixed(2))
}

func TestAnnualScheduleAllCash(t *testing.T) {
	years, err := AnnualSchedule(decimal.Zero, dec("7"), 30, 5)
	require.NoError(t, err)
	require.Len(t, years, 5)
	for _, y := range years {
		require.True(t, y.PrincipalPaid.IsZero())
		require.True(t, y.InterestPaid.IsZero())
		require.True(t, y.EndingBalance.IsZero())
	}
}

func TestAnnualSchedulePastPayoff(t *testing.T) {
	// 5-year note projected over 8 years: years 6-8 are all zeros.
	years, err := AnnualSchedule(dec("60000"), dec("5"), 5, 8)
	require.NoError(t, err)
	require.Len(t, years, 8)
	require.Equal(t, "0.00", years[4].EndingBalance.StringFixed(2))
	for _, y := range years[5:] {
		require.True(t, y.PrincipalPaid.IsZero())
		require.True(t, y.InterestPaid.IsZero())
		require.True(t, y.EndingBalance.IsZero())
	}
}

func TestRemainingBalance(t *testing.T) {
	b, err := RemainingBalance(dec("148000"), dec("7"), 30, 5)
	require.NoError(t, err)
	require.Equal(t, "139314.57", b.StringFixed(2))

	b, err = RemainingBalance(dec("148000"), dec("7"), 30, 10)
	require.NoError(t, err)
	require.Equal(t, "127001.92", b.StringFixed(2))

	// Past payoff the balance is zero.
	b, err = RemainingBalance(dec("148000"), dec("7"), 30, 30)
	require.NoError(t, err)
	require.True(t, b.IsZero())
}
