package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// The reference deal: 185000 purchase, 148000 loan at 7% over 30 years
// (984.65/mo), 1710 effective income and 670 operating expenses per
// month, 42550 invested. Growth: 3% appreciation, 2% rent, 2% expense,
// 6% selling cost.
func referenceInput(years int) Input {
	return Input{
		ValueBasis:        dec("185000"),
		LoanAmount:        dec("148000"),
		AnnualRatePct:     dec("7"),
		LoanTermYears:     30,
		MonthlyPayment:    dec("984.65"),
		MonthlyIncome:     dec("1710"),
		MonthlyExpenses:   dec("670"),
		TotalCashInvested: dec("42550"),
		Years:             years,
		AppreciationPct:   dec("3"),
		RentGrowthPct:     dec("2"),
		ExpenseGrowthPct:  dec("2"),
		SellingCostPct:    dec("6"),
	}
}

func TestComputeYearOne(t *testing.T) {
	res, err := Compute(referenceInput(10))
	require.NoError(t, err)
	require.Len(t, res.Yearly, 10)

	y1 := res.Yearly[0]
	// Year one carries the base figures: income 1710*12, expenses
	// 670*12, debt service 984.65*12. Net = 20520 - 8040 - 11815.80.
	require.Equal(t, "190550.00", y1.PropertyValue.StringFixed(2))
	require.Equal(t, "146496.56", y1.LoanBalance.StringFixed(2))
	require.Equal(t, "44053.44", y1.Equity.StringFixed(2))
	require.Equal(t, "20520.00", y1.AnnualIncome.StringFixed(2))
	require.Equal(t, "8040.00", y1.AnnualExpenses.StringFixed(2))
	require.Equal(t, "11815.80", y1.AnnualDebtService.StringFixed(2))
	require.Equal(t, "664.20", y1.NetCashFlow.StringFixed(2))
	require.Equal(t, "664.20", y1.CumulativeCashFlow.StringFixed(2))
}

func TestComputeLaterYears(t *testing.T) {
	res, err := Compute(referenceInput(10))
	require.NoError(t, err)

	y2 := res.Yearly[1]
	require.Equal(t, "196266.50", y2.PropertyValue.StringFixed(2))
	require.Equal(t, "144884.43", y2.LoanBalance.StringFixed(2))
	require.Equal(t, "51382.07", y2.Equity.StringFixed(2))
	require.Equal(t, "20930.40", y2.AnnualIncome.StringFixed(2))
	require.Equal(t, "8200.80", y2.AnnualExpenses.StringFixed(2))
	require.Equal(t, "913.80", y2.NetCashFlow.StringFixed(2))
	require.Equal(t, "1578.00", y2.CumulativeCashFlow.StringFixed(2))

	y5 := res.Yearly[4]
	require.Equal(t, "214465.70", y5.PropertyValue.StringFixed(2))
	require.Equal(t, "139314.57", y5.LoanBalance.StringFixed(2))
	require.Equal(t, "75151.13", y5.Equity.StringFixed(2))
	require.Equal(t, "22211.51", y5.AnnualIncome.StringFixed(2))
	require.Equal(t, "8702.75", y5.AnnualExpenses.StringFixed(2))
	require.Equal(t, "1692.96", y5.NetCashFlow.StringFixed(2))
	require.Equal(t, "5867.43", y5.CumulativeCashFlow.StringFixed(2))

	y10 := res.Yearly[9]
	require.Equal(t, "248624.53", y10.PropertyValue.StringFixed(2))
	require.Equal(t, "127001.92", y10.LoanBalance.StringFixed(2))
	require.Equal(t, "121622.61", y10.Equity.StringFixed(2))
	require.Equal(t, "24523.30", y10.AnnualIncome.StringFixed(2))
	require.Equal(t, "9608.54", y10.AnnualExpenses.StringFixed(2))
	require.Equal(t, "3098.96", y10.NetCashFlow.StringFixed(2))
	require.Equal(t, "18494.53", y10.CumulativeCashFlow.StringFixed(2))
}

func TestComputeHoldIRRs(t *testing.T) {
	res, err := Compute(referenceInput(10))
	require.NoError(t, err)

	irr5, ok := res.IRR5.Value()
	require.True(t, ok)
	require.Equal(t, "0.1021", irr5.StringFixed(4))

	irr10, ok := res.IRR10.Value()
	require.True(t, ok)
	require.Equal(t, "0.1225", irr10.StringFixed(4))
}

func TestComputeShortHorizon(t *testing.T) {
	// A 3-year projection cannot price a 5-year exit.
	res, err := Compute(referenceInput(3))
	require.NoError(t, err)
	require.Len(t, res.Yearly, 3)
	require.False(t, res.IRR5.IsDefined())
	require.False(t, res.IRR10.IsDefined())
}

func TestComputeAllCash(t *testing.T) {
	in := referenceInput(10)
	in.LoanAmount = decimal.Zero
	in.MonthlyPayment = decimal.Zero
	in.TotalCashInvested = dec("190550") // price plus closing

	res, err := Compute(in)
	require.NoError(t, err)
	for _, y := range res.Yearly {
		require.True(t, y.LoanBalance.IsZero())
		require.True(t, y.PrincipalPaid.IsZero())
		require.True(t, y.InterestPaid.IsZero())
		require.True(t, y.AnnualDebtService.IsZero())
		// With no loan, equity is the whole property value.
		require.True(t, y.Equity.Equal(y.PropertyValue))
	}
	require.True(t, res.IRR5.IsDefined())
	require.True(t, res.IRR10.IsDefined())
}

func TestComputeNoCashInvested(t *testing.T) {
	in := referenceInput(10)
	in.TotalCashInvested = decimal.Zero

	res, err := Compute(in)
	require.NoError(t, err)
	// IRR has no meaning when nothing went in.
	require.False(t, res.IRR5.IsDefined())
	require.False(t, res.IRR10.IsDefined())
}

func TestComputeFlatGrowth(t *testing.T) {
	in := referenceInput(10)
	in.AppreciationPct = decimal.Zero
	in.RentGrowthPct = decimal.Zero
	in.ExpenseGrowthPct = decimal.Zero

	res, err := Compute(in)
	require.NoError(t, err)
	for _, y := range res.Yearly {
		require.Equal(t, "185000.00", y.PropertyValue.StringFixed(2))
		require.Equal(t, "20520.00", y.AnnualIncome.StringFixed(2))
		require.Equal(t, "8040.00", y.AnnualExpenses.StringFixed(2))
		require.Equal(t, "664.20", y.NetCashFlow.StringFixed(2))
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	a, err := Compute(referenceInput(10))
	require.NoError(t, err)
	b, err := Compute(referenceInput(10))
	require.NoError(t, err)
	require.Equal(t, a, b)
}
