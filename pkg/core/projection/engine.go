package projection

import (
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/finance"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	oneD    = decimal.NewFromInt(1)
)

// Compute projects the deal over in.Years:
//
//   - property value compounds at the appreciation rate
//   - loan balance follows the amortization schedule (zero for all-cash)
//   - equity = property value - loan balance
//   - income and expenses grow from their year-one bases
//   - debt service is fixed for the life of the loan
//
// Year one uses the base figures unchanged, so its net cash flow ties
// exactly to the point-in-time annual cash flow.
func Compute(in Input) (Result, error) {
	amort, err := finance.AnnualSchedule(in.LoanAmount, in.AnnualRatePct, in.LoanTermYears, in.Years)
	if err != nil {
		return Result{}, err
	}

	yearly := make([]Year, 0, in.Years)
	cashFlows := make([]decimal.Decimal, 0, in.Years)
	balances := make([]decimal.Decimal, 0, in.Years)
	values := make([]decimal.Decimal, 0, in.Years)

	annualDebtService := finance.RoundMoney(in.MonthlyPayment.Mul(twelve))
	cumulative := finance.RoundMoney(decimal.Zero)

	for y := 1; y <= in.Years; y++ {
		value := finance.RoundMoney(in.ValueBasis.Mul(finance.GrowthFactor(in.AppreciationPct, y)))
		row := amort[y-1]
		equity := finance.RoundMoney(value.Sub(row.EndingBalance))

		income := finance.RoundMoney(in.MonthlyIncome.Mul(twelve).Mul(finance.GrowthFactor(in.RentGrowthPct, y-1)))
		expenses := finance.RoundMoney(in.MonthlyExpenses.Mul(twelve).Mul(finance.GrowthFactor(in.ExpenseGrowthPct, y-1)))
		netCashFlow := finance.RoundMoney(income.Sub(expenses).Sub(annualDebtService))
		cumulative = finance.RoundMoney(cumulative.Add(netCashFlow))

		yearly = append(yearly, Year{
			Year:               y,
			PropertyValue:      value,
			LoanBalance:        row.EndingBalance,
			Equity:             equity,
			PrincipalPaid:      row.PrincipalPaid,
			InterestPaid:       row.InterestPaid,
			AnnualIncome:       income,
			AnnualExpenses:     expenses,
			AnnualDebtService:  annualDebtService,
			NetCashFlow:        netCashFlow,
			CumulativeCashFlow: cumulative,
		})
		cashFlows = append(cashFlows, netCashFlow)
		balances = append(balances, row.EndingBalance)
		values = append(values, value)
	}

	return Result{
		Yearly: yearly,
		IRR5:   holdIRR(in, cashFlows, balances, values, 5),
		IRR10:  holdIRR(in, cashFlows, balances, values, 10),
	}, nil
}

// holdIRR computes the IRR for an N-year hold:
//
//	[ -total cash invested,
//	  cf_1 .. cf_{N-1},
//	  cf_N + exit proceeds ]
//
// where exit proceeds = value_N * (1 - selling cost) - balance_N.
func holdIRR(in Input, cashFlows, balances, values []decimal.Decimal, hold int) finance.Ratio {
	if hold > len(cashFlows) {
		return finance.NotApplicable()
	}
	if in.TotalCashInvested.Sign() <= 0 {
		return finance.NotApplicable()
	}

	sellRate := in.SellingCostPct.Div(hundred)
	exitProceeds := finance.RoundMoney(
		values[hold-1].Mul(oneD.Sub(sellRate)).Sub(balances[hold-1]),
	)

	flows := make([]decimal.Decimal, 0, hold+1)
	flows = append(flows, in.TotalCashInvested.Neg())
	for i := 0; i < hold-1; i++ {
		flows = append(flows, cashFlows[i])
	}
	flows = append(flows, cashFlows[hold-1].Add(exitProceeds))

	rate, err := finance.IRR(flows)
	if err != nil {
		// No root in the bracket: IRR is undefined for this shape.
		return finance.NotApplicable()
	}
	return finance.Defined(rate)
}
