package deal

import (
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/finance"
	"deal_analyzer/pkg/core/projection"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

const defaultProjectionYears = 10

// validate enforces the fail-fast preconditions. Everything else is the
// caller's problem: a zero rent or a 0% down payment is a legitimate
// deal, just one with NotApplicable ratios.
func validate(in Input) error {
	if in.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return &InputError{Field: "purchase_price", Err: ErrNonPositivePurchasePrice}
	}
	financed := in.DownPaymentPct.LessThan(hundred)
	if financed {
		if in.LoanTermYears < 1 || in.LoanTermYears > 50 {
			return &InputError{Field: "loan_term_years", Err: ErrOutOfRange}
		}
		if in.InterestRatePct.IsNegative() || in.InterestRatePct.GreaterThan(decimal.NewFromInt(30)) {
			return &InputError{Field: "interest_rate", Err: ErrOutOfRange}
		}
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"down_payment_pct", in.DownPaymentPct},
		{"vacancy_rate_pct", in.VacancyRatePct},
		{"maintenance_rate_pct", in.MaintenanceRatePct},
		{"management_fee_pct", in.ManagementFeePct},
		{"selling_cost_pct", in.SellingCostPct},
	} {
		if f.v.IsNegative() || f.v.GreaterThan(hundred) {
			return &InputError{Field: f.name, Err: ErrOutOfRange}
		}
	}
	if in.ProjectionYears < 0 {
		return &InputError{Field: "projection_years", Err: ErrOutOfRange}
	}
	return nil
}

// Calculate runs the full analysis for one deal.
//
// Financing, income, expenses, point-in-time ratios, equity buildup, then
// the forward projection with hold-period IRRs. All money lands on cents,
// all rate-like ratios on four decimal places.
func Calculate(in Input) (Metrics, error) {
	if err := validate(in); err != nil {
		return Metrics{}, err
	}

	// Financing.
	downPayment := finance.RoundMoney(in.PurchasePrice.Mul(in.DownPaymentPct).Div(hundred))
	loanAmount := in.PurchasePrice.Sub(downPayment)
	mortgage := decimal.Zero
	if loanAmount.IsPositive() {
		var err error
		mortgage, err = finance.MonthlyPayment(loanAmount, in.InterestRatePct, in.LoanTermYears)
		if err != nil {
			return Metrics{}, err
		}
	}
	annualDebtService := finance.RoundMoney(mortgage.Mul(twelve))

	// Income. Vacancy applies to rent only; other income (laundry,
	// parking, storage) is collected regardless of unit turnover.
	vacancyLoss := finance.RoundMoney(in.GrossMonthlyRent.Mul(in.VacancyRatePct).Div(hundred))
	egi := finance.RoundMoney(in.GrossMonthlyRent.Sub(vacancyLoss).Add(in.OtherMonthlyIncome))

	// Operating expenses, monthly. Debt service is deliberately not an
	// operating expense; NOI must be capital-structure independent.
	maintenance := finance.RoundMoney(in.GrossMonthlyRent.Mul(in.MaintenanceRatePct).Div(hundred))
	management := finance.RoundMoney(in.GrossMonthlyRent.Mul(in.ManagementFeePct).Div(hundred))
	opex := in.PropertyTaxMonthly.
		Add(in.InsuranceMonthly).
		Add(in.HOAMonthly).
		Add(in.UtilitiesMonthly).
		Add(maintenance).
		Add(management)

	noi := finance.RoundMoney(egi.Sub(opex).Mul(twelve))
	capRate := finance.RoundRate(noi.Div(in.PurchasePrice))

	monthlyCashFlow := finance.RoundMoney(egi.Sub(opex).Sub(mortgage))
	annualCashFlow := finance.RoundMoney(monthlyCashFlow.Mul(twelve))
	totalCashInvested := downPayment.Add(in.ClosingCosts).Add(in.RehabCosts)

	cashOnCash := finance.NotApplicable()
	if totalCashInvested.IsPositive() {
		cashOnCash = finance.Defined(finance.RoundRate(annualCashFlow.Div(totalCashInvested)))
	}
	dscr := finance.NotApplicable()
	if annualDebtService.IsPositive() {
		dscr = finance.Defined(finance.RoundRate(noi.Div(annualDebtService)))
	}
	grm := finance.NotApplicable()
	if in.GrossMonthlyRent.IsPositive() {
		annualRent := in.GrossMonthlyRent.Mul(twelve)
		grm = finance.Defined(finance.RoundMoney(in.PurchasePrice.Div(annualRent)))
	}

	equity5 := equityBuildup(loanAmount, in.InterestRatePct, in.LoanTermYears, 5)
	equity10 := equityBuildup(loanAmount, in.InterestRatePct, in.LoanTermYears, 10)

	years := in.ProjectionYears
	if years == 0 {
		years = defaultProjectionYears
	}
	// A rehab deal is worth its after-repair value once stabilized, so
	// that is what appreciates and what the exit sale prices against.
	valueBasis := in.PurchasePrice
	if in.AfterRepairValue.IsPositive() {
		valueBasis = in.AfterRepairValue
	}
	proj, err := projection.Compute(projection.Input{
		ValueBasis:        valueBasis,
		LoanAmount:        loanAmount,
		AnnualRatePct:     in.InterestRatePct,
		LoanTermYears:     in.LoanTermYears,
		MonthlyPayment:    mortgage,
		MonthlyIncome:     egi,
		MonthlyExpenses:   opex,
		TotalCashInvested: totalCashInvested,
		Years:             years,
		AppreciationPct:   in.AnnualAppreciationPct,
		RentGrowthPct:     in.AnnualRentGrowthPct,
		ExpenseGrowthPct:  in.AnnualExpenseGrowthPct,
		SellingCostPct:    in.SellingCostPct,
	})
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		PurchasePrice:      in.PurchasePrice,
		GrossMonthlyRent:   in.GrossMonthlyRent,
		OtherMonthlyIncome: in.OtherMonthlyIncome,
		VacancyRatePct:     in.VacancyRatePct,

		LoanAmount:        loanAmount,
		DownPaymentAmount: downPayment,
		MonthlyMortgage:   mortgage,
		AnnualDebtService: annualDebtService,

		EffectiveGrossIncome: egi,
		OperatingExpenses:    opex,
		NOI:                  noi,

		CapRate:           capRate,
		MonthlyCashFlow:   monthlyCashFlow,
		AnnualCashFlow:    annualCashFlow,
		TotalCashInvested: totalCashInvested,

		CashOnCash: cashOnCash,
		DSCR:       dscr,
		GRM:        grm,

		EquityBuildup5Yr:  equity5,
		EquityBuildup10Yr: equity10,

		Projections: proj.Yearly,
		IRR5Yr:      proj.IRR5,
		IRR10Yr:     proj.IRR10,
	}, nil
}

// equityBuildup is principal retired after n years of scheduled payments.
// Zero for an all-cash purchase; the full loan once the note is paid off.
func equityBuildup(loan, ratePct decimal.Decimal, termYears, years int) decimal.Decimal {
	if !loan.IsPositive() {
		return decimal.Zero
	}
	remaining, err := finance.RemainingBalance(loan, ratePct, termYears, years)
	if err != nil {
		return decimal.Zero
	}
	return loan.Sub(remaining)
}
