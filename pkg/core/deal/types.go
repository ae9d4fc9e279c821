// Package deal converts raw acquisition inputs into the full set of
// investment metrics: NOI, cap rate, cash-on-cash, DSCR, GRM, cash flow,
// equity buildup, projections, and hold-period IRRs. Calculate is a pure
// function; identical inputs always produce identical metrics.
package deal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/finance"
	"deal_analyzer/pkg/core/projection"
)

var (
	// ErrNonPositivePurchasePrice rejects a deal with no price.
	ErrNonPositivePurchasePrice = errors.New("purchase price must be positive")
	// ErrOutOfRange rejects a field outside its sane bounds.
	ErrOutOfRange = errors.New("value out of range")
)

// InputError identifies the offending field of a rejected input.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Input is the caller-constructed description of a deal. Monetary fields
// are monthly unless named otherwise; rate-like fields are percentages
// (5 means 5%). The caller is responsible for unit consistency; Calculate
// only enforces the fail-fast preconditions (positive price, term and
// rate bounds).
type Input struct {
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	ClosingCosts     decimal.Decimal `json:"closing_costs"`
	RehabCosts       decimal.Decimal `json:"rehab_costs"`
	// AfterRepairValue, when positive, replaces the purchase price as the
	// projection's value basis (appreciation and exit sale proceeds).
	AfterRepairValue decimal.Decimal `json:"after_repair_value"`

	DownPaymentPct  decimal.Decimal `json:"down_payment_pct"`
	InterestRatePct decimal.Decimal `json:"interest_rate"`
	LoanTermYears   int             `json:"loan_term_years"`

	GrossMonthlyRent   decimal.Decimal `json:"gross_monthly_rent"`
	OtherMonthlyIncome decimal.Decimal `json:"other_monthly_income"`

	PropertyTaxMonthly decimal.Decimal `json:"property_tax_monthly"`
	InsuranceMonthly   decimal.Decimal `json:"insurance_monthly"`
	HOAMonthly         decimal.Decimal `json:"hoa_monthly"`
	UtilitiesMonthly   decimal.Decimal `json:"utilities_monthly"`

	VacancyRatePct     decimal.Decimal `json:"vacancy_rate_pct"`
	MaintenanceRatePct decimal.Decimal `json:"maintenance_rate_pct"`
	ManagementFeePct   decimal.Decimal `json:"management_fee_pct"`

	// Projection assumptions. These shape the forward series and the
	// IRRs only; they never alter the point-in-time metrics above.
	ProjectionYears        int             `json:"projection_years"`
	AnnualAppreciationPct  decimal.Decimal `json:"annual_appreciation_pct"`
	AnnualRentGrowthPct    decimal.Decimal `json:"annual_rent_growth_pct"`
	AnnualExpenseGrowthPct decimal.Decimal `json:"annual_expense_growth_pct"`
	SellingCostPct         decimal.Decimal `json:"selling_cost_pct"`
}

// Metrics is the computed value object. Created fresh on every Calculate
// call, never mutated, never cached here. Ratios that are undefined for a
// legitimate deal (DSCR all-cash, cash-on-cash at 100% financing, IRR
// with no sign change) are explicit NotApplicable sentinels.
type Metrics struct {
	// Input echoes needed by downstream consumers (risk engine,
	// persistence, presentation); none of them may re-derive these.
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	GrossMonthlyRent   decimal.Decimal `json:"gross_monthly_rent"`
	OtherMonthlyIncome decimal.Decimal `json:"other_monthly_income"`
	VacancyRatePct     decimal.Decimal `json:"vacancy_rate_pct"`

	LoanAmount        decimal.Decimal `json:"loan_amount"`
	DownPaymentAmount decimal.Decimal `json:"down_payment_amount"`
	MonthlyMortgage   decimal.Decimal `json:"monthly_mortgage"`
	AnnualDebtService decimal.Decimal `json:"annual_debt_service"`

	EffectiveGrossIncome decimal.Decimal `json:"effective_gross_income"` // monthly
	OperatingExpenses    decimal.Decimal `json:"operating_expenses"`     // monthly, excludes debt service
	NOI                  decimal.Decimal `json:"noi"`                    // annual

	CapRate           decimal.Decimal `json:"cap_rate"`
	MonthlyCashFlow   decimal.Decimal `json:"monthly_cash_flow"`
	AnnualCashFlow    decimal.Decimal `json:"annual_cash_flow"`
	TotalCashInvested decimal.Decimal `json:"total_cash_invested"`

	CashOnCash finance.Ratio `json:"cash_on_cash"`
	DSCR       finance.Ratio `json:"dscr"`
	GRM        finance.Ratio `json:"grm"`

	EquityBuildup5Yr  decimal.Decimal `json:"equity_buildup_5yr"`
	EquityBuildup10Yr decimal.Decimal `json:"equity_buildup_10yr"`

	Projections []projection.Year `json:"projections"`
	IRR5Yr      finance.Ratio     `json:"irr_5yr"`
	IRR10Yr     finance.Ratio     `json:"irr_10yr"`
}
