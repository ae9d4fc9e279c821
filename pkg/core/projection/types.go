// Package projection builds the year-by-year forward view of a deal:
// amortization rolled up annually, compounding appreciation and growth
// assumptions, equity, net cash flow, and hold-period IRRs. Pure functions
// over immutable inputs; growth assumptions never feed back into the
// point-in-time metrics.
package projection

import (
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/finance"
)

// Input carries everything needed to project a deal forward. ValueBasis
// is what the property is worth once stabilized: the after-repair value
// for a rehab deal, the purchase price otherwise. Appreciation compounds
// on it.
type Input struct {
	ValueBasis        decimal.Decimal
	LoanAmount        decimal.Decimal
	AnnualRatePct     decimal.Decimal
	LoanTermYears     int
	MonthlyPayment    decimal.Decimal
	MonthlyIncome     decimal.Decimal // effective gross income, month one
	MonthlyExpenses   decimal.Decimal // operating expenses, month one
	TotalCashInvested decimal.Decimal

	Years            int
	AppreciationPct  decimal.Decimal // property value, per year
	RentGrowthPct    decimal.Decimal // income, per year
	ExpenseGrowthPct decimal.Decimal // expenses, per year
	SellingCostPct   decimal.Decimal // applied to sale price at exit
}

// Year is a single projected calendar year.
type Year struct {
	Year               int             `json:"year"`
	PropertyValue      decimal.Decimal `json:"property_value"`
	LoanBalance        decimal.Decimal `json:"loan_balance"`
	Equity             decimal.Decimal `json:"equity"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	AnnualIncome       decimal.Decimal `json:"annual_income"`
	AnnualExpenses     decimal.Decimal `json:"annual_expenses"`
	AnnualDebtService  decimal.Decimal `json:"annual_debt_service"`
	NetCashFlow        decimal.Decimal `json:"annual_net_cash_flow"`
	CumulativeCashFlow decimal.Decimal `json:"cumulative_cash_flow"`
}

// Result is the projected series plus hold-period IRRs. An IRR is
// NotApplicable when the horizon exceeds the projection, no cash was
// invested, or the cash-flow vector has no internal rate of return.
type Result struct {
	Yearly []Year        `json:"yearly"`
	IRR5   finance.Ratio `json:"irr_5yr"`
	IRR10  finance.Ratio `json:"irr_10yr"`
}
