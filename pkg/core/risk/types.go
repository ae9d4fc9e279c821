// Package risk scores a deal across eleven weighted factors and rolls
// them into a single 0-100 composite. Each factor maps a raw observable
// (DSCR, LTV, property age, ...) onto a 0-100 scale by linear
// interpolation between two anchor values; higher is always riskier.
package risk

import (
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/finance"
)

// FactorID names one scored dimension.
type FactorID string

const (
	FactorDSCR          FactorID = "dscr_coverage"
	FactorCashOnCash    FactorID = "cash_on_cash"
	FactorVacancy       FactorID = "vacancy_vs_market"
	FactorLTV           FactorID = "ltv_ratio"
	FactorAppreciation  FactorID = "market_appreciation"
	FactorRentToPrice   FactorID = "rent_to_price"
	FactorPropertyAge   FactorID = "property_age"
	FactorDaysOnMarket  FactorID = "days_on_market"
	FactorPopGrowth     FactorID = "population_growth"
	FactorConcentration FactorID = "concentration_risk"
	FactorExpenseRatio  FactorID = "expense_ratio"
)

// Context carries the market and portfolio observables that do not live
// on the deal itself. Zero values for YearBuilt and ValuationYear mean
// "unknown" and mark the age factor not applicable.
type Context struct {
	MarketVacancyPct    decimal.Decimal `json:"market_vacancy_pct"`
	YoYAppreciationPct  decimal.Decimal `json:"yoy_appreciation_pct"`
	PopulationGrowthPct decimal.Decimal `json:"population_growth_pct"`
	YearBuilt           int             `json:"year_built"`
	ValuationYear       int             `json:"valuation_year"`
	DaysOnMarket        int             `json:"days_on_market"`
	PortfolioPctInZip   decimal.Decimal `json:"portfolio_pct_in_zip"`
	PortfolioSize       int             `json:"portfolio_size"`
}

// FactorScore is one scored factor. When a factor cannot be evaluated
// (all-cash deal has no DSCR, a one-property portfolio has no
// concentration) it scores zero and is flagged so callers can tell
// "measured safe" from "not measured".
type FactorScore struct {
	ID            FactorID        `json:"id"`
	Score         decimal.Decimal `json:"score"`
	Weight        decimal.Decimal `json:"weight"`
	Raw           finance.Ratio   `json:"raw"`
	NotApplicable bool            `json:"not_applicable"`
}

// Assessment is the full scoring result.
type Assessment struct {
	Score   decimal.Decimal `json:"score"`
	Label   string          `json:"label"`
	Factors []FactorScore   `json:"factors"`
}

const (
	LabelLow      = "Low"
	LabelModerate = "Moderate"
	LabelHigh     = "High"
)
