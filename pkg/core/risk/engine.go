package risk

import (
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/finance"
)

var (
	hundred = decimal.NewFromInt(100)
	lowCut  = decimal.NewFromInt(33)
	modCut  = decimal.NewFromInt(66)
)

// Engine scores deals against one factor table. Stateless beyond the
// config; safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates the config and returns a scorer.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Assess scores one analyzed deal. Factors come back in config order;
// the composite is the weighted sum with not-applicable factors
// contributing zero at full weight.
func (e *Engine) Assess(m deal.Metrics, ctx Context) Assessment {
	factors := make([]FactorScore, 0, len(e.cfg.Factors))
	composite := decimal.Zero
	for _, fc := range e.cfg.Factors {
		raw := rawValue(fc.ID, m, ctx)
		fs := FactorScore{ID: fc.ID, Weight: fc.Weight, Raw: raw}
		if v, ok := raw.Value(); ok {
			fs.Score = interpolate(v, fc.Best, fc.Worst)
		} else {
			fs.NotApplicable = true
			fs.Score = decimal.Zero
		}
		composite = composite.Add(fs.Score.Mul(fc.Weight))
		factors = append(factors, fs)
	}
	composite = composite.Round(2)
	return Assessment{Score: composite, Label: label(composite), Factors: factors}
}

// interpolate maps raw onto 0-100 between the anchors, clamped. Best
// above or below Worst both work; the sign of the span flips with it.
func interpolate(raw, best, worst decimal.Decimal) decimal.Decimal {
	span := worst.Sub(best)
	score := raw.Sub(best).Div(span).Mul(hundred)
	if score.IsNegative() {
		return decimal.Zero
	}
	if score.GreaterThan(hundred) {
		return hundred
	}
	return score.Round(2)
}

func label(score decimal.Decimal) string {
	switch {
	case score.LessThanOrEqual(lowCut):
		return LabelLow
	case score.LessThanOrEqual(modCut):
		return LabelModerate
	default:
		return LabelHigh
	}
}

// rawValue derives the observable for one factor. NotApplicable marks
// factors the inputs cannot support, never a bad outcome.
func rawValue(id FactorID, m deal.Metrics, ctx Context) finance.Ratio {
	switch id {
	case FactorDSCR:
		return m.DSCR
	case FactorCashOnCash:
		v, ok := m.CashOnCash.Value()
		if !ok {
			return finance.NotApplicable()
		}
		return finance.Defined(v.Mul(hundred))
	case FactorVacancy:
		if !ctx.MarketVacancyPct.IsPositive() {
			return finance.NotApplicable()
		}
		// Relative spread: at market 0, twice market +1, zero vacancy -1.
		return finance.Defined(m.VacancyRatePct.Sub(ctx.MarketVacancyPct).Div(ctx.MarketVacancyPct))
	case FactorLTV:
		if !m.PurchasePrice.IsPositive() {
			return finance.NotApplicable()
		}
		return finance.Defined(m.LoanAmount.Div(m.PurchasePrice).Mul(hundred))
	case FactorAppreciation:
		return finance.Defined(ctx.YoYAppreciationPct)
	case FactorRentToPrice:
		if !m.PurchasePrice.IsPositive() {
			return finance.NotApplicable()
		}
		return finance.Defined(m.GrossMonthlyRent.Div(m.PurchasePrice).Mul(hundred))
	case FactorPropertyAge:
		if ctx.YearBuilt == 0 || ctx.ValuationYear == 0 {
			return finance.NotApplicable()
		}
		return finance.Defined(decimal.NewFromInt(int64(ctx.ValuationYear - ctx.YearBuilt)))
	case FactorDaysOnMarket:
		return finance.Defined(decimal.NewFromInt(int64(ctx.DaysOnMarket)))
	case FactorPopGrowth:
		return finance.Defined(ctx.PopulationGrowthPct)
	case FactorConcentration:
		if ctx.PortfolioSize <= 1 {
			return finance.NotApplicable()
		}
		return finance.Defined(ctx.PortfolioPctInZip)
	case FactorExpenseRatio:
		if !m.EffectiveGrossIncome.IsPositive() {
			return finance.NotApplicable()
		}
		return finance.Defined(m.OperatingExpenses.Div(m.EffectiveGrossIncome).Mul(hundred))
	}
	return finance.NotApplicable()
}
