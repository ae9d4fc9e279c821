// Package deals exposes the analysis engine over HTTP.
package deals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/risk"
	"deal_analyzer/pkg/core/store"
)

var (
	riskEngine *risk.Engine
	dealRepo   *store.DealRepo
)

// InitHandler wires the handler's collaborators. A nil repo disables
// persistence; analyze still works.
func InitHandler(engine *risk.Engine, repo *store.DealRepo) {
	riskEngine = engine
	dealRepo = repo
}

// AnalyzeRequest is the wire-level deal. Pointer fields fall back to
// the conventional screening defaults when omitted: 20% down, 30 year
// term, 5% vacancy, 5% maintenance, 10% management.
type AnalyzeRequest struct {
	Label string `json:"label"`

	PurchasePrice    decimal.Decimal  `json:"purchase_price"`
	ClosingCosts     decimal.Decimal  `json:"closing_costs"`
	RehabCosts       decimal.Decimal  `json:"rehab_costs"`
	AfterRepairValue decimal.Decimal  `json:"after_repair_value"`
	DownPaymentPct   *decimal.Decimal `json:"down_payment_pct"`
	InterestRatePct  decimal.Decimal  `json:"interest_rate"`
	LoanTermYears    *int             `json:"loan_term_years"`

	GrossMonthlyRent   decimal.Decimal `json:"gross_monthly_rent"`
	OtherMonthlyIncome decimal.Decimal `json:"other_monthly_income"`

	PropertyTaxMonthly decimal.Decimal  `json:"property_tax_monthly"`
	InsuranceMonthly   decimal.Decimal  `json:"insurance_monthly"`
	HOAMonthly         decimal.Decimal  `json:"hoa_monthly"`
	UtilitiesMonthly   decimal.Decimal  `json:"utilities_monthly"`
	VacancyRatePct     *decimal.Decimal `json:"vacancy_rate_pct"`
	MaintenanceRatePct *decimal.Decimal `json:"maintenance_rate_pct"`
	ManagementFeePct   *decimal.Decimal `json:"management_fee_pct"`

	ProjectionYears        int             `json:"projection_years"`
	AnnualAppreciationPct  decimal.Decimal `json:"annual_appreciation_pct"`
	AnnualRentGrowthPct    decimal.Decimal `json:"annual_rent_growth_pct"`
	AnnualExpenseGrowthPct decimal.Decimal `json:"annual_expense_growth_pct"`
	SellingCostPct         decimal.Decimal `json:"selling_cost_pct"`

	// When present, the response carries a risk assessment too.
	RiskContext *risk.Context `json:"risk_context"`

	Save bool `json:"save"`
}

// AnalyzeResponse is metrics plus the optional assessment and the
// storage ID when the record was saved.
type AnalyzeResponse struct {
	ID         *uuid.UUID       `json:"id,omitempty"`
	Metrics    deal.Metrics     `json:"metrics"`
	Assessment *risk.Assessment `json:"assessment,omitempty"`
}

func defaultPct(p *decimal.Decimal, def int64) decimal.Decimal {
	if p != nil {
		return *p
	}
	return decimal.NewFromInt(def)
}

// ToInput applies the screening defaults and produces the engine input.
func (req *AnalyzeRequest) ToInput() deal.Input {
	term := 30
	if req.LoanTermYears != nil {
		term = *req.LoanTermYears
	}
	return deal.Input{
		PurchasePrice:    req.PurchasePrice,
		ClosingCosts:     req.ClosingCosts,
		RehabCosts:       req.RehabCosts,
		AfterRepairValue: req.AfterRepairValue,

		DownPaymentPct:  defaultPct(req.DownPaymentPct, 20),
		InterestRatePct: req.InterestRatePct,
		LoanTermYears:   term,

		GrossMonthlyRent:   req.GrossMonthlyRent,
		OtherMonthlyIncome: req.OtherMonthlyIncome,

		PropertyTaxMonthly: req.PropertyTaxMonthly,
		InsuranceMonthly:   req.InsuranceMonthly,
		HOAMonthly:         req.HOAMonthly,
		UtilitiesMonthly:   req.UtilitiesMonthly,

		VacancyRatePct:     defaultPct(req.VacancyRatePct, 5),
		MaintenanceRatePct: defaultPct(req.MaintenanceRatePct, 5),
		ManagementFeePct:   defaultPct(req.ManagementFeePct, 10),

		ProjectionYears:        req.ProjectionYears,
		AnnualAppreciationPct:  req.AnnualAppreciationPct,
		AnnualRentGrowthPct:    req.AnnualRentGrowthPct,
		AnnualExpenseGrowthPct: req.AnnualExpenseGrowthPct,
		SellingCostPct:         req.SellingCostPct,
	}
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleAnalyze runs one full analysis.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := req.ToInput()
	metrics, err := deal.Calculate(in)
	if err != nil {
		var inputErr *deal.InputError
		if errors.As(err, &inputErr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := AnalyzeResponse{Metrics: metrics}
	if req.RiskContext != nil && riskEngine != nil {
		assessment := riskEngine.Assess(metrics, *req.RiskContext)
		resp.Assessment = &assessment
	}

	if req.Save && dealRepo != nil {
		rec := &store.DealRecord{
			Label:      req.Label,
			Input:      in,
			Metrics:    metrics,
			Assessment: resp.Assessment,
		}
		if err := dealRepo.Save(r.Context(), rec); err != nil {
			log.Error().Err(err).Msg("deal save failed")
		} else {
			resp.ID = &rec.ID
		}
	}

	log.Info().
		Str("price", metrics.PurchasePrice.String()).
		Str("cap_rate", metrics.CapRate.String()).
		Msg("deal analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleGet serves one saved record by ?id=.
func HandleGet(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if dealRepo == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := dealRepo.Load(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// HandleList serves the saved record index.
func HandleList(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if dealRepo == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	recs, err := dealRepo.List(r.Context(), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}
