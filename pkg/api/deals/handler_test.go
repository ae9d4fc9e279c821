package deals

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_analyzer/pkg/core/risk"
)

func setup(t *testing.T) {
	t.Helper()
	engine, err := risk.NewEngine(risk.DefaultConfig())
	require.NoError(t, err)
	InitHandler(engine, nil)
}

func post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/deals/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleAnalyze(w, req)
	return w
}

func TestHandleAnalyze(t *testing.T) {
	setup(t)

	w := post(t, `{
		"purchase_price": "185000",
		"closing_costs": "5550",
		"down_payment_pct": "20",
		"interest_rate": "7",
		"loan_term_years": 30,
		"gross_monthly_rent": "1800",
		"property_tax_monthly": "280",
		"insurance_monthly": "120"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Omitted rates fall back to the screening defaults (5% vacancy, 5%
	// maintenance, 10% management), reproducing the reference numbers.
	require.Equal(t, "1710.00", resp.Metrics.EffectiveGrossIncome.StringFixed(2))
	require.Equal(t, "670.00", resp.Metrics.OperatingExpenses.StringFixed(2))
	require.Equal(t, "12480.00", resp.Metrics.NOI.StringFixed(2))
	require.Nil(t, resp.Assessment)
	require.Nil(t, resp.ID)
}

func TestHandleAnalyzeDefaultsDownPaymentAndTerm(t *testing.T) {
	setup(t)

	// No down payment, term, or expense rates at all: 20% down over 30
	// years is assumed.
	w := post(t, `{
		"purchase_price": "185000",
		"interest_rate": "7",
		"gross_monthly_rent": "1800"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "37000.00", resp.Metrics.DownPaymentAmount.StringFixed(2))
	require.Equal(t, "148000.00", resp.Metrics.LoanAmount.StringFixed(2))
	require.Equal(t, "984.65", resp.Metrics.MonthlyMortgage.StringFixed(2))
}

func TestHandleAnalyzeWithRiskContext(t *testing.T) {
	setup(t)

	w := post(t, `{
		"purchase_price": "185000",
		"interest_rate": "7",
		"gross_monthly_rent": "1800",
		"risk_context": {
			"market_vacancy_pct": "5",
			"yoy_appreciation_pct": "3.2",
			"population_growth_pct": "0.8",
			"year_built": 1965,
			"valuation_year": 2026,
			"days_on_market": 45,
			"portfolio_pct_in_zip": "35",
			"portfolio_size": 3
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Assessment)
	require.Len(t, resp.Assessment.Factors, 11)
	require.NotEmpty(t, resp.Assessment.Label)
}

func TestHandleAnalyzeRejectsBadDeal(t *testing.T) {
	setup(t)

	w := post(t, `{"purchase_price": "0", "gross_monthly_rent": "1800"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "purchase_price")
}

func TestHandleAnalyzeRejectsBadJSON(t *testing.T) {
	setup(t)

	w := post(t, `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyzeCORSPreflight(t *testing.T) {
	setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/deals/analyze", nil)
	w := httptest.NewRecorder()
	HandleAnalyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
