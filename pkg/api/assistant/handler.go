// Package assistant serves the LLM-backed explanation endpoint.
package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"deal_analyzer/pkg/api/deals"
	"deal_analyzer/pkg/core/assistant"
	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/risk"
)

var (
	explainer  *assistant.Explainer
	riskEngine *risk.Engine
)

// InitHandler wires the explainer; nil disables the endpoint.
func InitHandler(e *assistant.Explainer, engine *risk.Engine) {
	explainer = e
	riskEngine = engine
}

// ExplainRequest is a deal plus the optional risk context and the
// desired rendering.
type ExplainRequest struct {
	Deal    deals.AnalyzeRequest `json:"deal"`
	Context *risk.Context        `json:"context,omitempty"`
	Format  string               `json:"format,omitempty"` // "json" (default), "markdown", "html"
}

// ExplainResponse carries the structured explanation and, when asked
// for, its rendering.
type ExplainResponse struct {
	Explanation *assistant.Explanation `json:"explanation"`
	Rendered    string                 `json:"rendered,omitempty"`
}

// HandleExplain analyzes the deal and narrates the result.
func HandleExplain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if explainer == nil {
		http.Error(w, "assistant not configured", http.StatusServiceUnavailable)
		return
	}

	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics, err := deal.Calculate(req.Deal.ToInput())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var assessment *risk.Assessment
	if req.Context != nil && riskEngine != nil {
		a := riskEngine.Assess(metrics, *req.Context)
		assessment = &a
	}

	explanation, err := explainer.Explain(r.Context(), metrics, assessment)
	if err != nil {
		log.Error().Err(err).Msg("explanation failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	resp := ExplainResponse{Explanation: explanation}
	switch req.Format {
	case "markdown":
		resp.Rendered = explanation.Markdown()
	case "html":
		html, err := explanation.HTML()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Rendered = html
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
