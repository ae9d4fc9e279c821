// Package riskapi exposes the risk scorer and its factor table.
package riskapi

import (
	"encoding/json"
	"net/http"

	"deal_analyzer/pkg/api/deals"
	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/risk"
)

var (
	engine *risk.Engine
	config risk.Config
)

func InitHandler(e *risk.Engine, cfg risk.Config) {
	engine = e
	config = cfg
}

type factorInfo struct {
	ID          risk.FactorID `json:"id"`
	Weight      string        `json:"weight"`
	Description string        `json:"description"`
	Best        string        `json:"best"`
	Worst       string        `json:"worst"`
}

// HandleFactors serves the active factor table so clients can render
// the scoring rules they are being judged by.
func HandleFactors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	out := make([]factorInfo, 0, len(config.Factors))
	for _, f := range config.Factors {
		out = append(out, factorInfo{
			ID:          f.ID,
			Weight:      f.Weight.String(),
			Description: f.Description,
			Best:        f.Best.String(),
			Worst:       f.Worst.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

type scoreRequest struct {
	Deal    deals.AnalyzeRequest `json:"deal"`
	Context risk.Context         `json:"context"`
}

type scoreResponse struct {
	Metrics    deal.Metrics    `json:"metrics"`
	Assessment risk.Assessment `json:"assessment"`
}

// HandleScore runs analysis plus scoring in one call.
func HandleScore(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics, err := deal.Calculate(req.Deal.ToInput())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	assessment := engine.Assess(metrics, req.Context)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scoreResponse{Metrics: metrics, Assessment: assessment})
}
