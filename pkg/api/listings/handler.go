// Package listings imports a saved listing page and prefills a deal
// from it.
package listings

import (
	"encoding/json"
	"errors"
	"net/http"

	"deal_analyzer/pkg/api/deals"
	"deal_analyzer/pkg/core/listing"
)

// ImportResponse is the parsed listing plus a deal request prefilled
// from it, ready to edit and submit to the analyze endpoint.
type ImportResponse struct {
	Listing *listing.Listing     `json:"listing"`
	Deal    deals.AnalyzeRequest `json:"deal"`
}

// HandleImport parses a POSTed listing page (raw HTML body).
func HandleImport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	l, err := listing.Parse(r.Body)
	if err != nil {
		if errors.Is(err, listing.ErrNoPrice) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := ImportResponse{
		Listing: l,
		Deal: deals.AnalyzeRequest{
			Label:            l.Address,
			PurchasePrice:    l.Price,
			GrossMonthlyRent: l.RentEstimate,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
