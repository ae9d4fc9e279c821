// Package markets serves zip-level market statistics: live from the
// upstream API when possible, from the last stored snapshot when not.
package markets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"deal_analyzer/pkg/core/market"
	"deal_analyzer/pkg/core/store"
)

var (
	client     *market.Client
	marketRepo *store.MarketRepo
)

// InitHandler wires the upstream client and the snapshot repo; either
// may be nil and the handler degrades accordingly.
func InitHandler(c *market.Client, repo *store.MarketRepo) {
	client = c
	marketRepo = repo
}

// HandleStats serves GET ?zip=. Live lookups are snapshotted so later
// outages still have data to fall back on.
func HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	zip := r.URL.Query().Get("zip")
	if zip == "" {
		http.Error(w, "zip query parameter required", http.StatusBadRequest)
		return
	}

	stats, err := lookup(r, zip)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func lookup(r *http.Request, zip string) (*market.Stats, error) {
	if client != nil {
		stats, err := client.MarketStats(r.Context(), zip)
		if err == nil {
			if marketRepo != nil {
				if saveErr := marketRepo.Save(r.Context(), stats); saveErr != nil {
					log.Warn().Err(saveErr).Str("zip", zip).Msg("market snapshot save failed")
				}
			}
			return stats, nil
		}
		if errors.Is(err, market.ErrNotFound) {
			return nil, err
		}
		log.Warn().Err(err).Str("zip", zip).Msg("live market lookup failed, trying snapshot")
		if marketRepo != nil {
			if stats, dbErr := marketRepo.Latest(r.Context(), zip); dbErr == nil {
				return stats, nil
			}
		}
		return nil, err
	}

	if marketRepo != nil {
		return marketRepo.Latest(r.Context(), zip)
	}
	return nil, market.ErrMissingAPIKey
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrQuotaExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, market.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, market.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}
