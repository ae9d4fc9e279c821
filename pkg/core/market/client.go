// Package market looks up rental market data (median rents, vacancy,
// appreciation, days on market) from a RentCast-compatible API, with a
// redis read-through cache in front of every endpoint.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	// ErrMissingAPIKey means the client was built without credentials.
	ErrMissingAPIKey = errors.New("market data API key not configured")
	// ErrQuotaExhausted is the upstream 429.
	ErrQuotaExhausted = errors.New("market data API quota exhausted")
	// ErrNotFound means the upstream has no data for the query.
	ErrNotFound = errors.New("no market data for query")
	// ErrUpstream covers upstream 5xx responses.
	ErrUpstream = errors.New("market data API error")
	// ErrUnavailable covers transport failures.
	ErrUnavailable = errors.New("market data API unreachable")
)

const defaultBaseURL = "https://api.rentcast.io/v1"

// Cache lifetimes per endpoint. Market statistics move slowly; rent and
// value estimates drift with listings; keep them shorter.
var endpointTTL = map[string]time.Duration{
	"markets":    30 * 24 * time.Hour,
	"avm/rent":   14 * 24 * time.Hour,
	"avm/value":  14 * 24 * time.Hour,
	"properties": 30 * 24 * time.Hour,
}

// Stats is the zip-level market snapshot the risk engine consumes.
type Stats struct {
	ZipCode             string          `json:"zip_code"`
	MedianRent          decimal.Decimal `json:"median_rent"`
	MedianPrice         decimal.Decimal `json:"median_price"`
	VacancyRatePct      decimal.Decimal `json:"vacancy_rate_pct"`
	YoYAppreciationPct  decimal.Decimal `json:"yoy_appreciation_pct"`
	PopulationGrowthPct decimal.Decimal `json:"population_growth_pct"`
	AverageDaysOnMarket int             `json:"average_days_on_market"`
	AsOf                time.Time       `json:"as_of"`
}

// RentEstimate is the automated rent valuation for one address.
type RentEstimate struct {
	Rent      decimal.Decimal `json:"rent"`
	RentLow   decimal.Decimal `json:"rent_range_low"`
	RentHigh  decimal.Decimal `json:"rent_range_high"`
	CompCount int             `json:"comp_count"`
}

// ValueEstimate is the automated price valuation for one address.
type ValueEstimate struct {
	Value     decimal.Decimal `json:"price"`
	ValueLow  decimal.Decimal `json:"price_range_low"`
	ValueHigh decimal.Decimal `json:"price_range_high"`
}

// Client talks to the market data API through the cache.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      Cache
}

// NewClient builds a client. An empty baseURL falls back to the public
// endpoint; an empty apiKey defers the failure to the first lookup so a
// server without market data configured can still boot.
func NewClient(apiKey, baseURL string, cache Cache) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cache == nil {
		cache = NopCache()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		cache:      cache,
	}
}

// MarketStats fetches the zip-level snapshot.
func (c *Client) MarketStats(ctx context.Context, zipCode string) (*Stats, error) {
	params := url.Values{"zipCode": {zipCode}}
	body, err := c.get(ctx, "markets", params)
	if err != nil {
		return nil, err
	}
	var s Stats
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode market stats: %w", err)
	}
	if s.ZipCode == "" {
		s.ZipCode = zipCode
	}
	if s.AsOf.IsZero() {
		s.AsOf = time.Now().UTC()
	}
	return &s, nil
}

// EstimateRent fetches the automated rent valuation for an address.
func (c *Client) EstimateRent(ctx context.Context, address string, bedrooms, bathrooms int) (*RentEstimate, error) {
	params := url.Values{"address": {address}}
	if bedrooms > 0 {
		params.Set("bedrooms", fmt.Sprint(bedrooms))
	}
	if bathrooms > 0 {
		params.Set("bathrooms", fmt.Sprint(bathrooms))
	}
	body, err := c.get(ctx, "avm/rent", params)
	if err != nil {
		return nil, err
	}
	var e RentEstimate
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("decode rent estimate: %w", err)
	}
	return &e, nil
}

// EstimateValue fetches the automated price valuation for an address.
func (c *Client) EstimateValue(ctx context.Context, address string) (*ValueEstimate, error) {
	params := url.Values{"address": {address}}
	body, err := c.get(ctx, "avm/value", params)
	if err != nil {
		return nil, err
	}
	var e ValueEstimate
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("decode value estimate: %w", err)
	}
	return &e, nil
}

// get runs one cached API call and maps upstream failures onto the
// package's sentinel errors.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	key := CacheKey(endpoint, params.Encode())
	if body, ok := c.cache.Get(ctx, key); ok {
		return body, nil
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrQuotaExhausted
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ttl, ok := endpointTTL[endpoint]
	if !ok {
		ttl = 24 * time.Hour
	}
	c.cache.Set(ctx, key, body, ttl)
	log.Debug().Str("endpoint", endpoint).Int("bytes", len(body)).Msg("market data fetched")
	return body, nil
}
