package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memCache is a map-backed Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func TestMarketStats(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		require.Equal(t, "53081", r.URL.Query().Get("zipCode"))
		w.Write([]byte(`{
			"zip_code": "53081",
			"median_rent": 1250,
			"median_price": 189000,
			"vacancy_rate_pct": 5.0,
			"yoy_appreciation_pct": 3.2,
			"population_growth_pct": 0.8,
			"average_days_on_market": 45
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	stats, err := c.MarketStats(context.Background(), "53081")
	require.NoError(t, err)
	require.Equal(t, "test-key", gotKey)
	require.Equal(t, "53081", stats.ZipCode)
	require.Equal(t, "1250", stats.MedianRent.String())
	require.Equal(t, "3.2", stats.YoYAppreciationPct.String())
	require.Equal(t, 45, stats.AverageDaysOnMarket)
	require.False(t, stats.AsOf.IsZero())
}

func TestMarketStatsCacheHit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"zip_code": "53081", "vacancy_rate_pct": 5.0}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, newMemCache())

	_, err := c.MarketStats(context.Background(), "53081")
	require.NoError(t, err)
	_, err = c.MarketStats(context.Background(), "53081")
	require.NoError(t, err)
	require.Equal(t, 1, calls, "second lookup must come from cache")
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrQuotaExhausted},
		{http.StatusInternalServerError, ErrUpstream},
		{http.StatusBadGateway, ErrUpstream},
		{http.StatusForbidden, ErrUpstream},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewClient("test-key", srv.URL, nil)
		_, err := c.MarketStats(context.Background(), "53081")
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		srv.Close()
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("", "http://localhost:1", nil)
	_, err := c.MarketStats(context.Background(), "53081")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestUnreachableUpstream(t *testing.T) {
	// A closed server maps to the transport sentinel, not a panic.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	_, err := c.MarketStats(context.Background(), "53081")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestEstimateRent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/avm/rent", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("bedrooms"))
		w.Write([]byte(`{"rent": 1800, "rent_range_low": 1650, "rent_range_high": 1950, "comp_count": 12}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, nil)
	est, err := c.EstimateRent(context.Background(), "520 Superior Ave, Sheboygan, WI", 3, 2)
	require.NoError(t, err)
	require.Equal(t, "1800", est.Rent.String())
	require.Equal(t, 12, est.CompCount)
}

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey("markets", "zipCode=53081")
	b := CacheKey("markets", "zipCode=53081")
	c := CacheKey("markets", "zipCode=53082")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
