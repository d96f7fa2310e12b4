package marketstack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockDash/internal/domain/models"
	xhttp "StockDash/pkg/http"
	applogger "StockDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		APIKey:       "secret",
		BaseURL:      srv.URL + "/",
		CatalogLimit: 50,
		Timeout:      time.Second,
	}, applogger.Nop())
}

func TestTickers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/tickers", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"pagination": {"limit": 50, "offset": 0, "count": 2, "total": 2},
			"data": [
				{"name": "Apple Inc", "symbol": "AAPL", "has_intraday": false,
				 "stock_exchange": {"name": "NASDAQ Stock Exchange", "acronym": "NASDAQ", "mic": "XNAS", "country_code": "US"}},
				{"name": "Tesla Inc", "symbol": "TSLA",
				 "stock_exchange": {"name": "NASDAQ Stock Exchange", "country_code": "US"}}
			]
		}`))
	})

	got, err := c.Tickers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "Apple Inc", got[0].Name)
	assert.Equal(t, "XNAS", got[0].StockExchange.MIC)
	assert.Equal(t, "US", got[1].StockExchange.CountryCode)
}

func TestEOD(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/eod", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("access_key"))
		assert.Equal(t, "AAPL", q.Get("symbols"))
		assert.Equal(t, "2024-01-01", q.Get("date_from"))
		assert.Equal(t, "2024-01-31", q.Get("date_to"))
		assert.Equal(t, "ASC", q.Get("sort"))
		assert.Equal(t, "1000", q.Get("limit"))

		_, _ = w.Write([]byte(`{"data": [
			{"date": "2024-01-02T00:00:00+0000", "open": 187.15, "high": 188.44, "low": 183.885, "close": null, "volume": 82488700, "symbol": "AAPL"},
			{"date": "2024-01-03T00:00:00+0000", "open": 184.22, "high": 185.88, "low": 183.43, "close": 184.25, "volume": 58414460, "symbol": "AAPL"}
		]}`))
	})

	got, err := c.EOD(context.Background(), "AAPL", models.DateRange{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// provider order is kept
	assert.Equal(t, "2024-01-02T00:00:00+0000", got[0].Date)
	assert.Equal(t, 184.22, got[1].Open)
	assert.Zero(t, got[0].Close)

	var volume int64
	require.NoError(t, json.Unmarshal(got[1].Extra["volume"], &volume))
	assert.Equal(t, int64(58414460), volume)
	assert.JSONEq(t, `"AAPL"`, string(got[0].Extra["symbol"]))
}

func TestEODEmptyData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pagination": {"count": 0}, "data": []}`))
	})

	got, err := c.EOD(context.Background(), "ZZZZ", models.DateRange{From: "2024-01-01", To: "2024-01-02"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEODProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"code": "invalid_access_key", "message": "You have not supplied a valid API Access Key."}}`))
	})

	_, err := c.EOD(context.Background(), "AAPL", models.DateRange{From: "2024-01-01", To: "2024-01-02"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_access_key", apiErr.Code)
	assert.Contains(t, err.Error(), "eod AAPL")
	assert.Contains(t, err.Error(), "status 401")
}

func TestEODErrorInOKBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": "usage_limit_reached", "message": "monthly limit"}}`))
	})

	_, err := c.EOD(context.Background(), "AAPL", models.DateRange{From: "2024-01-01", To: "2024-01-02"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "usage_limit_reached", apiErr.Code)
}

func TestTickersPlainServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Tickers(context.Background())
	var statusErr *xhttp.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestEODHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.EOD(ctx, "AAPL", models.DateRange{From: "2024-01-01", To: "2024-01-02"})
	assert.ErrorIs(t, err, context.Canceled)
}
