package marketstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockDash/internal/domain/models"
	xhttp "StockDash/pkg/http"
	applogger "StockDash/pkg/logger"
)

// Config holds the provider endpoint and credentials.
type Config struct {
	APIKey       string
	BaseURL      string
	TickersPath  string
	EODPath      string
	CatalogLimit int
	EODLimit     int
	Timeout      time.Duration
}

// APIError is the error object Marketstack puts in the body of a failed call.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketstack %s: %s", e.Code, e.Message)
}

type envelope[T any] struct {
	Data  []T       `json:"data"`
	Error *APIError `json:"error,omitempty"`
}

// Client is the catalog and history source backed by the Marketstack REST API.
type Client struct {
	cfg  Config
	http *xhttp.Client
	log  *applogger.Logger
}

func New(cfg Config, l *applogger.Logger, opts ...xhttp.ClientOption) *Client {
	if cfg.TickersPath == "" {
		cfg.TickersPath = "/v1/tickers"
	}
	if cfg.EODPath == "" {
		cfg.EODPath = "/v2/eod"
	}
	if cfg.EODLimit <= 0 {
		cfg.EODLimit = 1000
	}
	if cfg.Timeout > 0 {
		opts = append([]xhttp.ClientOption{xhttp.WithTimeout(cfg.Timeout)}, opts...)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:  cfg,
		http: xhttp.NewClient(opts...),
		log:  l.With("marketstack"),
	}
}

// Tickers lists the instruments the account can query.
func (c *Client) Tickers(ctx context.Context) ([]models.CatalogEntry, error) {
	params := map[string][]string{"access_key": {c.cfg.APIKey}}
	if c.cfg.CatalogLimit > 0 {
		params["limit"] = []string{strconv.Itoa(c.cfg.CatalogLimit)}
	}

	var resp envelope[models.CatalogEntry]
	if err := c.get(ctx, c.cfg.TickersPath, params, &resp); err != nil {
		return nil, fmt.Errorf("tickers: %w", err)
	}

	c.log.Debug("tickers loaded", applogger.Int("count", len(resp.Data)))
	return resp.Data, nil
}

// EOD returns the end-of-day points of one symbol over the range, oldest
// first. Only the first page of up to EODLimit rows is read.
func (c *Client) EOD(ctx context.Context, symbol string, r models.DateRange) ([]models.PricePoint, error) {
	params := map[string][]string{
		"access_key": {c.cfg.APIKey},
		"symbols":    {symbol},
		"sort":       {"ASC"},
		"limit":      {strconv.Itoa(c.cfg.EODLimit)},
	}
	if r.From != "" {
		params["date_from"] = []string{r.From}
	}
	if r.To != "" {
		params["date_to"] = []string{r.To}
	}

	var resp envelope[models.PricePoint]
	if err := c.get(ctx, c.cfg.EODPath, params, &resp); err != nil {
		return nil, fmt.Errorf("eod %s: %w", symbol, err)
	}
	if resp.Data == nil {
		resp.Data = []models.PricePoint{}
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{ apiError() *APIError }) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		URL:         c.cfg.BaseURL + path,
		QueryParams: params,
	}, dest)

	var statusErr *xhttp.StatusError
	if errors.As(err, &statusErr) {
		var body envelope[json.RawMessage]
		if json.Unmarshal([]byte(statusErr.Body), &body) == nil && body.Error != nil {
			return fmt.Errorf("status %d: %w", statusErr.Code, body.Error)
		}
		return err
	}
	if err != nil {
		return err
	}
	if apiErr := dest.apiError(); apiErr != nil {
		return apiErr
	}
	return nil
}

func (e *envelope[T]) apiError() *APIError { return e.Error }
