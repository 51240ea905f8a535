// Package quote fetches live prices from the Finnhub quote API.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches the latest trade price for a ticker symbol.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates a Finnhub quote client. The API key may be empty, in
// which case every lookup degrades to an unknown price.
func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// NewWithBaseURL creates a client against a non-default endpoint.
// Used by tests and self-hosted proxies.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// finnhubQuote is the response structure from the Finnhub /quote endpoint.
type finnhubQuote struct {
	Current float64 `json:"c"`
}

// Price returns the latest trade price for symbol. On any failure
// (network error, bad status, malformed body, missing field) it returns
// 0; callers must treat 0 as "price unknown", not a real price.
func (c *Client) Price(ctx context.Context, symbol string) float64 {
	price, err := c.fetch(ctx, symbol)
	if err != nil {
		log.Printf("quote: %s: %v", symbol, err)
		return 0
	}
	return price
}

// PriceDecimal is Price for callers doing money math.
func (c *Client) PriceDecimal(ctx context.Context, symbol string) decimal.Decimal {
	return decimal.NewFromFloat(c.Price(ctx, symbol))
}

func (c *Client) fetch(ctx context.Context, symbol string) (float64, error) {
	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("finnhub fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("finnhub read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finnhub: status %d", resp.StatusCode)
	}

	var q finnhubQuote
	if err := json.Unmarshal(body, &q); err != nil {
		return 0, fmt.Errorf("finnhub decode: %w", err)
	}
	if q.Current < 0 {
		return 0, fmt.Errorf("finnhub: negative price %f for %s", q.Current, symbol)
	}
	return q.Current, nil
}
