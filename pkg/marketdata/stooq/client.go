package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"macrostudy/pkg/series"
)

const (
	defaultBaseURL     = "https://stooq.com/q/d/l/"
	defaultHTTPTimeout = 15 * time.Second
)

// Client downloads daily OHLC history from the Stooq CSV endpoint. US
// listings carry a .US suffix (SPY.US); FX pairs have none (EURUSD).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises the Stooq client.
type Option func(*Client)

// WithBaseURL overrides the CSV endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient constructs a Stooq CSV client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Daily fetches the daily close series for a symbol, oldest first. A zero
// start fetches the full available history.
func (c *Client) Daily(ctx context.Context, symbol string, start time.Time) (*series.PriceSeries, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("stooq: symbol cannot be empty")
	}

	params := url.Values{}
	params.Set("s", strings.ToLower(symbol))
	params.Set("i", "d")
	if !start.IsZero() {
		params.Set("d1", start.Format("20060102"))
	}
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("stooq: build request for %s: %w", symbol, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq: fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq: fetch %s: unexpected status %s", symbol, resp.Status)
	}

	s, err := parseDailyCSV(symbol, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stooq: parse %s: %w", symbol, err)
	}
	return s, nil
}

// parseDailyCSV reads the Stooq Date,Open,High,Low,Close[,Volume] layout.
// Rows come back ascending from Stooq, but the series is re-sorted anyway
// before validation so a reordered payload cannot corrupt downstream math.
func parseDailyCSV(symbol string, r io.Reader) (*series.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no rows in response")
	}

	header := records[0]
	closeCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "close") {
			closeCol = i
		}
	}
	if closeCol == -1 {
		return nil, fmt.Errorf("close column missing, header %v", header)
	}

	s := &series.PriceSeries{Symbol: symbol, Points: make([]series.Point, 0, len(records)-1)}
	for i, rec := range records[1:] {
		if len(rec) <= closeCol {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(rec[0]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i+1, rec[0], err)
		}
		closePx, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad close %q: %w", i+1, rec[closeCol], err)
		}
		s.Points = append(s.Points, series.Point{Date: date, Close: closePx})
	}

	sort.Slice(s.Points, func(a, b int) bool {
		return s.Points[a].Date.Before(s.Points[b].Date)
	})
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
