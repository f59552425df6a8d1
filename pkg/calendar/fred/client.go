package fred

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://fred.stlouisfed.org/graph/fredgraph.csv"
	defaultHTTPTimeout = 15 * time.Second
)

// Observation is one dated value of a FRED series.
type Observation struct {
	Date  time.Time
	Value float64
}

// Client fetches series observations from the FRED graph CSV endpoint,
// which needs no API key.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises the FRED client.
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

// NewClient constructs a FRED CSV client.
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

// Series fetches all observations for the given series id, oldest first.
// Missing observations (FRED renders them as ".") are dropped.
func (c *Client) Series(ctx context.Context, seriesID string) ([]Observation, error) {
	if strings.TrimSpace(seriesID) == "" {
		return nil, fmt.Errorf("fred: series id cannot be empty")
	}

	endpoint := fmt.Sprintf("%s?id=%s", c.baseURL, url.QueryEscape(seriesID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fred: build request for %s: %w", seriesID, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred: fetch %s: %w", seriesID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred: fetch %s: unexpected status %s", seriesID, resp.Status)
	}

	obs, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred: parse %s: %w", seriesID, err)
	}
	return obs, nil
}

// parseCSV reads the two-column (observation_date, value) fredgraph format.
func parseCSV(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no observations in response")
	}

	obs := make([]Observation, 0, len(records)-1)
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue // header or malformed row
		}
		raw := strings.TrimSpace(rec[1])
		if raw == "" || raw == "." {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(rec[0]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", i, rec[0], err)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad value %q: %w", i, raw, err)
		}
		obs = append(obs, Observation{Date: date, Value: value})
	}
	return obs, nil
}
