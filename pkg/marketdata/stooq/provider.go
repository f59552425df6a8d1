package stooq

import (
	"context"
	"net/http"
	"time"

	"macrostudy/pkg/marketdata"
	"macrostudy/pkg/series"
)

const defaultProviderTimeout = 20 * time.Second

// Provider serves a fixed symbol universe from Stooq daily CSV history.
type Provider struct {
	client  *Client
	timeout time.Duration
	symbols []string
	start   time.Time
}

// ProviderOption customises the Stooq provider.
type ProviderOption func(*Provider)

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithClient injects a custom Stooq client.
func WithClient(client *Client) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithSymbols sets the symbol universe the provider serves.
func WithSymbols(symbols ...string) ProviderOption {
	return func(p *Provider) {
		p.symbols = append([]string(nil), symbols...)
	}
}

// WithStart bounds fetched history to dates on or after start.
func WithStart(start time.Time) ProviderOption {
	return func(p *Provider) {
		p.start = start
	}
}

// NewProvider constructs a Stooq market-data provider.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		client:  NewClient(),
		timeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func init() {
	marketdata.RegisterProvider("stooq", func(name string, cfg *marketdata.ProviderConfig) (marketdata.Provider, error) {
		opts := []ProviderOption{WithSymbols(cfg.Symbols...)}
		clientOpts := []Option{}
		if cfg.BaseURL != "" {
			clientOpts = append(clientOpts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
			clientOpts = append(clientOpts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		start, err := cfg.StartDate()
		if err != nil {
			return nil, err
		}
		if !start.IsZero() {
			opts = append(opts, WithStart(start))
		}
		if len(clientOpts) > 0 {
			opts = append(opts, WithClient(NewClient(clientOpts...)))
		}
		return NewProvider(opts...), nil
	})
}

// DailySeries implements marketdata.Provider.
func (p *Provider) DailySeries(ctx context.Context, symbol string) (*series.PriceSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Daily(ctx, symbol, p.start)
}

// ListSymbols implements marketdata.Provider.
func (p *Provider) ListSymbols(ctx context.Context) ([]string, error) {
	return append([]string(nil), p.symbols...), nil
}
