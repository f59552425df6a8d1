package fred

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"macrostudy/pkg/calendar"
)

const (
	defaultProviderTimeout = 20 * time.Second
	defaultCPISeries       = "CPIAUCSL"
	defaultNFPSeries       = "PAYEMS"

	// CPI is published as an index level; the study wants YoY % inflation,
	// so twelve monthly observations back is the comparison point.
	yoyMonths = 12
)

// Provider derives a macro-event calendar from FRED series: CPI release
// dates with YoY % values and NFP release dates with employment levels.
type Provider struct {
	client  *Client
	timeout time.Duration
	series  map[calendar.EventType]string
}

// ProviderOption customises the FRED provider.
type ProviderOption func(*Provider)

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithClient injects a custom FRED client.
func WithClient(client *Client) ProviderOption {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithSeries overrides the series id used for an event type.
func WithSeries(eventType calendar.EventType, seriesID string) ProviderOption {
	return func(p *Provider) {
		if seriesID != "" {
			p.series[eventType] = seriesID
		}
	}
}

// NewProvider constructs a FRED calendar provider with CPI and NFP defaults.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		client:  NewClient(),
		timeout: defaultProviderTimeout,
		series: map[calendar.EventType]string{
			calendar.CPI: defaultCPISeries,
			calendar.NFP: defaultNFPSeries,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func init() {
	calendar.RegisterProvider("fred", func(name string, cfg *calendar.ProviderConfig) (calendar.Provider, error) {
		opts := []ProviderOption{}
		clientOpts := []Option{}
		if cfg.BaseURL != "" {
			clientOpts = append(clientOpts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
			clientOpts = append(clientOpts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		for eventType, seriesID := range cfg.Series {
			opts = append(opts, WithSeries(calendar.EventType(eventType), seriesID))
		}
		if len(clientOpts) > 0 {
			opts = append(opts, WithClient(NewClient(clientOpts...)))
		}
		return NewProvider(opts...), nil
	})
}

// Events implements calendar.Provider. CPI observations are converted to
// year-over-year percent change before becoming events; the first twelve
// months therefore produce no CPI events.
func (p *Provider) Events(ctx context.Context) (calendar.Calendar, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var events calendar.Calendar

	if seriesID, ok := p.series[calendar.CPI]; ok {
		obs, err := p.client.Series(ctx, seriesID)
		if err != nil {
			return nil, fmt.Errorf("fred: cpi series: %w", err)
		}
		events = append(events, cpiYoYEvents(obs)...)
	}

	if seriesID, ok := p.series[calendar.NFP]; ok {
		obs, err := p.client.Series(ctx, seriesID)
		if err != nil {
			return nil, fmt.Errorf("fred: nfp series: %w", err)
		}
		for _, o := range obs {
			events = append(events, calendar.Event{Type: calendar.NFP, Date: o.Date, Value: o.Value})
		}
	}

	events.Sort()
	if err := events.Validate(); err != nil {
		return nil, err
	}
	return events, nil
}

// cpiYoYEvents converts CPI index levels into YoY % change events.
func cpiYoYEvents(obs []Observation) calendar.Calendar {
	events := make(calendar.Calendar, 0, len(obs))
	for i := yoyMonths; i < len(obs); i++ {
		base := obs[i-yoyMonths].Value
		if base == 0 {
			continue
		}
		events = append(events, calendar.Event{
			Type:  calendar.CPI,
			Date:  obs[i].Date,
			Value: (obs[i].Value/base - 1) * 100,
		})
	}
	return events
}
