package marketdata

import (
	"context"

	"macrostudy/pkg/series"
)

// Provider supplies ordered daily price history per asset symbol.
type Provider interface {
	// DailySeries returns the full daily close series for the symbol,
	// oldest first, validated for ordering.
	DailySeries(ctx context.Context, symbol string) (*series.PriceSeries, error)
	// ListSymbols returns the symbols this provider is configured to serve.
	ListSymbols(ctx context.Context) ([]string, error)
}
