package marketdata

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrostudy/pkg/series"
)

type stubProvider struct{ name string }

func (s *stubProvider) DailySeries(ctx context.Context, symbol string) (*series.PriceSeries, error) {
	return nil, nil
}

func (s *stubProvider) ListSymbols(ctx context.Context) ([]string, error) { return nil, nil }

func init() {
	RegisterProvider("stub", func(name string, cfg *ProviderConfig) (Provider, error) {
		return &stubProvider{name: name}, nil
	})
}

const configYAML = `
default: primary
providers:
  primary:
    type: stub
    base_url: https://example.test/q/d/l
    timeout: 30s
    start: 2021-01-01
    symbols:
      - SPY.US
      - " GLD.US "
  secondary:
    type: stub
`

func TestLoadConfigFromReader(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(configYAML))
	require.NoError(t, err)

	assert.Equal(t, "primary", cfg.Default)
	p := cfg.Providers["primary"]
	require.NotNil(t, p)
	assert.Equal(t, 30*time.Second, p.Timeout)
	assert.Equal(t, []string{"SPY.US", "GLD.US"}, p.Symbols, "symbols are trimmed")

	start, err := p.StartDate()
	require.NoError(t, err)
	assert.Equal(t, series.Day(2021, time.January, 1), start)
}

func TestProviderConfigStartDate(t *testing.T) {
	p := &ProviderConfig{}
	start, err := p.StartDate()
	require.NoError(t, err)
	assert.True(t, start.IsZero(), "unset start means full history")

	p.Start = "01/02/2021"
	_, err = p.StartDate()
	assert.Error(t, err)
}

func TestLoadConfigFromReader_Invalid(t *testing.T) {
	cases := map[string]string{
		"no providers": `default: primary`,
		"missing type": "providers:\n  p:\n    symbols: [SPY.US]",
		"unknown type": "providers:\n  p:\n    type: nosuch",
		"bad timeout":  "providers:\n  p:\n    type: stub\n    timeout: never",
		"bad start":    "providers:\n  p:\n    type: stub\n    start: Jan 1",
		"bad default":  "default: q\nproviders:\n  p:\n    type: stub",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestBuildProvidersAndDefault(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(configYAML))
	require.NoError(t, err)

	providers, err := cfg.BuildProviders()
	require.NoError(t, err)
	require.Len(t, providers, 2)

	def, err := cfg.DefaultProvider(providers)
	require.NoError(t, err)
	assert.Equal(t, "primary", def.(*stubProvider).name)
}
