package fred

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrostudy/pkg/calendar"
)

func monthly(start time.Time, values []float64) []Observation {
	obs := make([]Observation, len(values))
	for i, v := range values {
		obs[i] = Observation{Date: start.AddDate(0, i, 0), Value: v}
	}
	return obs
}

func TestCPIYoYEvents(t *testing.T) {
	// 13 months of index levels; only the 13th has a year-ago comparison.
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{100, 100.2, 100.5, 100.8, 101, 101.3, 101.5, 101.8, 102, 102.3, 102.5, 102.8, 103.1}

	events := cpiYoYEvents(monthly(start, values))
	require.Len(t, events, 1)
	assert.Equal(t, calendar.CPI, events[0].Type)
	assert.Equal(t, start.AddDate(0, 12, 0), events[0].Date)
	assert.InDelta(t, 3.1, events[0].Value, 1e-9, "103.1 over a base of 100 is 3.1%% YoY")
}

func TestCPIYoYEvents_SkipsZeroBase(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	values := make([]float64, 14)
	values[0] = 0 // degenerate base month
	for i := 1; i < len(values); i++ {
		values[i] = 100 + float64(i)
	}

	events := cpiYoYEvents(monthly(start, values))
	require.Len(t, events, 1, "the observation over the zero base is dropped")
	assert.Equal(t, start.AddDate(0, 13, 0), events[0].Date)
}

func TestCPIYoYEvents_TooShort(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	events := cpiYoYEvents(monthly(start, []float64{100, 101, 102}))
	assert.Empty(t, events)
}

const nfpFixture = `observation_date,PAYEMS
2024-01-01,157232
2024-02-01,157497
2024-03-01,157800
`

func cpiLongFixture() string {
	var b strings.Builder
	b.WriteString("observation_date,CPIAUCSL\n")
	date := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	value := 300.0
	for i := 0; i < 15; i++ {
		b.WriteString(date.Format("2006-01-02"))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(value, 'f', 3, 64))
		b.WriteByte('\n')
		date = date.AddDate(0, 1, 0)
		value += 1.0
	}
	return b.String()
}

func TestProviderEvents(t *testing.T) {
	server, client := newMockFredServer(t, map[string]string{
		"CPIAUCSL": cpiLongFixture(),
		"PAYEMS":   nfpFixture,
	})
	defer server.Close()

	p := NewProvider(WithClient(client))
	events, err := p.Events(context.Background())
	require.NoError(t, err)

	var cpi, nfp int
	for _, ev := range events {
		switch ev.Type {
		case calendar.CPI:
			cpi++
			assert.Greater(t, ev.Value, 0.0, "rising index levels imply positive YoY inflation")
		case calendar.NFP:
			nfp++
		}
	}
	assert.Equal(t, 3, cpi, "15 monthly observations minus the 12-month lookback")
	assert.Equal(t, 3, nfp)
	assert.NoError(t, events.Validate())
}

func TestProviderEvents_SeriesOverride(t *testing.T) {
	server, client := newMockFredServer(t, map[string]string{
		"CPILFESL": cpiLongFixture(),
		"PAYEMS":   nfpFixture,
	})
	defer server.Close()

	p := NewProvider(WithClient(client), WithSeries(calendar.CPI, "CPILFESL"))
	events, err := p.Events(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestProviderEvents_FetchFailure(t *testing.T) {
	server, client := newMockFredServer(t, map[string]string{"PAYEMS": nfpFixture})
	defer server.Close()

	p := NewProvider(WithClient(client))
	_, err := p.Events(context.Background())
	assert.Error(t, err, "a missing CPI series fails the whole fetch")
}

func TestRegisteredProviderBuilds(t *testing.T) {
	cfg := &calendar.ProviderConfig{
		Type:    "fred",
		Series:  map[string]string{"CPI": "CPIAUCSL", "NFP": "PAYEMS"},
		Timeout: 5 * time.Second,
	}
	conf := &calendar.Config{
		Default:   "fred",
		Providers: map[string]*calendar.ProviderConfig{"fred": cfg},
	}
	providers, err := conf.BuildProviders()
	require.NoError(t, err)
	require.Contains(t, providers, "fred")
	assert.IsType(t, &Provider{}, providers["fred"])
}
