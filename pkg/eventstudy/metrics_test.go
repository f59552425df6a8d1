package eventstudy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrostudy/pkg/series"
)

func TestComputeMetrics_KnownValues(t *testing.T) {
	w := &Window{
		Symbol:         "SPY.US",
		EventDate:      series.Day(2024, time.March, 12),
		EffectiveDate:  series.Day(2024, time.March, 12),
		Pre:            []float64{0.01, -0.01, 0.02, -0.02, 0.01},
		Post:           []float64{0.03, -0.03, 0.04, -0.04, 0.03},
		EventDayReturn: -0.05,
	}
	baseline := []float64{0.01, -0.01, 0.02, -0.02, 0.01}

	m := ComputeMetrics(w, baseline)

	assert.InDelta(t, series.StdDev(w.Pre), m.PreVol, 1e-12)
	assert.InDelta(t, series.StdDev(w.Post), m.PostVol, 1e-12)
	assert.InDelta(t, m.PostVol-m.PreVol, m.VolDelta, 1e-12)
	assert.Greater(t, m.VolDelta, 0.0, "post window is visibly noisier")

	assert.InDelta(t, 0.002, m.PreMean, 1e-12)
	assert.InDelta(t, 0.006, m.PostMean, 1e-12)
	assert.InDelta(t, 0.004, m.RetDelta, 1e-12)

	// median |baseline| = 0.01, |event day| = 0.05
	assert.InDelta(t, 5.0, m.ImpactRatio, 1e-12)
	assert.Equal(t, 5, m.PreN)
	assert.Equal(t, 5, m.PostN)
}

func TestComputeMetrics_SentinelsNotZeroes(t *testing.T) {
	w := &Window{
		Symbol:         "GLD.US",
		Pre:            []float64{0.01},
		Post:           []float64{0.02, 0.03},
		EventDayReturn: 0.01,
	}

	m := ComputeMetrics(w, nil)

	assert.True(t, math.IsNaN(m.PreVol), "single-return volatility is undefined")
	assert.False(t, math.IsNaN(m.PostVol))
	assert.True(t, math.IsNaN(m.VolDelta))
	assert.True(t, math.IsNaN(m.ImpactRatio), "empty baseline leaves the ratio undefined")
	assert.False(t, math.IsNaN(m.RetDelta), "means stay defined down to one return")
}

func TestComputeMetrics_ZeroBaselineMedian(t *testing.T) {
	w := &Window{
		Symbol:         "USO.US",
		Pre:            []float64{0.0, 0.0},
		Post:           []float64{0.0, 0.0},
		EventDayReturn: 0.02,
	}

	m := ComputeMetrics(w, []float64{0, 0, 0})
	assert.True(t, math.IsNaN(m.ImpactRatio), "division by a zero median is never performed")
}

func TestComputeMetrics_ScaleInvariantImpactRatio(t *testing.T) {
	pre := []float64{0.011, -0.004, 0.007, -0.009, 0.002}
	post := []float64{0.015, -0.012, 0.008, 0.003, -0.006}
	baseline := []float64{0.01, -0.008, 0.012, -0.005, 0.009, 0.004, -0.011}

	mk := func(k float64) Metric {
		w := &Window{
			Symbol:         "SLV.US",
			Pre:            scaled(pre, k),
			Post:           scaled(post, k),
			EventDayReturn: 0.031 * k,
		}
		return ComputeMetrics(w, scaled(baseline, k))
	}

	base := mk(1)
	doubled := mk(2)
	require.False(t, math.IsNaN(base.ImpactRatio))
	assert.InDelta(t, base.ImpactRatio, doubled.ImpactRatio, 1e-9,
		"impact ratio is invariant under uniform return scaling")
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	w := &Window{
		Symbol:         "AAPL.US",
		Pre:            []float64{0.01, 0.02, -0.01},
		Post:           []float64{-0.02, 0.03, 0.01},
		EventDayReturn: 0.04,
	}
	baseline := []float64{0.01, 0.02, 0.015}

	first := ComputeMetrics(w, baseline)
	second := ComputeMetrics(w, baseline)
	assert.Equal(t, first, second)
}

func scaled(vs []float64, k float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v * k
	}
	return out
}
