package eventstudy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsWithVolDelta(vals ...float64) []Metric {
	out := make([]Metric, len(vals))
	for i, v := range vals {
		out[i] = Metric{Symbol: "SPY.US", VolDelta: v, RetDelta: v / 2, ImpactRatio: 1 + v}
	}
	return out
}

func TestTestSignificance_AllZeroDeltasAcceptNull(t *testing.T) {
	ms := metricsWithVolDelta(0, 0, 0, 0, 0)

	res, err := TestSignificance(ms, FieldVolDelta, FieldVolDelta.Null())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Statistic)
	assert.Equal(t, 1.0, res.PValue)
	assert.Equal(t, 5, res.N)
}

func TestTestSignificance_ConstantOffNullSample(t *testing.T) {
	ms := metricsWithVolDelta(0.02, 0.02, 0.02)

	res, err := TestSignificance(ms, FieldVolDelta, 0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Statistic, 1))
	assert.Equal(t, 0.0, res.PValue)
}

func TestTestSignificance_KnownSample(t *testing.T) {
	// One-sided spot check: a clearly positive sample against mu0 = 0.
	ms := metricsWithVolDelta(0.010, 0.012, 0.009, 0.011, 0.013, 0.010, 0.008, 0.012)

	res, err := TestSignificance(ms, FieldVolDelta, 0)
	require.NoError(t, err)
	assert.Greater(t, res.Statistic, 0.0)
	assert.Less(t, res.PValue, 0.001, "a tight sample far from zero is decisively significant")
	assert.Greater(t, res.PValue, 0.0)
	assert.Equal(t, 8, res.N)
	assert.InDelta(t, 0.010625, res.Mean, 1e-12)
}

func TestTestSignificance_SymmetricSampleIsInsignificant(t *testing.T) {
	ms := metricsWithVolDelta(0.01, -0.01, 0.02, -0.02, 0.005, -0.005)

	res, err := TestSignificance(ms, FieldVolDelta, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.Statistic, 1e-9)
	assert.InDelta(t, 1.0, res.PValue, 1e-9)
}

func TestTestSignificance_DropsNaNSentinels(t *testing.T) {
	ms := metricsWithVolDelta(0.01, 0.02, 0.015)
	ms = append(ms, Metric{Symbol: "GLD.US", VolDelta: math.NaN()})

	res, err := TestSignificance(ms, FieldVolDelta, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.N, "NaN rows are excluded from the sample")
}

func TestTestSignificance_InsufficientSample(t *testing.T) {
	ms := metricsWithVolDelta(0.01)
	ms = append(ms, Metric{VolDelta: math.NaN()}, Metric{VolDelta: math.Inf(1)})

	_, err := TestSignificance(ms, FieldVolDelta, 0)
	assert.ErrorIs(t, err, ErrInsufficientSample)
}

func TestTestSignificance_UnknownField(t *testing.T) {
	_, err := TestSignificance(metricsWithVolDelta(1, 2, 3), Field("bogus"), 0)
	assert.Error(t, err)
}

func TestFieldNull(t *testing.T) {
	assert.Equal(t, 0.0, FieldVolDelta.Null())
	assert.Equal(t, 0.0, FieldRetDelta.Null())
	assert.Equal(t, 1.0, FieldImpactRatio.Null(), "a typical day has an impact ratio of one")
}

func TestTestSignificance_ImpactRatioAgainstOne(t *testing.T) {
	ms := []Metric{
		{ImpactRatio: 3.0}, {ImpactRatio: 2.5}, {ImpactRatio: 4.0},
		{ImpactRatio: 3.5}, {ImpactRatio: 2.8}, {ImpactRatio: 3.2},
	}

	res, err := TestSignificance(ms, FieldImpactRatio, FieldImpactRatio.Null())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Null)
	assert.Greater(t, res.Statistic, 0.0)
	assert.Less(t, res.PValue, 0.01)
}
