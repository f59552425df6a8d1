package eventstudy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrostudy/pkg/series"
)

// windowFor slices a window around index pos with the given half-size,
// reusing the series dates so pairs align naturally.
func windowFor(rs *series.ReturnSeries, pos, size int) *Window {
	w, err := ExtractWindow(rs, rs.Dates[pos], size)
	if err != nil {
		panic(err)
	}
	return w
}

func TestCorrelationShift_IdenticalSeriesCorrelateAtOne(t *testing.T) {
	vals := []float64{0.01, -0.02, 0.03, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01, 0.03, 0.01}
	a := tradingReturns(t, "AAA.US", vals)
	b := tradingReturns(t, "BBB.US", vals)

	windows := map[string]*Window{
		"AAA.US": windowFor(a, 5, 5),
		"BBB.US": windowFor(b, 5, 5),
	}

	pairs := CorrelationShift(windows, 3)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, "AAA.US", p.AssetA)
	assert.Equal(t, "BBB.US", p.AssetB)
	assert.InDelta(t, 1.0, p.PreCorr, 1e-9)
	assert.InDelta(t, 1.0, p.PostCorr, 1e-9)
	assert.InDelta(t, 0.0, p.CorrDelta, 1e-9)
	assert.Equal(t, 5, p.PreN)
	assert.Equal(t, 5, p.PostN)
}

func TestCorrelationShift_AntiCorrelatedPostWindow(t *testing.T) {
	base := []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.00, 0.01, -0.02, 0.03, -0.01, 0.02}
	mirrored := make([]float64, len(base))
	for i, v := range base {
		if i <= 5 {
			mirrored[i] = v
		} else {
			mirrored[i] = -v
		}
	}
	a := tradingReturns(t, "AAA.US", base)
	b := tradingReturns(t, "BBB.US", mirrored)

	windows := map[string]*Window{
		"AAA.US": windowFor(a, 5, 5),
		"BBB.US": windowFor(b, 5, 5),
	}

	pairs := CorrelationShift(windows, 3)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].PreCorr, 1e-9)
	assert.InDelta(t, -1.0, pairs[0].PostCorr, 1e-9)
	assert.InDelta(t, -2.0, pairs[0].CorrDelta, 1e-9)
}

func TestCorrelationShift_OmitsPairsBelowMinOverlap(t *testing.T) {
	a := tradingReturns(t, "AAA.US", []float64{0.01, 0.02, 0.03, 0.04, 0.05})
	b := tradingReturns(t, "BBB.US", []float64{0.01, 0.02})

	windows := map[string]*Window{
		"AAA.US": windowFor(a, 2, 2),
		"BBB.US": windowFor(b, 1, 2),
	}

	pairs := CorrelationShift(windows, 3)
	assert.Empty(t, pairs, "pairs without enough aligned dates are dropped, not zero-filled")
}

func TestCorrelationShift_ZeroVariancePassesNaNThrough(t *testing.T) {
	a := tradingReturns(t, "AAA.US", []float64{0.01, -0.02, 0.03, -0.01, 0.02, 0.00, 0.01, -0.02, 0.03, -0.01, 0.02})
	b := tradingReturns(t, "BBB.US", constReturns(11, 0.01))

	windows := map[string]*Window{
		"AAA.US": windowFor(a, 5, 5),
		"BBB.US": windowFor(b, 5, 5),
	}

	pairs := CorrelationShift(windows, 3)
	require.Len(t, pairs, 1)
	assert.True(t, math.IsNaN(pairs[0].PreCorr), "a flat series has no defined correlation")
	assert.True(t, math.IsNaN(pairs[0].PostCorr))
}

func TestCorrelationShift_OrderedPairs(t *testing.T) {
	vals := []float64{0.01, -0.02, 0.03, -0.01, 0.02, -0.03, 0.01, 0.02, -0.01, 0.03, 0.01}
	windows := map[string]*Window{}
	for _, sym := range []string{"ZZZ.US", "AAA.US", "MMM.US"} {
		rs := tradingReturns(t, sym, vals)
		windows[sym] = windowFor(rs, 5, 5)
	}

	pairs := CorrelationShift(windows, 3)
	require.Len(t, pairs, 3)
	assert.Equal(t, [2]string{"AAA.US", "MMM.US"}, [2]string{pairs[0].AssetA, pairs[0].AssetB})
	assert.Equal(t, [2]string{"AAA.US", "ZZZ.US"}, [2]string{pairs[1].AssetA, pairs[1].AssetB})
	assert.Equal(t, [2]string{"MMM.US", "ZZZ.US"}, [2]string{pairs[2].AssetA, pairs[2].AssetB})
	for _, p := range pairs {
		assert.Less(t, p.AssetA, p.AssetB)
	}
}

func TestAlignByDate_PartialOverlap(t *testing.T) {
	d := func(day int) time.Time { return series.Day(2024, time.February, day) }
	datesA := []time.Time{d(1), d(2), d(3), d(5)}
	valsA := []float64{1, 2, 3, 5}
	datesB := []time.Time{d(2), d(3), d(4), d(5)}
	valsB := []float64{20, 30, 40, 50}

	outA, outB := alignByDate(datesA, valsA, datesB, valsB)
	assert.Equal(t, []float64{2, 3, 5}, outA)
	assert.Equal(t, []float64{20, 30, 50}, outB)
}
