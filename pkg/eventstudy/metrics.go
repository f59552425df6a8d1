package eventstudy

import (
	"math"
	"time"

	"macrostudy/pkg/series"
)

// Metric is the immutable per-(event, asset) result row. Undefined
// statistics are NaN, never zero; aggregation filters them out.
type Metric struct {
	Symbol        string
	EventType     string
	EventDate     time.Time
	EffectiveDate time.Time

	PreVol   float64
	PostVol  float64
	VolDelta float64

	PreMean  float64
	PostMean float64
	RetDelta float64

	EventDayReturn float64
	ImpactRatio    float64

	PreN  int
	PostN int
}

// ComputeMetrics derives the metric row from an extracted window and the
// trailing baseline returns. Pure function: identical inputs always produce
// identical output.
//
// Volatility uses the unbiased sample standard deviation and is NaN when a
// window holds fewer than two returns. ImpactRatio is the event-day absolute
// return over the median absolute baseline return, NaN when the baseline
// median is zero or the baseline is empty.
func ComputeMetrics(w *Window, baseline []float64) Metric {
	m := Metric{
		Symbol:         w.Symbol,
		EventDate:      w.EventDate,
		EffectiveDate:  w.EffectiveDate,
		EventDayReturn: w.EventDayReturn,
		PreN:           len(w.Pre),
		PostN:          len(w.Post),
	}

	m.PreVol = series.StdDev(w.Pre)
	m.PostVol = series.StdDev(w.Post)
	m.VolDelta = m.PostVol - m.PreVol

	m.PreMean = series.Mean(w.Pre)
	m.PostMean = series.Mean(w.Post)
	m.RetDelta = m.PostMean - m.PreMean

	baselineAbs := series.MedianAbs(baseline)
	if baselineAbs > 0 {
		m.ImpactRatio = math.Abs(w.EventDayReturn) / baselineAbs
	} else {
		m.ImpactRatio = math.NaN()
	}
	return m
}
