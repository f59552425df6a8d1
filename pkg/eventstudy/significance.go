package eventstudy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"macrostudy/pkg/series"
)

// Field selects which metric column a significance test runs over.
type Field string

const (
	FieldVolDelta    Field = "vol_delta"
	FieldRetDelta    Field = "ret_delta"
	FieldImpactRatio Field = "impact_ratio"
)

// Null returns the conventional null-hypothesis mean for the field: the
// deltas are tested against 0, the impact ratio against 1 (a typical day).
func (f Field) Null() float64 {
	if f == FieldImpactRatio {
		return 1
	}
	return 0
}

func (f Field) value(m Metric) (float64, error) {
	switch f {
	case FieldVolDelta:
		return m.VolDelta, nil
	case FieldRetDelta:
		return m.RetDelta, nil
	case FieldImpactRatio:
		return m.ImpactRatio, nil
	default:
		return 0, fmt.Errorf("eventstudy: unknown metric field %q", f)
	}
}

// TestResult is the descriptive outcome of a one-sample t-test. Threshold
// interpretation belongs to the reporting layer.
type TestResult struct {
	Field     Field
	Null      float64
	Mean      float64
	Statistic float64
	PValue    float64
	N         int
}

// TestSignificance runs a two-sided one-sample t-test of the null hypothesis
// that the selected field's mean equals mu0 across the metric sample.
// NaN sentinel entries are discarded before testing; fewer than two retained
// observations fails with ErrInsufficientSample.
func TestSignificance(metrics []Metric, field Field, mu0 float64) (*TestResult, error) {
	vals := make([]float64, 0, len(metrics))
	for _, m := range metrics {
		v, err := field.value(m)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	vals = series.Finite(vals)
	if len(vals) < 2 {
		return nil, fmt.Errorf("%w: field %s has %d finite observations",
			ErrInsufficientSample, field, len(vals))
	}

	n := float64(len(vals))
	mean := series.Mean(vals)
	sd := series.StdDev(vals)

	res := &TestResult{Field: field, Null: mu0, Mean: mean, N: len(vals)}
	if sd == 0 {
		// Degenerate sample: either perfectly on the null or perfectly off it.
		if mean == mu0 {
			res.Statistic, res.PValue = 0, 1
		} else {
			res.Statistic = math.Inf(sign(mean - mu0))
			res.PValue = 0
		}
		return res, nil
	}

	res.Statistic = (mean - mu0) / (sd / math.Sqrt(n))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
	res.PValue = 2 * dist.CDF(-math.Abs(res.Statistic))
	return res, nil
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
