package report

import (
	"fmt"

	"macrostudy/pkg/eventstudy"
)

// DefaultAlpha is the significance threshold used when the config leaves
// it unset. Interpretation happens here, never in the test itself.
const DefaultAlpha = 0.05

// SignificanceLine turns one test result into a human-readable conclusion.
func SignificanceLine(res *eventstudy.TestResult, alpha float64) string {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	direction := describeDirection(res)
	if res.PValue < alpha {
		return fmt.Sprintf(
			"%s: statistically different from %.3g (mean=%.6f, n=%d, t=%.2f, p=%.3g). %s.",
			res.Field, res.Null, res.Mean, res.N, res.Statistic, res.PValue, direction)
	}
	return fmt.Sprintf(
		"%s: not statistically different from %.3g (mean=%.6f, n=%d, t=%.2f, p=%.3g). "+
			"Events do not move this metric in a consistent direction.",
		res.Field, res.Null, res.Mean, res.N, res.Statistic, res.PValue)
}

func describeDirection(res *eventstudy.TestResult) string {
	switch res.Field {
	case eventstudy.FieldVolDelta:
		if res.Mean > res.Null {
			return "Daily noise is higher after events than before"
		}
		return "Daily noise is lower after events than before"
	case eventstudy.FieldRetDelta:
		if res.Mean > res.Null {
			return "Mean returns are higher after events than before"
		}
		return "Mean returns are lower after events than before"
	case eventstudy.FieldImpactRatio:
		if res.Mean > res.Null {
			return "Event-day moves are larger than the trailing baseline"
		}
		return "Event-day moves are smaller than the trailing baseline"
	default:
		return "Direction unclassified"
	}
}

// SignificanceReportLines renders the full significance section: one line
// per tested field plus lines for fields whose test could not run.
func SignificanceReportLines(results []*eventstudy.TestResult, failures map[eventstudy.Field]error, alpha float64) []string {
	lines := []string{"Significance tests (one-sample two-sided t-test):"}
	for _, res := range results {
		lines = append(lines, "  "+SignificanceLine(res, alpha))
	}
	// Fixed field order keeps the report reproducible.
	for _, field := range []eventstudy.Field{
		eventstudy.FieldVolDelta, eventstudy.FieldRetDelta, eventstudy.FieldImpactRatio,
	} {
		if err, ok := failures[field]; ok {
			lines = append(lines, fmt.Sprintf("  %s: test not run: %v", field, err))
		}
	}
	return lines
}
