package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"macrostudy/pkg/eventstudy"
	"macrostudy/pkg/series"
)

// MedianSummaryLines renders median vol/ret deltas and impact ratios per
// (symbol, event type), sentinel entries excluded. Groups come out in
// lexicographic order for stable console output.
func MedianSummaryLines(metrics []eventstudy.Metric) []string {
	type group struct {
		volDeltas    []float64
		retDeltas    []float64
		impactRatios []float64
	}
	groups := make(map[string]*group)
	for _, m := range metrics {
		key := m.Symbol + " (" + m.EventType + ")"
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.volDeltas = append(g.volDeltas, m.VolDelta)
		g.retDeltas = append(g.retDeltas, m.RetDelta)
		g.impactRatios = append(g.impactRatios, m.ImpactRatio)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		lines = append(lines, fmt.Sprintf(
			"%s: median vol_delta=%s ret_delta=%s impact_ratio=%s n=%d",
			key,
			medianCell(g.volDeltas),
			medianCell(g.retDeltas),
			medianCell(g.impactRatios),
			len(g.volDeltas),
		))
	}
	return lines
}

func medianCell(vals []float64) string {
	finite := series.Finite(vals)
	if len(finite) == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", series.Median(finite))
}

// SkipSummaryLines renders the per-reason skip counts, empty when nothing
// was skipped.
func SkipSummaryLines(skips eventstudy.SkipCounts) []string {
	if skips.Total() == 0 {
		return nil
	}
	reasons := make([]string, 0, len(skips))
	for reason := range skips {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	lines := make([]string, 0, len(reasons)+1)
	lines = append(lines, fmt.Sprintf("Skipped %d event/asset computations:", skips.Total()))
	for _, reason := range reasons {
		lines = append(lines, fmt.Sprintf("  %s: %d", reason, skips[reason]))
	}
	return lines
}

// LogLines emits lines through logx with a shared prefix.
func LogLines(prefix string, lines []string) {
	for _, line := range lines {
		logx.Infof("%s %s", prefix, line)
	}
}

// WriteTextReport joins lines into a plain-text file under path.
func WriteTextReport(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: mkdir for %s: %w", path, err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
