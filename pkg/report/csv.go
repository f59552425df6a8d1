package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"macrostudy/pkg/eventstudy"
)

const dateLayout = "2006-01-02"

// WriteMetricsCSV writes the tidy per-(event, asset) metric table. Sentinel
// NaN statistics render as empty cells so spreadsheet consumers do not read
// them as zeros.
func WriteMetricsCSV(path string, metrics []eventstudy.Metric) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{
			"symbol", "event", "event_date", "effective_date",
			"pre_vol", "post_vol", "vol_delta",
			"pre_mean", "post_mean", "ret_delta",
			"event_day_ret", "impact_ratio", "pre_n", "post_n",
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, m := range metrics {
			row := []string{
				m.Symbol, m.EventType,
				m.EventDate.Format(dateLayout), m.EffectiveDate.Format(dateLayout),
				cell(m.PreVol), cell(m.PostVol), cell(m.VolDelta),
				cell(m.PreMean), cell(m.PostMean), cell(m.RetDelta),
				cell(m.EventDayReturn), cell(m.ImpactRatio),
				strconv.Itoa(m.PreN), strconv.Itoa(m.PostN),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteCorrelationsCSV writes the per-(event, asset pair) correlation table.
func WriteCorrelationsCSV(path string, pairs []eventstudy.CorrPair) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{
			"event", "event_date", "asset_a", "asset_b",
			"pre_corr", "post_corr", "corr_delta", "pre_n", "post_n",
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, p := range pairs {
			row := []string{
				p.EventType, p.EventDate.Format(dateLayout),
				p.AssetA, p.AssetB,
				cell(p.PreCorr), cell(p.PostCorr), cell(p.CorrDelta),
				strconv.Itoa(p.PreN), strconv.Itoa(p.PostN),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: flush %s: %w", path, err)
	}
	return nil
}

func cell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
