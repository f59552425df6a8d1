package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"macrostudy/internal/cli"
	"macrostudy/internal/config"
	"macrostudy/internal/svc"
	"macrostudy/pkg/eventstudy"
	"macrostudy/pkg/report"
	"macrostudy/pkg/series"
)

var configFile = flag.String("f", "etc/macrostudy.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc, err := svc.NewServiceContext(*cfg)
	if err != nil {
		logx.Errorf("service context: %v", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, sc); err != nil {
		logx.Errorf("study run failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sc *svc.ServiceContext) error {
	started := time.Now()

	symbols, err := sc.Market.ListSymbols(ctx)
	if err != nil {
		return err
	}
	sort.Strings(symbols)
	logx.Infof("study: %d symbols configured: %v", len(symbols), symbols)

	returns := make(map[string]*series.ReturnSeries, len(symbols))
	for _, sym := range symbols {
		ps, err := sc.Market.DailySeries(ctx, sym)
		if err != nil {
			// A symbol that cannot be materialized narrows the study,
			// it does not abort it.
			logx.Errorf("study: load %s failed, skipping: %v", sym, err)
			continue
		}
		rs := ps.Returns()
		if rs.Len() == 0 {
			logx.Infof("study: %s has no usable returns, skipping", sym)
			continue
		}
		returns[sym] = rs
		logx.Infof("study: %s loaded, %d daily returns", sym, rs.Len())
	}

	events, err := sc.Calendar.Events(ctx)
	if err != nil {
		return err
	}
	events = events.Tail(cfg.RecentEvents)
	logx.Infof("study: %d calendar events in scope", len(events))

	study, err := eventstudy.New(sc.StudyConfig, returns, events)
	if err != nil {
		return err
	}
	res, err := study.Run(ctx)
	if err != nil {
		return err
	}
	logx.Infof("study: %d metric rows, %d correlation pairs, %d skips (%s)",
		len(res.Metrics), len(res.CorrPairs), res.Skips.Total(), time.Since(started))

	metricsPath := filepath.Join(cfg.OutDir, "event_metrics.csv")
	if err := report.WriteMetricsCSV(metricsPath, res.Metrics); err != nil {
		return err
	}
	corrPath := filepath.Join(cfg.OutDir, "corr_pairs.csv")
	if err := report.WriteCorrelationsCSV(corrPath, res.CorrPairs); err != nil {
		return err
	}
	logx.Infof("study: wrote %s and %s", metricsPath, corrPath)

	report.LogLines("medians •", report.MedianSummaryLines(res.Metrics))
	report.LogLines("skips •", report.SkipSummaryLines(res.Skips))

	var results []*eventstudy.TestResult
	failures := make(map[eventstudy.Field]error)
	for _, field := range []eventstudy.Field{
		eventstudy.FieldVolDelta, eventstudy.FieldRetDelta, eventstudy.FieldImpactRatio,
	} {
		tr, err := eventstudy.TestSignificance(res.Metrics, field, field.Null())
		if err != nil {
			failures[field] = err
			continue
		}
		results = append(results, tr)
	}
	sigLines := report.SignificanceReportLines(results, failures, cfg.Alpha)
	sigLines = append(sigLines, report.SkipSummaryLines(res.Skips)...)
	report.LogLines("tests •", sigLines)

	summaryPath := filepath.Join(cfg.OutDir, "significance_summary.txt")
	if err := report.WriteTextReport(summaryPath, sigLines); err != nil {
		return err
	}
	logx.Infof("study: wrote %s", summaryPath)

	if sc.Persistence != nil {
		runID := uuid.NewString()
		if err := sc.Persistence.SaveMetrics(ctx, runID, res.Metrics); err != nil {
			return err
		}
		if err := sc.Persistence.SaveCorrelations(ctx, runID, res.CorrPairs); err != nil {
			return err
		}
		logx.Infof("study: persisted run %s", runID)
	}
	return nil
}
