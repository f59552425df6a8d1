package eventstudy

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zeromicro/go-zero/core/mr"

	"macrostudy/pkg/calendar"
	"macrostudy/pkg/series"
)

// Config carries the study parameters. Zero values fall back to the
// documented defaults, so an empty config is usable.
type Config struct {
	// WindowSize is the pre/post window length in trading days.
	WindowSize int `json:",default=5"`
	// BaselineLen is the trailing return history used for the impact ratio.
	BaselineLen int `json:",default=20"`
	// CorrWindow is the pre/post window length for correlation shifts.
	CorrWindow int `json:",default=20"`
	// MinOverlap is the minimum aligned observations per correlation side.
	MinOverlap int `json:",default=3"`
	// Workers bounds the parallel per-event fan-out. 1 forces sequential.
	Workers int `json:",default=4"`
}

// Normalize fills unset fields with defaults and rejects negatives.
func (c *Config) Normalize() error {
	set := func(field *int, def int, name string) error {
		if *field < 0 {
			return fmt.Errorf("eventstudy: %s must not be negative, got %d", name, *field)
		}
		if *field == 0 {
			*field = def
		}
		return nil
	}
	if err := set(&c.WindowSize, 5, "windowSize"); err != nil {
		return err
	}
	if err := set(&c.BaselineLen, 20, "baselineLen"); err != nil {
		return err
	}
	if err := set(&c.CorrWindow, 20, "corrWindow"); err != nil {
		return err
	}
	if err := set(&c.MinOverlap, 3, "minOverlap"); err != nil {
		return err
	}
	return set(&c.Workers, 4, "workers")
}

// Skip reasons surfaced alongside results so a bad event date never voids
// the whole run silently.
const (
	SkipEventOutOfRange = "event_out_of_range"
	SkipEmptyWindow     = "empty_window"
	SkipOther           = "other"
)

// SkipCounts tallies per-reason skipped (event, symbol) computations.
type SkipCounts map[string]int

func (s SkipCounts) add(reason string) {
	s[reason]++
}

func (s SkipCounts) merge(other SkipCounts) {
	for reason, n := range other {
		s[reason] += n
	}
}

// Total returns the overall number of skipped computations.
func (s SkipCounts) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Result is the assembled output of one study run. Metrics are ordered by
// (event date, event type, symbol) and CorrPairs by (event date, event type,
// asset pair) regardless of worker count.
type Result struct {
	Metrics   []Metric
	CorrPairs []CorrPair
	Skips     SkipCounts
}

// Persistence is an optional hook for storing study outputs externally.
// A nil Persistence disables storage.
type Persistence interface {
	SaveMetrics(ctx context.Context, runID string, metrics []Metric) error
	SaveCorrelations(ctx context.Context, runID string, pairs []CorrPair) error
}

// Study evaluates a fixed calendar of events against a fixed set of return
// series. Inputs are treated as read-only for the lifetime of the study, so
// repeated runs over the same data are reproducible.
type Study struct {
	cfg     Config
	returns map[string]*series.ReturnSeries
	symbols []string
	events  calendar.Calendar
}

// New builds a study over the supplied return series and event calendar.
func New(cfg Config, returns map[string]*series.ReturnSeries, events calendar.Calendar) (*Study, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("eventstudy: no return series supplied")
	}
	symbols := make([]string, 0, len(returns))
	for sym := range returns {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	sorted := make(calendar.Calendar, len(events))
	copy(sorted, events)
	sorted.Sort()

	return &Study{cfg: cfg, returns: returns, symbols: symbols, events: sorted}, nil
}

// eventOutcome is the per-event unit of work, tagged with the calendar
// index so parallel output reassembles into the sequential order.
type eventOutcome struct {
	idx     int
	metrics []Metric
	pairs   []CorrPair
	skips   SkipCounts
}

// Run computes metric and correlation tables for every (event, symbol)
// combination. Events are processed in parallel up to cfg.Workers; one
// failed combination records a skip and the run continues.
func (s *Study) Run(ctx context.Context) (*Result, error) {
	if len(s.events) == 0 {
		return &Result{Skips: SkipCounts{}}, nil
	}

	outcomes, err := mr.MapReduce(
		func(source chan<- int) {
			for i := range s.events {
				source <- i
			}
		},
		func(i int, writer mr.Writer[eventOutcome], cancel func(error)) {
			select {
			case <-ctx.Done():
				cancel(ctx.Err())
				return
			default:
			}
			writer.Write(s.processEvent(i))
		},
		func(pipe <-chan eventOutcome, writer mr.Writer[[]eventOutcome], cancel func(error)) {
			collected := make([]eventOutcome, 0, len(s.events))
			for out := range pipe {
				collected = append(collected, out)
			}
			sort.Slice(collected, func(a, b int) bool {
				return collected[a].idx < collected[b].idx
			})
			writer.Write(collected)
		},
		mr.WithWorkers(s.cfg.Workers),
	)
	if err != nil {
		return nil, err
	}

	res := &Result{Skips: SkipCounts{}}
	for _, out := range outcomes {
		res.Metrics = append(res.Metrics, out.metrics...)
		res.CorrPairs = append(res.CorrPairs, out.pairs...)
		res.Skips.merge(out.skips)
	}
	return res, nil
}

// processEvent evaluates one calendar event across all symbols: the metric
// row per symbol plus the cross-asset correlation shift over the wider
// correlation windows.
func (s *Study) processEvent(i int) eventOutcome {
	ev := s.events[i]
	out := eventOutcome{idx: i, skips: SkipCounts{}}

	corrWindows := make(map[string]*Window, len(s.symbols))
	for _, sym := range s.symbols {
		rs := s.returns[sym]

		w, err := ExtractWindow(rs, ev.Date, s.cfg.WindowSize)
		if err != nil {
			out.skips.add(skipReason(err))
			continue
		}
		baseline, err := TrailingBaseline(rs, ev.Date, s.cfg.BaselineLen)
		if err != nil {
			out.skips.add(skipReason(err))
			continue
		}
		m := ComputeMetrics(w, baseline)
		m.EventType = string(ev.Type)
		out.metrics = append(out.metrics, m)

		// The correlation panel uses wider windows; near series edges it can
		// fail where the metric window succeeded. That only drops the symbol
		// from this event's panel.
		if cw, err := ExtractWindow(rs, ev.Date, s.cfg.CorrWindow); err == nil {
			corrWindows[sym] = cw
		}
	}

	pairs := CorrelationShift(corrWindows, s.cfg.MinOverlap)
	for j := range pairs {
		pairs[j].EventType = string(ev.Type)
		pairs[j].EventDate = ev.Date
	}
	out.pairs = pairs
	return out
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrEventOutOfRange):
		return SkipEventOutOfRange
	case errors.Is(err, ErrEmptyWindow):
		return SkipEmptyWindow
	default:
		return SkipOther
	}
}
