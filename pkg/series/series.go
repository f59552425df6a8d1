package series

import (
	"fmt"
	"sort"
	"time"
)

// Point is a single daily close observation.
type Point struct {
	Date  time.Time `msgpack:"date"`
	Close float64   `msgpack:"close"`
}

// PriceSeries is the ordered daily close history for one asset symbol.
// Dates are strictly increasing with no duplicates and closes are strictly
// positive; Validate enforces both.
type PriceSeries struct {
	Symbol string  `msgpack:"symbol"`
	Points []Point `msgpack:"points"`
}

// Day normalises a calendar date to UTC midnight, the canonical form used
// for all trading dates in the module.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Validate checks ordering, duplicate, and positive-close invariants.
func (s *PriceSeries) Validate() error {
	if s == nil {
		return fmt.Errorf("series: nil price series")
	}
	for i, p := range s.Points {
		if p.Close <= 0 {
			return fmt.Errorf("series %s: non-positive close %g on %s",
				s.Symbol, p.Close, p.Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		prev := s.Points[i-1].Date
		if !p.Date.After(prev) {
			return fmt.Errorf("series %s: dates not strictly increasing at index %d (%s >= %s)",
				s.Symbol, i, prev.Format("2006-01-02"), p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Returns derives the daily simple-return series, always one element shorter
// than the price series: ret[i] = close[i+1]/close[i] - 1. The first trading
// date carries no defined return and is dropped. The series must satisfy
// Validate; positive closes keep every division well defined.
func (s *PriceSeries) Returns() *ReturnSeries {
	rs := &ReturnSeries{Symbol: s.Symbol}
	if len(s.Points) < 2 {
		return rs
	}
	rs.Dates = make([]time.Time, 0, len(s.Points)-1)
	rs.Values = make([]float64, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		rs.Dates = append(rs.Dates, s.Points[i].Date)
		rs.Values = append(rs.Values, s.Points[i].Close/s.Points[i-1].Close-1)
	}
	return rs
}

// Scale returns a copy of the series with every close multiplied by k.
func (s *PriceSeries) Scale(k float64) *PriceSeries {
	out := &PriceSeries{Symbol: s.Symbol, Points: make([]Point, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = Point{Date: p.Date, Close: p.Close * k}
	}
	return out
}

// ReturnSeries is the ordered daily return history for one asset symbol.
// Dates and Values run in lockstep, oldest first. Read-only once built.
type ReturnSeries struct {
	Symbol string
	Dates  []time.Time
	Values []float64
}

// Len reports the number of return observations.
func (r *ReturnSeries) Len() int {
	return len(r.Values)
}

// SearchDate returns the index of the first trading date on or after d,
// which equals len(Dates) when every date precedes d.
func (r *ReturnSeries) SearchDate(d time.Time) int {
	return sort.Search(len(r.Dates), func(i int) bool {
		return !r.Dates[i].Before(d)
	})
}
