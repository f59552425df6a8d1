package eventstudy

import (
	"fmt"
	"time"

	"macrostudy/pkg/series"
)

// Window holds the return slices surrounding one event for one asset.
// Pre and Post shrink near series boundaries; they never pad missing data.
type Window struct {
	Symbol        string
	EventDate     time.Time
	EffectiveDate time.Time

	Pre       []float64
	PreDates  []time.Time
	Post      []float64
	PostDates []time.Time

	// EventDayReturn is the return realized on the effective event day.
	EventDayReturn float64
}

// ExtractWindow slices the up-to-size returns strictly before and after the
// effective event day. When the event date is not a trading day the next
// trading day on record becomes the effective day (forward fill); an event
// date past the end of the series has no usable day and fails with
// ErrEventOutOfRange. A window empty on both sides fails with ErrEmptyWindow.
func ExtractWindow(rs *series.ReturnSeries, eventDate time.Time, size int) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("eventstudy: window size must be positive, got %d", size)
	}
	pos := rs.SearchDate(eventDate)
	if pos >= rs.Len() {
		return nil, fmt.Errorf("%w: %s after last trading day of %s",
			ErrEventOutOfRange, eventDate.Format("2006-01-02"), rs.Symbol)
	}

	preLo := pos - size
	if preLo < 0 {
		preLo = 0
	}
	postHi := pos + 1 + size
	if postHi > rs.Len() {
		postHi = rs.Len()
	}

	w := &Window{
		Symbol:         rs.Symbol,
		EventDate:      eventDate,
		EffectiveDate:  rs.Dates[pos],
		Pre:            rs.Values[preLo:pos],
		PreDates:       rs.Dates[preLo:pos],
		Post:           rs.Values[pos+1 : postHi],
		PostDates:      rs.Dates[pos+1 : postHi],
		EventDayReturn: rs.Values[pos],
	}
	if len(w.Pre) == 0 && len(w.Post) == 0 {
		return nil, fmt.Errorf("%w: %s around %s",
			ErrEmptyWindow, rs.Symbol, eventDate.Format("2006-01-02"))
	}
	return w, nil
}

// TrailingBaseline returns the up-to-n returns ending the day before the
// effective event day for eventDate. The slice never includes the event day
// itself or anything after it, so baseline statistics cannot leak post-event
// information. Shorter histories yield shorter baselines.
func TrailingBaseline(rs *series.ReturnSeries, eventDate time.Time, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("eventstudy: baseline length must be positive, got %d", n)
	}
	pos := rs.SearchDate(eventDate)
	if pos >= rs.Len() {
		return nil, fmt.Errorf("%w: %s after last trading day of %s",
			ErrEventOutOfRange, eventDate.Format("2006-01-02"), rs.Symbol)
	}
	lo := pos - n
	if lo < 0 {
		lo = 0
	}
	return rs.Values[lo:pos], nil
}
