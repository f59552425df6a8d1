package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// EventType tags a scheduled macroeconomic release.
type EventType string

const (
	CPI EventType = "CPI"
	NFP EventType = "NFP"
)

// Event is one scheduled release. Value carries the released figure
// (YoY % for CPI, employment level for NFP); the study core only consumes
// Type and Date, Value travels along for reporting.
type Event struct {
	Type  EventType `msgpack:"type"`
	Date  time.Time `msgpack:"date"`
	Value float64   `msgpack:"value"`
}

// Calendar is an ordered sequence of events, sorted by (date, type).
// Within one type, dates are strictly increasing; dates of different types
// may coincide.
type Calendar []Event

// Sort orders the calendar by date, breaking ties by type.
func (c Calendar) Sort() {
	sort.SliceStable(c, func(i, j int) bool {
		if !c[i].Date.Equal(c[j].Date) {
			return c[i].Date.Before(c[j].Date)
		}
		return c[i].Type < c[j].Type
	})
}

// Validate enforces strictly increasing dates per event type. The calendar
// must already be sorted.
func (c Calendar) Validate() error {
	last := make(map[EventType]time.Time)
	for _, ev := range c {
		if prev, ok := last[ev.Type]; ok && !ev.Date.After(prev) {
			return fmt.Errorf("calendar: %s dates not strictly increasing at %s",
				ev.Type, ev.Date.Format("2006-01-02"))
		}
		last[ev.Type] = ev.Date
	}
	return nil
}

// FilterTypes returns the events whose type appears in the keep set.
// An empty keep set returns the calendar unchanged.
func (c Calendar) FilterTypes(keep ...EventType) Calendar {
	if len(keep) == 0 {
		return c
	}
	set := make(map[EventType]struct{}, len(keep))
	for _, t := range keep {
		set[t] = struct{}{}
	}
	out := make(Calendar, 0, len(c))
	for _, ev := range c {
		if _, ok := set[ev.Type]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// Tail returns the most recent n events, or the whole calendar when n <= 0
// or exceeds its length.
func (c Calendar) Tail(n int) Calendar {
	if n <= 0 || n >= len(c) {
		return c
	}
	return c[len(c)-n:]
}

// Provider supplies a macro-event calendar from an external source.
type Provider interface {
	Events(ctx context.Context) (Calendar, error)
}
