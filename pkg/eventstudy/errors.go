package eventstudy

import "errors"

// Per-event failures. Each aborts only the affected (event, symbol)
// computation; the study run records a skip and continues.
var (
	// ErrEventOutOfRange means the series has no trading day on or after
	// the event date, so no effective event day exists.
	ErrEventOutOfRange = errors.New("eventstudy: event date beyond series range")

	// ErrEmptyWindow means both the pre and post windows came up empty.
	ErrEmptyWindow = errors.New("eventstudy: empty pre and post windows")

	// ErrInsufficientSample means a significance test retained fewer than
	// two valid observations.
	ErrInsufficientSample = errors.New("eventstudy: insufficient valid samples")
)
