package cache

import (
	"time"

	"macrostudy/internal/config"
)

// TTLSet normalises input-cache TTLs from config into durations.
type TTLSet struct {
	Prices time.Duration
	Events time.Duration
}

// NewTTLSet converts config TTLs (seconds) into durations. Zero keeps the
// default of one day; negative disables expiry.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Prices: durationOrDefault(cfg.Prices, 24*time.Hour),
		Events: durationOrDefault(cfg.Events, 24*time.Hour),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
