package calendar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
)

const eventsCacheFile = "events.msgpack"

type cachedCalendar struct {
	FetchedAt time.Time `msgpack:"fetched_at"`
	Events    Calendar  `msgpack:"events"`
}

// CachedProvider wraps a Provider with a read-through disk cache so repeated
// study runs reuse the same calendar snapshot without refetching.
type CachedProvider struct {
	inner Provider
	dir   string
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedProvider caches the inner provider's calendar under dir as a
// msgpack blob, refetching once the cached copy is older than ttl.
// A non-positive ttl keeps cached data forever.
func NewCachedProvider(inner Provider, dir string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, dir: dir, ttl: ttl, now: time.Now}
}

// Events implements Provider.
func (c *CachedProvider) Events(ctx context.Context) (Calendar, error) {
	path := filepath.Join(c.dir, eventsCacheFile)
	if cached, ok := c.load(path); ok {
		return cached, nil
	}

	events, err := c.inner.Events(ctx)
	if err != nil {
		return nil, err
	}
	if storeErr := c.store(path, events); storeErr != nil {
		logx.WithContext(ctx).Errorf("calendar cache: store %s failed: %v", path, storeErr)
	}
	return events, nil
}

func (c *CachedProvider) load(path string) (Calendar, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cachedCalendar
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		logx.Errorf("calendar cache: decode %s failed: %v", path, err)
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, false
	}
	return entry.Events, true
}

func (c *CachedProvider) store(path string, events Calendar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir cache dir: %w", err)
	}
	data, err := msgpack.Marshal(cachedCalendar{FetchedAt: c.now(), Events: events})
	if err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
