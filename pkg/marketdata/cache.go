package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"

	"macrostudy/pkg/series"
)

type cachedSeries struct {
	FetchedAt time.Time          `msgpack:"fetched_at"`
	Series    series.PriceSeries `msgpack:"series"`
}

// CachedProvider wraps a Provider with a read-through disk cache of daily
// series, one msgpack file per symbol, so repeated study runs reuse the same
// raw inputs. Invalidation is purely TTL-based; the study core never writes.
type CachedProvider struct {
	inner Provider
	dir   string
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedProvider caches the inner provider's series under dir,
// refetching once a cached copy is older than ttl. A non-positive ttl keeps
// cached data forever.
func NewCachedProvider(inner Provider, dir string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, dir: dir, ttl: ttl, now: time.Now}
}

// SeriesCacheFile maps a symbol to its cache file name, mirroring the
// symbol notation with dots flattened: SPY.US -> SPY_US_daily.msgpack.
func SeriesCacheFile(symbol string) string {
	return strings.ReplaceAll(symbol, ".", "_") + "_daily.msgpack"
}

// DailySeries implements Provider.
func (c *CachedProvider) DailySeries(ctx context.Context, symbol string) (*series.PriceSeries, error) {
	path := filepath.Join(c.dir, SeriesCacheFile(symbol))
	if cached, ok := c.load(path); ok {
		return cached, nil
	}

	s, err := c.inner.DailySeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if storeErr := c.store(path, s); storeErr != nil {
		logx.WithContext(ctx).Errorf("market cache: store %s failed: %v", path, storeErr)
	}
	return s, nil
}

// ListSymbols implements Provider by delegating to the inner provider.
func (c *CachedProvider) ListSymbols(ctx context.Context) ([]string, error) {
	return c.inner.ListSymbols(ctx)
}

func (c *CachedProvider) load(path string) (*series.PriceSeries, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cachedSeries
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		logx.Errorf("market cache: decode %s failed: %v", path, err)
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, false
	}
	return &entry.Series, true
}

func (c *CachedProvider) store(path string, s *series.PriceSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir cache dir: %w", err)
	}
	data, err := msgpack.Marshal(cachedSeries{FetchedAt: c.now(), Series: *s})
	if err != nil {
		return fmt.Errorf("encode series %s: %w", s.Symbol, err)
	}
	return os.WriteFile(path, data, 0o644)
}
