// Package queries is the cached-fetch layer between page handlers and the
// upstream API. Each view declares a tuple key and a fetch function; results
// stay fresh for a fixed window, and completed mutations invalidate key
// families so list and detail views reconverge.
package queries

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/campushq/portal/internal/metrics"
)

// keySeparator never occurs in identifiers, so joined keys are unambiguous and
// prefix matching on the joined form is exact.
const keySeparator = "\x1f"

// Key identifies one cached query: an ordered tuple of identifiers,
// e.g. {"reservation", "42"}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, keySeparator)
}

// Family is the first element of the key, used as the metrics label.
func (k Key) Family() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache maps keys to fetched values. Guarantees: at most one in-flight fetch
// per unique key, entries are served without refetching inside the freshness
// window, and an invalidated key refetches on its next read regardless of age.
type Cache struct {
	mu      sync.RWMutex
	now     func() time.Time
	ttl     time.Duration
	entries map[string]entry
	group   singleflight.Group
}

func New(ttl time.Duration) *Cache {
	return newCache(ttl, time.Now)
}

func newCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Cache{
		now:     now,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Fetch returns the cached value for key while it is fresh, otherwise runs fn
// and stores the result. Concurrent callers of the same key share one fetch.
// Failed fetches are not stored.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	joined := key.String()

	if value, ok := c.lookup(joined); ok {
		metrics.CacheHit(key.Family())
		return value.(T), nil
	}
	metrics.CacheMiss(key.Family())

	value, err, _ := c.group.Do(joined, func() (any, error) {
		// A concurrent caller may have stored the value while this one
		// waited on the flight group.
		if value, ok := c.lookup(joined); ok {
			return value, nil
		}

		fetched, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[joined] = entry{value: fetched, fetchedAt: c.now()}
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// Invalidate removes the exact key and every key it prefixes. Invalidating an
// absent key is a no-op, so repeated invalidation behaves like a single one.
func (c *Cache) Invalidate(key ...string) {
	joined := Key(key).String()
	prefix := joined + keySeparator

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k == joined || strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) lookup(joined string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[joined]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}
