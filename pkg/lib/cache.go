package lib

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type cacheEntry[V any] struct {
	value      V
	expiration time.Time
}

// Cache is an in-memory key/value store with a fixed time to live per entry.
type Cache[V any] struct {
	logger  *zerolog.Logger
	entries map[string]cacheEntry[V]
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	loads   singleflight.Group
}

func NewCache[V any](ttl time.Duration, logger *zerolog.Logger) *Cache[V] {
	return &Cache[V]{
		logger:  logger,
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	entry, exists := c.entries[key]
	if !exists {
		return zero, false
	}

	if c.now().After(entry.expiration) {
		return zero, false
	}

	c.logger.Trace().
		Str("key", key).
		Msg("cache hit")

	return entry.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	}
}

// GetOrLoad returns the cached value for key, or calls load once for all concurrent
// callers that miss. Failed loads aren't cached. The bool reports a cache hit.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	loaded, err, shared := c.loads.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}

	c.logger.Trace().
		Str("key", key).
		Bool("shared", shared).
		Msg("cache load")

	return loaded.(V), false, nil
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry[V])
}

func HashParams(params ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(params, ",")))
	return fmt.Sprintf("%x", hash)
}
