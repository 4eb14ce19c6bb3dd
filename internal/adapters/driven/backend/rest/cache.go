package rest

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long reference lookups are reused.
const DefaultCacheTTL = time.Hour

// Cache keys for reference lookups. District codes and transaction data
// are never cached.
const (
	cacheKeyCodes     = "lawd-codes"
	cacheKeyDistricts = "sgg-list:"
)

// referenceCache holds decoded reference responses. A nil cache is disabled.
type referenceCache struct {
	store *cache.Cache
}

func newReferenceCache(ttl time.Duration) *referenceCache {
	if ttl < 0 {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &referenceCache{store: cache.New(ttl, 2*ttl)}
}

func (c *referenceCache) get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.store.Get(key)
}

func (c *referenceCache) set(key string, value any) {
	if c == nil {
		return
	}
	c.store.Set(key, value, cache.DefaultExpiration)
}

// Flush drops every cached lookup.
func (c *referenceCache) flush() {
	if c == nil {
		return
	}
	c.store.Flush()
}
