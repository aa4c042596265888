package collector

import (
	"sync"
	"time"

	"TickerVault/internal/model"
)

// DefaultMetadataTTL bounds how long company metadata is served from
// memory. Company info moves slowly; 10 minutes keeps repeated update
// cycles from hammering the metadata endpoint.
const DefaultMetadataTTL = 10 * time.Minute

// MetaCache wraps a Fetcher and memoizes FetchMetadata per symbol with an
// explicit TTL. It replaces the original implicit process-wide caching
// with a stated expiry. Bar fetches pass through uncached — bars are the
// thing being refreshed.
type MetaCache struct {
	Fetcher

	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]metaEntry
	now     func() time.Time
}

type metaEntry struct {
	meta      *model.Metadata
	expiresAt time.Time
}

// NewMetaCache wraps fetcher with a metadata cache. A non-positive ttl
// falls back to DefaultMetadataTTL.
func NewMetaCache(fetcher Fetcher, ttl time.Duration) *MetaCache {
	if ttl <= 0 {
		ttl = DefaultMetadataTTL
	}
	return &MetaCache{
		Fetcher: fetcher,
		ttl:     ttl,
		entries: make(map[string]metaEntry),
		now:     time.Now,
	}
}

// FetchMetadata serves from memory while the entry is fresh. Failures are
// not cached: the next cycle retries the source.
func (c *MetaCache) FetchMetadata(symbol string) (*model.Metadata, error) {
	c.mu.Lock()
	if e, ok := c.entries[symbol]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.meta, nil
	}
	c.mu.Unlock()

	meta, err := c.Fetcher.FetchMetadata(symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[symbol] = metaEntry{meta: meta, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return meta, nil
}
