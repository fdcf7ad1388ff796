package source

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/llehouerou/tempo/internal/playback"
)

const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 10 * time.Minute
)

// Cached remembers successful resolutions for a while. Failures are not
// cached, so a track that becomes available is picked up on the next try.
type Cached struct {
	next  Resolver
	cache *expirable.LRU[string, string]
}

// NewCached wraps next with an LRU of the given size whose entries expire
// after ttl. Non-positive values select the defaults.
func NewCached(next Resolver, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		next:  next,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *Cached) Resolve(ctx context.Context, t playback.Track) (string, error) {
	key := cacheKey(t)
	if src, ok := c.cache.Get(key); ok {
		return src, nil
	}
	src, err := c.next.Resolve(ctx, t)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, src)
	return src, nil
}

// Forget drops any cached location for t.
func (c *Cached) Forget(t playback.Track) {
	c.cache.Remove(cacheKey(t))
}

// Purge empties the cache.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached locations.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func cacheKey(t playback.Track) string {
	return t.ID + "\x00" + t.UploadID
}
