package mapbox

import (
	"context"

	"github.com/couchcryptid/zhvi-dashboard/internal/cache"
	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/observability"
)

// CachedStaticMap wraps a StaticMapper with an in-memory LRU cache keyed by
// the request's image path.
type CachedStaticMap struct {
	inner   domain.StaticMapper
	cache   *cache.LRU[[]byte]
	metrics *observability.Metrics
}

// NewCachedStaticMap creates a cache decorator around a static mapper.
func NewCachedStaticMap(inner domain.StaticMapper, maxEntries int, metrics *observability.Metrics) *CachedStaticMap {
	return &CachedStaticMap{
		inner:   inner,
		cache:   cache.NewLRU[[]byte](maxEntries, nil),
		metrics: metrics,
	}
}

func (c *CachedStaticMap) StaticMap(ctx context.Context, req domain.StaticMapRequest) ([]byte, error) {
	key := imagePath(req)
	if img, ok := c.cache.Get(key); ok {
		c.metrics.StaticMapCache.WithLabelValues("hit").Inc()
		return img, nil
	}
	c.metrics.StaticMapCache.WithLabelValues("miss").Inc()

	img, err := c.inner.StaticMap(ctx, req)
	if err != nil {
		return nil, err
	}
	// Empty bodies are not cached so the next request can retry.
	if len(img) > 0 {
		c.cache.Put(key, img)
	}
	return img, nil
}
