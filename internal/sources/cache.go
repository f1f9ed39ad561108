package sources

import (
	"context"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	gocache "github.com/patrickmn/go-cache"
)

// CachedAdapter reuses a source's listings for the same query within ttl.
type CachedAdapter struct {
	adapter Adapter
	cache   *gocache.Cache
}

func NewCachedAdapter(adapter Adapter, ttl time.Duration) *CachedAdapter {
	return &CachedAdapter{adapter: adapter, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedAdapter) ID() entities.SourceID {
	return c.adapter.ID()
}

func (c *CachedAdapter) FetchListings(ctx context.Context, query Query) []entities.Listing {
	key := query.cacheKey()
	if cached, found := c.cache.Get(key); found {
		return cached.([]entities.Listing)
	}

	listings := c.adapter.FetchListings(ctx, query)
	// empty results are usually a failed fetch, retry next time
	if len(listings) > 0 {
		c.cache.SetDefault(key, listings)
	}
	return listings
}
