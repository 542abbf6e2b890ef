package source

import (
	"context"
	"fmt"
	"time"

	"culturepulse/pkg/pulse"
)

// Source supplies articles for one category over a date window. Every provider
// maps its own response shape onto pulse.ArticleSet; the scoring core never
// sees provider-specific types.
type Source interface {
	Name() string
	FetchArticles(ctx context.Context, category string, from, to time.Time) (pulse.ArticleSet, error)
}

// ResponseCache stores fetched article sets between runs.
type ResponseCache interface {
	Get(ctx context.Context, key string) (pulse.ArticleSet, bool, error)
	Put(ctx context.Context, key string, set pulse.ArticleSet) error
}

// Cached wraps a Source with a response cache so repeated runs over the same
// window inside the cache TTL do not re-query the provider.
type Cached struct {
	inner Source
	cache ResponseCache
}

// NewCached creates a caching wrapper around inner.
func NewCached(inner Source, cache ResponseCache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) FetchArticles(ctx context.Context, category string, from, to time.Time) (pulse.ArticleSet, error) {
	key := cacheKey(c.inner.Name(), category, from, to)

	if set, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return set, nil
	}

	set, err := c.inner.FetchArticles(ctx, category, from, to)
	if err != nil {
		return pulse.ArticleSet{}, err
	}

	// A cache write failure only costs a refetch next run.
	_ = c.cache.Put(ctx, key, set)
	return set, nil
}

func cacheKey(provider, category string, from, to time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", provider, category,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}
