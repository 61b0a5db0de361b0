package fetch

import (
	"context"
	"time"

	"github.com/assetforge/assetforge/pkg/cache"
)

// DefaultTTL is how long fetched content stays fresh in the cache.
const DefaultTTL = 24 * time.Hour

// CachingFetcher wraps a TextFetcher with a cache backend and a retry
// policy. A cache hit skips the network entirely; a miss fetches with
// exponential backoff and stores the result.
type CachingFetcher struct {
	inner TextFetcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachingFetcher wraps inner with the given cache.
// A ttl of 0 falls back to DefaultTTL.
func NewCachingFetcher(inner TextFetcher, c cache.Cache, ttl time.Duration) *CachingFetcher {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &CachingFetcher{inner: inner, cache: c, ttl: ttl}
}

// FetchText returns cached content for the URL if present, otherwise
// fetches it (retrying transient failures) and caches the result.
// Cache errors are not fatal; the fetcher degrades to the network.
func (f *CachingFetcher) FetchText(ctx context.Context, url string) (string, error) {
	key := cache.Hash([]byte(url))

	if data, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		return string(data), nil
	}

	var text string
	err := RetryWithBackoff(ctx, func() error {
		var ferr error
		text, ferr = f.inner.FetchText(ctx, url)
		return ferr
	})
	if err != nil {
		return "", err
	}

	_ = f.cache.Set(ctx, key, []byte(text), f.ttl)
	return text, nil
}

// Ensure CachingFetcher implements TextFetcher.
var _ TextFetcher = (*CachingFetcher)(nil)
