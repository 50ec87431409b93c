package imagery

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/sentinel-audit/sentinel/internal/cache"
)

// CachedBackend wraps a Backend with a response cache. Within the audit
// window identical queries are deterministic on the provider side, so
// cached statistics are as good as fresh ones.
type CachedBackend struct {
	inner Backend
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedBackend wraps the backend with the given cache.
func NewCachedBackend(inner Backend, c cache.Cache, ttl time.Duration) *CachedBackend {
	return &CachedBackend{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

// Count returns the cached image count, falling through to the backend.
func (b *CachedBackend) Count(ctx context.Context, q Query) (int, error) {
	key, ok := b.key("count", q)
	if ok {
		if data, found := b.cache.Get(key); found {
			if n, err := strconv.Atoi(string(data)); err == nil {
				return n, nil
			}
		}
	}

	n, err := b.inner.Count(ctx, q)
	if err != nil {
		return 0, err
	}
	if ok {
		_ = b.cache.Set(key, []byte(strconv.Itoa(n)), b.ttl)
	}
	return n, nil
}

// Reduce returns the cached statistic, falling through to the backend.
func (b *CachedBackend) Reduce(ctx context.Context, q Query, r Reduction) (float64, error) {
	key, ok := b.key("reduce", reduceRequest{Query: q, Reduction: r})
	if ok {
		if data, found := b.cache.Get(key); found {
			if v, err := strconv.ParseFloat(string(data), 64); err == nil {
				return v, nil
			}
		}
	}

	v, err := b.inner.Reduce(ctx, q, r)
	if err != nil {
		return 0, err
	}
	if ok {
		_ = b.cache.Set(key, []byte(strconv.FormatFloat(v, 'g', -1, 64)), b.ttl)
	}
	return v, nil
}

// ThumbURL is not cached: thumbnail URLs are signed and expire on the
// provider side.
func (b *CachedBackend) ThumbURL(ctx context.Context, q Query, v Visualization) (string, error) {
	return b.inner.ThumbURL(ctx, q, v)
}

func (b *CachedBackend) key(op string, payload any) (string, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	return cache.Key(op, data), true
}
