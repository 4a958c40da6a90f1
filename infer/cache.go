package infer

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache wraps a Generator with an in-memory TTL cache keyed by prompt text.
// Identical prompts within the TTL reuse the earlier reply instead of hitting
// the endpoint again. Only meaningful against deterministic (temperature 0)
// endpoints; with a positive temperature it flattens the response
// distribution, which is why caching is opt-in.
type Cache struct {
	gen   Generator
	cache *ttlcache.Cache[string, string]
}

// NewCache creates a caching wrapper around gen.
func NewCache(gen Generator, ttl time.Duration) *Cache {
	c := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go c.Start()
	return &Cache{gen: gen, cache: c}
}

// Generate returns the cached reply for prompt, or delegates to the wrapped
// generator and caches the result. Errors are never cached.
func (c *Cache) Generate(ctx context.Context, prompt string) (string, error) {
	if item := c.cache.Get(prompt); item != nil {
		return item.Value(), nil
	}

	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Set(prompt, text, ttlcache.DefaultTTL)
	return text, nil
}

// Close stops the cache expiration loop.
func (c *Cache) Close() {
	c.cache.Stop()
}
