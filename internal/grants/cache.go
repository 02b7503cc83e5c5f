package grants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "grants:"

// Cache is a read-through Redis cache in front of a Loader. Revocation of a
// grant or wedding link takes effect within the TTL; token deactivation is
// unaffected because the token row itself is read on every request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	loader Loader
}

// NewCache wraps loader with a Redis cache.
func NewCache(client *redis.Client, ttl time.Duration, loader Loader) *Cache {
	return &Cache{client: client, ttl: ttl, loader: loader}
}

// Load returns the cached grant set, populating it on miss. Cache failures
// fall back to the loader.
func (c *Cache) Load(ctx context.Context, tokenID string) (GrantSet, error) {
	if c.client == nil {
		return c.loader.Load(ctx, tokenID)
	}

	key := cacheKeyPrefix + tokenID
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var set GrantSet
		if err := json.Unmarshal(payload, &set); err == nil {
			return set, nil
		}
	} else if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
		// Degrade to the loader on cache trouble rather than failing the request.
		return c.loader.Load(ctx, tokenID)
	}

	set, err := c.loader.Load(ctx, tokenID)
	if err != nil {
		return GrantSet{}, err
	}
	if encoded, err := json.Marshal(set); err == nil {
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return set, nil
}

// Invalidate drops the cached grant set for a token.
func (c *Cache) Invalidate(ctx context.Context, tokenID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKeyPrefix+tokenID).Err()
}

var _ Loader = (*Cache)(nil)
