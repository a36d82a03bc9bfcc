package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "redink/internal/platform/redis"
)

// RedisCache caches resolved share bundles in redis under a TTL. Share
// pages are read-heavy and their bundles change only on annotation upserts
// and document deletes, both of which invalidate explicitly.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(token string) string {
	return "redink:share:" + token
}

// Get returns the cached bundle for a token. Any redis or decode failure
// is treated as a miss; the cache never blocks resolution.
func (c *RedisCache) Get(ctx context.Context, token string) (*Bundle, bool) {
	raw, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		return nil, false
	}
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		c.logger.WarnContext(ctx, "dropping undecodable cached share bundle", "error", err)
		c.client.Del(ctx, cacheKey(token))
		return nil, false
	}
	return &bundle, true
}

// Set stores a bundle under its token. Failures are logged and ignored.
func (c *RedisCache) Set(ctx context.Context, token string, bundle *Bundle) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode share bundle for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(token), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache share bundle", "error", err)
	}
}

// Invalidate drops the cached bundle for a token.
func (c *RedisCache) Invalidate(ctx context.Context, token string) {
	if err := c.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate share bundle", "token", token, "error", err)
	}
}
