package redis

import (
	"context"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

type countCache struct {
	client goredis.Cmdable
	prefix string
}

// NewCountCache stores counters under prefix+key. Redis errors degrade to cache misses.
func NewCountCache(client goredis.Cmdable, prefix string) domain.CountCache {
	return &countCache{client: client, prefix: prefix}
}

func (c *countCache) Get(ctx context.Context, key string) (int64, bool) {
	n, err := c.client.Get(ctx, c.prefix+key).Int64()
	if err != nil {
		if err != goredis.Nil {
			logger.Log.Warn("count cache read failed", "key", key, "error", err)
		}
		return 0, false
	}
	return n, true
}

func (c *countCache) Set(ctx context.Context, key string, value int64, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		logger.Log.Warn("count cache write failed", "key", key, "error", err)
	}
}

func (c *countCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		logger.Log.Warn("count cache invalidate failed", "key", key, "error", err)
	}
}
