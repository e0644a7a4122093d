package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
}

// RateLimiter counts requests in Redis when a client is configured and falls
// back to process memory otherwise, or when Redis errors (fail open).
type RateLimiter struct {
	client goredis.Cmdable
	mu     sync.Mutex
	local  map[string]*rateLimitEntry
	now    func() time.Time
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// NewRateLimiter accepts a nil client for memory-only operation.
func NewRateLimiter(client goredis.Cmdable) *RateLimiter {
	return &RateLimiter{
		client: client,
		local:  make(map[string]*rateLimitEntry),
		now:    time.Now,
	}
}

// WaitlistRateLimitConfig limits waitlist signups per IP.
func WaitlistRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:waitlist:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// GlobalRateLimitConfig applies to every API route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// Middleware creates a rate limiting middleware with the given config.
func (l *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rl:ip:"
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		count, resetAt := l.hit(c.Request.Context(), fullKey, config.Window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Warn("Rate limit triggered", "ip", c.ClientIP(), "path", c.FullPath(), "key_prefix", config.KeyPrefix)
			security.Default().LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.Request.UserAgent(), c.GetString("RequestID"), c.FullPath())
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func (l *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int, time.Time) {
	if l.client != nil {
		count, resetAt, err := l.hitRedis(ctx, key, window)
		if err == nil {
			return count, resetAt
		}
		logger.Log.Warn("Rate limit: redis unavailable, using memory", "error", err)
	}
	return l.hitLocal(key, window)
}

func (l *RateLimiter) hitRedis(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	ttlSeconds := int(window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rateLimitScript.Run(ctx, l.client, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *RateLimiter) hitLocal(key string, window time.Duration) (int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.local[key]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(window)}
		l.local[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt
}

// Sweep drops expired in-memory counters.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, e := range l.local {
		if now.After(e.resetAt) {
			delete(l.local, k)
		}
	}
}
