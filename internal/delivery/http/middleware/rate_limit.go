package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-notice-backend/internal/delivery/http/response"
	"go-notice-backend/pkg/logger"
	"go-notice-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// KeyFunc extracts the bucket key (default: client IP)
	KeyFunc func(*gin.Context) string
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

var (
	rateLimitStore sync.Map
	cleanupOnce    sync.Once
)

// Atomic increment with TTL set on first hit.
// KEYS[1] = counter key, ARGV[1] = TTL seconds.
// Returns [current_count, ttl_remaining].
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

func startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			now := time.Now()
			rateLimitStore.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rateLimitStore.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}

// DefaultRateLimitConfig returns sensible defaults for API rate limiting
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimit counts requests per key in Redis, falling back to an in-process
// store when Redis is unavailable (fail open: availability over strictness
// for a read-mostly API).
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(startCleanup)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var count int
		var retryAfter time.Duration

		if rdb := redis.Client(); rdb != nil {
			redisCount, ttl, err := incrRedis(c.Request.Context(), rdb, key, cfg.Window)
			if err != nil {
				logger.Log.Warn("rate limit redis error, using in-memory fallback", "error", err)
				count, retryAfter = incrMemory(key, cfg.Window)
			} else {
				count, retryAfter = redisCount, ttl
			}
		} else {
			count, retryAfter = incrMemory(key, cfg.Window)
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > cfg.Limit {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please slow down.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrRedis(ctx context.Context, rdb *goredis.Client, key string, window time.Duration) (int, time.Duration, error) {
	res, err := rdb.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, 0, err
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return 0, 0, goredis.Nil
	}
	count, _ := vals[0].(int64)
	ttl, _ := vals[1].(int64)
	return int(count), time.Duration(ttl) * time.Second, nil
}

func incrMemory(key string, window time.Duration) (int, time.Duration) {
	now := time.Now()
	actual, _ := rateLimitStore.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := actual.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, time.Until(entry.resetAt)
}
