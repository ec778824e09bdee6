package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits for key within a fixed window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RedisCounter is a fixed-window counter on INCR/EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// Set expiry on first request in the window
	if count == 1 {
		r.rdb.Expire(ctx, key, window)
	}

	ttl, _ := r.rdb.TTL(ctx, key).Result()
	return count, ttl, nil
}

// RateLimiter limits form submissions per session.
type RateLimiter struct {
	counter   WindowCounter
	maxReqs   int
	windowSec int
}

// NewRateLimiter creates a rate limiter. maxReqs of 0 disables it.
func NewRateLimiter(counter WindowCounter, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{
		counter:   counter,
		maxReqs:   maxReqs,
		windowSec: windowSec,
	}
}

// Handler returns a middleware that calls onLimit instead of the next handler once the
// session is over its budget. Counter failures let the request through.
func (rl *RateLimiter) Handler(onLimit fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.maxReqs <= 0 {
			return c.Next()
		}

		subject := SessionID(c)
		if subject == "" {
			subject = c.IP()
		}
		key := fmt.Sprintf("ratelimit:submit:%s", subject)

		count, ttl, err := rl.counter.Hit(c.Context(), key, time.Duration(rl.windowSec)*time.Second)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(rl.maxReqs)-count)))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

		if int(count) > rl.maxReqs {
			slog.Info("submission rate limited", "subject", subject, "count", count)
			return onLimit(c)
		}

		return c.Next()
	}
}
