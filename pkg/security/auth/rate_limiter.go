package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces limiter counters so they never collide with the
// response cache, which shares the same Redis instance.
const keyPrefix = "buzzmoving:ratelimit:"

// RateLimiter throttles repeated attempts per key (the login route keys on
// client IP + path).
type RateLimiter interface {
	// Allow records one attempt and reports whether it is within the limit,
	// how many attempts remain, and when the window resets.
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
	// WithLimit derives a limiter with a different limit and window.
	WithLimit(maxAttempts int64, window time.Duration) RateLimiter
}

// RedisRateLimiter counts attempts in Redis. The window is anchored at the
// first attempt: the counter expires a full window after the key is first
// seen, not at a wall-clock boundary.
type RedisRateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:      client,
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// WithLimit derives a limiter with a different limit and window.
func (rl *RedisRateLimiter) WithLimit(maxAttempts int64, window time.Duration) RateLimiter {
	return &RedisRateLimiter{
		client:      rl.client,
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// Allow records one attempt for key and reports whether it stays within the
// limit.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	redisKey := keyPrefix + key

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limiter error: %w", err)
	}

	count := incr.Val()
	expiresIn := ttl.Val()
	if count == 1 || expiresIn < 0 {
		// First attempt anchors the window. A counter that somehow lost its
		// expiry is re-anchored instead of counting forever.
		expiresIn = rl.window
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, time.Time{}, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	remaining := rl.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.maxAttempts, int(remaining), time.Now().Add(expiresIn), nil
}

// Reset clears the counter for a key.
func (rl *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Del(ctx, keyPrefix+key).Err()
}
