package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

type RateLimitConfig struct {
	Requests int           // Number of requests allowed
	Window   time.Duration // Time window
}

var (
	// Login is the only place a pin is guessed
	LoginRateLimit = RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
	}

	// Transfers, loans and account closing
	TransactionRateLimit = RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	}

	GeneralRateLimit = RateLimitConfig{
		Requests: 100,
		Window:   time.Minute,
	}
)

type RateLimitInfo struct {
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	Reset      time.Time     `json:"reset"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
	Allowed    bool          `json:"allowed"`
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		client: redisClient,
	}
}

// Allow reports whether one more request fits in the window.
func (rl *RateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	info, err := rl.CheckLimit(ctx, key, config)
	if err != nil {
		return false, err
	}
	return info.Allowed, nil
}

// CheckLimit records the request in a sliding window kept as a sorted set
// scored by unix millis, and reports the state of the window.
func (rl *RateLimiter) CheckLimit(ctx context.Context, key string, config RateLimitConfig) (*RateLimitInfo, error) {
	now := time.Now()
	windowStart := now.Add(-config.Window)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, config.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(countCmd.Val())
	info := &RateLimitInfo{
		Limit:     config.Requests,
		Remaining: max(config.Requests-count-1, 0),
		Reset:     now.Add(config.Window),
		Allowed:   count < config.Requests,
	}

	if !info.Allowed {
		info.RetryAfter = config.Window
		if oldest := oldestCmd.Val(); len(oldest) > 0 {
			expires := time.UnixMilli(int64(oldest[0].Score)).Add(config.Window)
			if wait := expires.Sub(now); wait > 0 {
				info.RetryAfter = wait
			}
			info.Reset = expires
		}
	}

	return info, nil
}

// Block temporarily blocks a key
func (rl *RateLimiter) Block(ctx context.Context, key string, duration time.Duration) error {
	return rl.client.Set(ctx, blockKey(key), "1", duration).Err()
}

// IsBlocked checks if a key is blocked
func (rl *RateLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	n, err := rl.client.Exists(ctx, blockKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func blockKey(key string) string {
	return "blocked:" + key
}
