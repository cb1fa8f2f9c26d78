package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	redisTimeout = 200 * time.Millisecond

	// Failed logins from one IP tolerated inside failedLoginWindow.
	maxFailedLogins   = 5
	failedLoginWindow = 15 * time.Minute
	loginBlockTime    = time.Hour
)

// RateLimitMiddleware applies rate limiting based on IP address and endpoint
func RateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), redisTimeout)
		defer cancel()

		clientIP := c.ClientIP()
		config := getRateLimitConfig(c.FullPath())

		blocked, err := limiter.IsBlocked(ctx, clientIP)
		if err != nil {
			logger.Error("Failed to check block status", zap.Error(err))
		}
		if blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many failed logins. Your IP has been temporarily blocked.",
			})
			c.Abort()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", clientIP, c.FullPath())
		info, err := limiter.CheckLimit(ctx, key, config)
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))

		if !info.Allowed {
			retryAfter := int(info.RetryAfter.Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

			logger.Warn("Rate limit exceeded",
				zap.String("ip", clientIP),
				zap.String("path", c.FullPath()),
				zap.Int("limit", info.Limit),
			)

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"limit":       info.Limit,
				"retry_after": fmt.Sprintf("%d seconds", retryAfter),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AccountRateLimitMiddleware applies rate limiting per logged-in account. It
// must run after AuthMiddleware.
func AccountRateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("account_id")
		if !exists {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisTimeout)
		defer cancel()

		key := fmt.Sprintf("ratelimit:account:%s:%s", accountID, c.FullPath())
		allowed, err := limiter.Allow(ctx, key, getRateLimitConfig(c.FullPath()))
		if err != nil {
			logger.Error("Account rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			logger.Warn("Account rate limit exceeded",
				zap.Any("account_id", accountID),
				zap.String("path", c.FullPath()),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Account rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitConfig(path string) ratelimit.RateLimitConfig {
	switch path {
	case "/api/v1/auth/login":
		return ratelimit.LoginRateLimit
	case "/api/v1/transactions/transfer", "/api/v1/transactions/loan", "/api/v1/account/close":
		return ratelimit.TransactionRateLimit
	default:
		return ratelimit.GeneralRateLimit
	}
}

// FailedLoginMiddleware blocks an IP after repeated rejected logins, so a pin
// cannot be guessed by cycling through the rate limit window.
func FailedLoginMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() != http.StatusUnauthorized || c.FullPath() != "/api/v1/auth/login" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()

		clientIP := c.ClientIP()
		allowed, err := limiter.Allow(ctx, "failed_login:"+clientIP, ratelimit.RateLimitConfig{
			Requests: maxFailedLogins,
			Window:   failedLoginWindow,
		})
		if err != nil {
			logger.Error("Failed login tracking failed", zap.Error(err))
			return
		}

		if !allowed {
			logger.Warn("Blocking IP after repeated failed logins", zap.String("ip", clientIP))
			if err := limiter.Block(ctx, clientIP, loginBlockTime); err != nil {
				logger.Error("Failed to block IP", zap.Error(err))
			}
		}
	}
}
