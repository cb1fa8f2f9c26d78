package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/darisadam/bankist-server/internal/pkg/logger"
)

// MaintenanceKey holds "true" while the ledger is closed for maintenance.
const MaintenanceKey = "system:maintenance"

var alwaysOpen = map[string]bool{
	"/":        true,
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// MaintenanceMiddleware rejects API calls while the maintenance flag is set
func MaintenanceMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if alwaysOpen[c.Request.URL.Path] {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
		defer cancel()

		val, err := redisClient.Get(ctx, MaintenanceKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			// Fail open so a Redis outage does not take the API down.
			logger.Error("Failed to check maintenance mode", zap.Error(err))
			c.Next()
			return
		}

		if val == "true" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Service under maintenance",
				"message": "The bank is closed for maintenance. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
