package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/darisadam/bankist-server/internal/domain/session"
	"github.com/darisadam/bankist-server/internal/pkg/jwt"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionValidator resolves a token's session id to a live session.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID uuid.UUID) (*session.Session, error)
}

// AuthMiddleware requires a bearer token whose session is still open. It sets
// "session", "session_id", "account_id" and "username" on the context.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		sess, err := sessions.ValidateSession(c.Request.Context(), claims.SessionID)
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired or logged out"})
			c.Abort()
			return
		}
		if err != nil {
			logger.Error("Session lookup failed",
				zap.String("session_id", claims.SessionID.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			c.Abort()
			return
		}

		c.Set("session", sess)
		c.Set("session_id", sess.ID)
		c.Set("account_id", sess.AccountID)
		c.Set("username", sess.Username)

		c.Next()
	}
}
