package middleware

import (
	"github.com/darisadam/bankist-server/internal/domain/audit"
	"github.com/gin-gonic/gin"
)

// RequestMetaMiddleware puts the client ip and user agent on the request
// context so audit events can record who made the call.
func RequestMetaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithRequestMeta(c.Request.Context(), audit.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
