package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/darisadam/bankist-server/internal/api/handlers"
	"github.com/darisadam/bankist-server/internal/api/middleware"
	"github.com/darisadam/bankist-server/internal/pkg/jwt"
	"github.com/darisadam/bankist-server/internal/pkg/ratelimit"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const ServiceName = "Bankist API"

// Dependencies wires the router. Redis and DB are optional; without Redis the
// rate limit and maintenance middleware are skipped.
type Dependencies struct {
	AccountService     service.AccountService
	SessionService     service.SessionService
	TransactionService service.TransactionService
	JWTService         *jwt.JWTService

	Redis       *redis.Client
	DB          *sql.DB
	CORSOrigins []string
	Version     string
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(deps.CORSOrigins...))
	router.Use(middleware.RequestMetaMiddleware())

	var limiter *ratelimit.RateLimiter
	if deps.Redis != nil {
		limiter = ratelimit.NewRateLimiter(deps.Redis)
		router.Use(middleware.MaintenanceMiddleware(deps.Redis))
		router.Use(middleware.RateLimitMiddleware(limiter))
		router.Use(middleware.FailedLoginMiddleware(limiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/ready", readyHandler(deps))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": ServiceName,
			"version": deps.Version,
			"status":  "operational",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessionHandler := handlers.NewSessionHandler(deps.SessionService)
	accountHandler := handlers.NewAccountHandler(deps.AccountService)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionService)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", sessionHandler.Login)
		v1.GET("/stats", accountHandler.GetBankStats)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTService, deps.SessionService))
		if limiter != nil {
			protected.Use(middleware.AccountRateLimitMiddleware(limiter))
		}

		protected.POST("/auth/logout", sessionHandler.Logout)

		account := protected.Group("/account")
		{
			account.GET("", accountHandler.GetAccount)
			account.GET("/balance", accountHandler.GetBalance)
			account.GET("/summary", accountHandler.GetSummary)
			account.GET("/movements", accountHandler.ListMovements)
			account.POST("/movements/sort", accountHandler.ToggleSort)
			account.POST("/close", accountHandler.CloseAccount)
		}

		transactions := protected.Group("/transactions")
		{
			transactions.POST("/transfer", transactionHandler.Transfer)
			transactions.POST("/loan", transactionHandler.RequestLoan)
		}
	}

	return router
}

func readyHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		ready := true

		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				ready = false
			} else {
				checks["redis"] = "ok"
			}
		}
		if deps.DB != nil {
			if err := deps.DB.PingContext(ctx); err != nil {
				checks["database"] = err.Error()
				ready = false
			} else {
				checks["database"] = "ok"
			}
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "checks": checks})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
	}
}
