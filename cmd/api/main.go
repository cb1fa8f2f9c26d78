package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/darisadam/bankist-server/internal/api"
	"github.com/darisadam/bankist-server/internal/config"
	"github.com/darisadam/bankist-server/internal/pkg/crypto"
	"github.com/darisadam/bankist-server/internal/pkg/jwt"
	"github.com/darisadam/bankist-server/internal/pkg/logger"
	"github.com/darisadam/bankist-server/internal/pkg/metrics"
	"github.com/darisadam/bankist-server/internal/repository"
	"github.com/darisadam/bankist-server/internal/seed"
	"github.com/darisadam/bankist-server/internal/service"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.SetSystemInfo(version, runtime.Version())
	crypto.SetHashCost(cfg.PinHashCost)

	redisClient := connectRedis(cfg.RedisURL)
	db := connectDatabase(cfg.DatabaseURL)

	accountRepo := repository.NewAccountRepository()

	var sessionRepo repository.SessionRepository
	if redisClient != nil {
		sessionRepo = repository.NewRedisSessionRepository(redisClient)
	} else {
		sessionRepo = repository.NewMemorySessionRepository()
	}

	var auditRepo repository.AuditRepository
	if db != nil {
		auditRepo = repository.NewAuditRepository(db)
	} else {
		auditRepo = repository.NewLogAuditRepository()
	}

	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTExpiryHours)

	accountService := service.NewAccountService(accountRepo, sessionRepo, auditRepo)
	sessionService := service.NewSessionService(accountRepo, sessionRepo, auditRepo, jwtService)
	transactionService := service.NewTransactionService(accountRepo, auditRepo)

	seeds, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Fatal("Failed to load seed accounts", zap.Error(err))
	}
	if err := accountService.Initialize(seeds); err != nil {
		logger.Fatal("Failed to initialize ledger", zap.Error(err))
	}

	router := api.NewRouter(api.Dependencies{
		AccountService:     accountService,
		SessionService:     sessionService,
		TransactionService: transactionService,
		JWTService:         jwtService,
		Redis:              redisClient,
		DB:                 db,
		CORSOrigins:        cfg.CORSOrigins,
		Version:            version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.L()),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}

	logger.Info("Server exited")
}

// connectRedis returns nil when Redis is not configured or unreachable, in
// which case sessions live in memory and rate limiting is off.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		logger.Info("REDIS_URL not set, using in-memory sessions")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal("Invalid REDIS_URL", zap.Error(err))
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, using in-memory sessions", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", opts.Addr))
	return client
}

// connectDatabase opens the audit database, or returns nil to log audit
// events instead.
func connectDatabase(databaseURL string) *sql.DB {
	if databaseURL == "" {
		logger.Info("DATABASE_URL not set, audit events go to the log")
		return nil
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Warn("Database unreachable, audit events go to the log", zap.Error(err))
		_ = db.Close()
		return nil
	}

	logger.Info("Connected to audit database")
	return db
}
