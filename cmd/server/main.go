package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	confirmationapp "github.com/coopfin/backend/internal/application/confirmation"
	memberapp "github.com/coopfin/backend/internal/application/member"
	transactionapp "github.com/coopfin/backend/internal/application/transaction"
	"github.com/coopfin/backend/internal/infrastructure/auth"
	"github.com/coopfin/backend/internal/infrastructure/cache"
	"github.com/coopfin/backend/internal/infrastructure/config"
	"github.com/coopfin/backend/internal/infrastructure/logger"
	"github.com/coopfin/backend/internal/infrastructure/payment"
	"github.com/coopfin/backend/internal/infrastructure/persistence"
	"github.com/coopfin/backend/internal/interfaces/http/handler"
	"github.com/coopfin/backend/internal/interfaces/http/middleware"
	"github.com/coopfin/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting cooperative backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)

	// View invalidator: Redis in deployments that run one, in-memory otherwise
	invalidatorType := cache.InvalidatorTypeMemory
	if cfg.Redis.Enabled {
		invalidatorType = cache.InvalidatorTypeRedis
	}
	invalidator, err := cache.NewViewInvalidator(invalidatorType, cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to initialize view invalidator", zap.Error(err))
	}
	defer func() {
		if closer, ok := invalidator.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing view invalidator", zap.Error(err))
			}
		}
	}()
	log.Info("View invalidator initialized", zap.String("type", string(invalidatorType)))

	// Mobile-money gateway adapter
	gateway, err := payment.NewMobileMoneyAdapter(&payment.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize mobile-money gateway", zap.Error(err))
	}

	// Notification chain: settlement first, then the member-facing hub
	notificationHub := handler.NewNotificationHub(log)
	notifier := confirmationapp.NewSettlementNotifier(confirmationapp.SettlementConfig{
		Members:      memberRepo,
		Transactions: transactionRepo,
		Next:         notificationHub,
		Logger:       log,
	})

	// Confirmation poll controller; pollCtx bounds the lifetime of all
	// polling goroutines and is cancelled on shutdown
	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	controller := confirmationapp.NewController(confirmationapp.ControllerConfig{
		Gateway:     gateway,
		Invalidator: invalidator,
		Notifier:    notifier,
		Logger:      log,
	})

	// Application services
	submissionService := transactionapp.NewSubmissionService(transactionapp.SubmissionServiceConfig{
		Members:      memberRepo,
		Transactions: transactionRepo,
		Gateway:      gateway,
		Config: transactionapp.SubmissionConfig{
			AttemptLimit: cfg.Confirmation.MaxAttempts,
			PollInterval: cfg.Confirmation.PollInterval,
			Currency:     cfg.Gateway.Currency,
		},
		Logger: log,
	})
	memberService := memberapp.NewService(memberapp.ServiceConfig{
		Members: memberRepo,
		Logger:  log,
	})

	// Token verification
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	memberHandler := handler.NewMemberHandler(memberService, transactionRepo)
	transactionHandler := handler.NewTransactionHandler(handler.TransactionHandlerConfig{
		Submissions:  submissionService,
		Controller:   controller,
		Transactions: transactionRepo,
		PollCtx:      pollCtx,
		Logger:       log,
	})
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and logging carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(memberHandler).
		Register(transactionHandler).
		Register(notificationHub).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Stop accepting requests first, then stop confirmation polling so
	// in-flight gateway checks resolve or cancel cleanly
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	stopPolling()

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
