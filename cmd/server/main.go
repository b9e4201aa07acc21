package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/sprayshop/backend/internal/application/billing"
	identityapp "github.com/sprayshop/backend/internal/application/identity"
	inventoryapp "github.com/sprayshop/backend/internal/application/inventory"
	partnerapp "github.com/sprayshop/backend/internal/application/partner"
	reportapp "github.com/sprayshop/backend/internal/application/report"
	"github.com/sprayshop/backend/internal/infrastructure/auth"
	"github.com/sprayshop/backend/internal/infrastructure/config"
	"github.com/sprayshop/backend/internal/infrastructure/logger"
	"github.com/sprayshop/backend/internal/infrastructure/persistence"
	"github.com/sprayshop/backend/internal/infrastructure/realtime"
	"github.com/sprayshop/backend/internal/interfaces/http/handler"
	"github.com/sprayshop/backend/internal/interfaces/http/middleware"
	"github.com/sprayshop/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting spray shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs both token revocation and the change feed
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Change feed: services publish to the broker; the broker feeds the
	// mirror and the SSE hub.
	broker := realtime.NewBroker(redisClient,
		realtime.WithChannel(cfg.Realtime.Channel),
		realtime.WithLogger(log),
	)
	hub := realtime.NewHub(cfg.Realtime.ClientBuffer, log)
	mirror := realtime.NewMirror()

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	go func() {
		err := broker.Subscribe(feedCtx, func(event realtime.ChangeEvent) {
			mirror.Apply(event)
			hub.Broadcast(event)
		})
		if err != nil && feedCtx.Err() == nil {
			log.Error("Change feed subscription ended", zap.Error(err))
		}
	}()
	defer func() {
		if err := broker.Close(); err != nil {
			log.Error("Error closing change feed broker", zap.Error(err))
		}
	}()

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB())
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB())
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB())
	paymentRepo := persistence.NewGormPaymentRepository(db.DB())
	userRepo := persistence.NewGormUserRepository(db.DB())

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, broker, log)
	stockItemService := inventoryapp.NewStockItemService(stockItemRepo, broker, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, paymentRepo, customerService, broker, log)
	dashboardService := reportapp.NewDashboardService(invoiceRepo, stockItemRepo, customerRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, cfg.Auth, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(
			middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}

	// Every route except sign-in, sign-up, refresh, and health requires a
	// valid session token.
	engine.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/signup",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/health",
		},
		Logger: log,
	}))

	// Credential endpoints get their own, stricter limiter.
	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService, authLimiter, &cfg.Cookie)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewInventoryHandler(stockItemService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewDashboardHandler(dashboardService)).
		Register(handler.NewEventsHandler(hub, mirror, cfg.Realtime.HeartbeatInterval, log)).
		Register(handler.NewHealthHandler(db, redisClient, hub))
	r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
