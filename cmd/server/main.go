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
	"go.uber.org/zap"

	"github.com/shopassist/backend/internal/application/compliance"
	conversationapp "github.com/shopassist/backend/internal/application/conversation"
	"github.com/shopassist/backend/internal/domain/shared"
	"github.com/shopassist/backend/internal/infrastructure/cache"
	"github.com/shopassist/backend/internal/infrastructure/config"
	"github.com/shopassist/backend/internal/infrastructure/logger"
	"github.com/shopassist/backend/internal/infrastructure/persistence"
	"github.com/shopassist/backend/internal/infrastructure/platform"
	"github.com/shopassist/backend/internal/infrastructure/telemetry"
	"github.com/shopassist/backend/internal/interfaces/http/handler"
	"github.com/shopassist/backend/internal/interfaces/http/middleware"
	"github.com/shopassist/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ShopAssist backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with GORM logging routed through zap
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Telemetry (no-op providers when disabled)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	var complianceMetrics *telemetry.ComplianceMetrics
	if meterProvider.IsEnabled() {
		complianceMetrics, err = telemetry.NewComplianceMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to initialize compliance metrics", zap.Error(err))
		}
	}

	dbTracingCfg := telemetry.DefaultDBTracingConfig()
	dbTracingCfg.Enabled = cfg.Telemetry.Enabled
	if err := telemetry.NewDBTracing(dbTracingCfg, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Delivery replay store: Redis when configured, otherwise per-process memory
	var replayStore shared.DeliveryReplayStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisReplayStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		replayStore = redisStore
		log.Info("Using Redis delivery replay store",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		replayStore = cache.NewInMemoryReplayStore()
		log.Info("Using in-memory delivery replay store")
	}
	defer func() {
		if err := replayStore.Close(); err != nil {
			log.Error("Failed to close replay store", zap.Error(err))
		}
	}()

	// Repositories
	profileRepo := persistence.NewGormUserProfileRepository(db.DB)
	sessionRepo := persistence.NewGormChatSessionRepository(db.DB)
	messageRepo := persistence.NewGormChatMessageRepository(db.DB)
	snapshotRepo := persistence.NewGormUsageSnapshotRepository(db.DB)
	redactionRepo := persistence.NewGormRedactionRepository(db)
	auditRepo := persistence.NewGormWebhookAuditRepository(db.DB)
	accountRepo := persistence.NewGormShopAccountRepository(db.DB)

	// Platform primitives
	signatureVerifier := platform.NewSignatureVerifier(cfg.Platform.WebhookSecret, log)
	freshnessGuard := platform.NewFreshnessGuard(cfg.Platform.FreshnessWindow, log)
	tokenValidator := platform.NewSessionTokenValidator(cfg.Platform.APIKey, cfg.Platform.APISecret)

	// Application services
	redactionService := compliance.NewRedactionService(redactionRepo, auditRepo, complianceMetrics, log)
	webhookService := compliance.NewWebhookService(
		signatureVerifier,
		freshnessGuard,
		replayStore,
		shared.ReplayConfig{
			TTL:     cfg.Platform.FreshnessWindow,
			Enabled: cfg.Platform.ReplayProtection,
		},
		redactionService,
		accountRepo,
		auditRepo,
		complianceMetrics,
		log,
	)
	auditService := compliance.NewAuditService(auditRepo)
	conversationService := conversationapp.NewService(profileRepo, sessionRepo, messageRepo, snapshotRepo, log)

	// HTTP handlers
	webhookHandler := handler.NewWebhookHandler(webhookService)
	auditHandler := handler.NewAuditHandler(auditService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	analyticsHandler := handler.NewAnalyticsHandler(conversationService)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxWebhookBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       true,
		}))
	}

	// Liveness endpoint outside API versioning for load balancers
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes. Webhooks authenticate by signature and system routes are
	// public; the admin group requires a valid session token.
	admin := router.NewDomainGroup("admin", "")
	admin.Use(middleware.SessionAuth(tokenValidator))
	admin.Mount(auditHandler).Mount(conversationHandler).Mount(analyticsHandler)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(webhookHandler).
		Register(systemHandler).
		Register(admin)
	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down meter provider", zap.Error(err))
	}

	log.Info("Server exited")
}
