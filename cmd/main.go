package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/cache"
	"github.com/admarket/admarket/internal/config"
	"github.com/admarket/admarket/internal/database"
	"github.com/admarket/admarket/internal/httpapi"
	"github.com/admarket/admarket/internal/jobs"
	"github.com/admarket/admarket/internal/mailer"
	"github.com/admarket/admarket/internal/service"
)

const (
	queueBuffer  = 100
	queueWorkers = 4
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting admarket service", zap.String("environment", cfg.App.Environment))

	// Initialize database connections
	db, err := database.NewDB(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connections", zap.Error(err))
		}
	}()

	// Redis backs the listing and dashboard caches. Development falls
	// back to the in-process cache when Redis is not running.
	var store cache.Cache
	redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		if !cfg.App.IsDevelopment() {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		logger.Warn("redis unavailable, using in-process cache", zap.Error(err))
		store = cache.NewMemoryCache()
	} else {
		store = redisCache
	}

	tokens, err := auth.NewTokenService(cfg.Auth.TokenKey, cfg.Auth.GetTokenTTL())
	if err != nil {
		logger.Fatal("failed to create token service", zap.Error(err))
	}

	accounts := service.NewAccountService(db.Postgres)
	admin := service.NewAdminService(db.Postgres, store, cfg.Redis.GetCacheTTL())
	campaigns := service.NewCampaignService(db.Postgres)
	adRequests := service.NewAdRequestService(db.Postgres)
	dashboard := service.NewDashboardService(db.Postgres, store, cfg.Redis.GetCacheTTL())

	// Background CSV exports run through the in-process queue.
	queue := jobs.NewQueue(queueBuffer, logger)
	exporter := jobs.NewCampaignExporter(db.Postgres, cfg.App.ExportDir)
	queue.Register(jobs.KindExportCampaigns, exporter.Handle)
	queue.Start(queueWorkers)

	// Scheduled mail reports.
	reporter := jobs.NewReporter(db.Postgres, mailer.NewSMTPMailer(cfg.Mail), logger, cfg.App.FrontendURL)
	if err := reporter.Start(); err != nil {
		logger.Fatal("failed to start report scheduler", zap.Error(err))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(httpapi.RequestLogger(logger), gin.Recovery())

	handlers := httpapi.NewHandlers(accounts, admin, campaigns, adRequests, dashboard, queue, tokens, cfg.Auth.GetTokenTTL(), logger)
	handlers.RegisterRoutes(engine)

	// Add health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "admarket", "hostname": hostname})
	})

	// Add database health check endpoint
	engine.GET("/health/db", func(c *gin.Context) {
		if err := db.Postgres.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "postgres unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "connected"})
	})

	// Add Prometheus metrics endpoint
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Create server with configuration optimized for high concurrency
	server := &http.Server{
		Addr:           cfg.Server.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second, // Keep connections alive longer
		MaxHeaderBytes: 1 << 20,           // 1MB
		// Use h2c so we can serve HTTP/2 without TLS
		Handler: h2c.NewHandler(engine, &http2.Server{
			MaxConcurrentStreams: 1000, // Allow more concurrent streams
		}),
	}

	// Start server in goroutine
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	reporter.Stop()
	queue.Stop()

	logger.Info("server exited gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.IsDevelopment() {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.App.LogLevel, err)
	}
	return zcfg.Build()
}
