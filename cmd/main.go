package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"featuredflags/cache"
	"featuredflags/config"
	"featuredflags/controller"
	"featuredflags/handler"
	"featuredflags/migrations"
	"featuredflags/pkg/logger"
	"featuredflags/pkg/metrics"
	"featuredflags/repository"
	"featuredflags/service"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Mode)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Infow("Starting FeaturedFlags service",
		"version", "1.0.0",
		"port", cfg.HTTPServer.Port,
		"log_level", cfg.Logger.Level,
		"log_mode", cfg.Logger.Mode,
	)

	// Connect to database
	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	log.Infow("Database connected successfully",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	// Run migrations
	if err := migrations.RunMigrations(db.DB, "./migrations"); err != nil {
		log.Fatalw("Failed to run database migrations", "error", err)
	}

	log.Infow("Database migrations completed successfully")

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	probes := []handler.Probe{
		{Name: "database", Critical: true, Check: db.PingContext},
	}

	// Cache is optional: evaluation keeps working from the store without it
	var flagCache cache.Cache
	if cfg.Redis.Enabled {
		redisClient := connectRedis(cfg)
		defer redisClient.Close()

		redisCache := cache.NewRedisCache(redisClient, cfg.Cache.Namespace)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Warnw("Redis unavailable at startup, evaluations will fall back to the store", "error", err, "addr", cfg.Redis.Addr)
		}
		probes = append(probes, handler.Probe{Name: "redis", Critical: false, Check: redisCache.Ping})

		flagCache = redisCache
		if cfg.Cache.CircuitBreaker.Enabled {
			flagCache = cache.NewCircuitBreakerCache(redisCache, breakerConfig(cfg.Cache.CircuitBreaker))
		}
		log.Infow("Redis cache enabled", "addr", cfg.Redis.Addr, "namespace", cfg.Cache.Namespace)
	}

	var opts []service.Option
	if cfg.Evaluation.FixedTime != nil {
		opts = append(opts, service.WithFixedTime(*cfg.Evaluation.FixedTime))
		log.Warnw("Evaluation time is pinned", "at", cfg.Evaluation.FixedTime)
	}

	// Initialize repositories
	ruleRepo := repository.NewRuleRepository(db)

	// Initialize services
	flags := service.NewFeaturedFlags(ruleRepo, flagCache, log, opts...)

	// Initialize controllers
	evaluationController := controller.NewEvaluationController(flags, log)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Register routes
	handler.RegisterRoutes(e, evaluationController, cfg, log, probes...)

	// Start server in a goroutine
	serverAddr := fmt.Sprintf(":%d", cfg.HTTPServer.Port)
	go func() {
		log.Infow("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Application.GracefulShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Errorw("Failed to shutdown server gracefully", "error", err)
		os.Exit(1)
	}

	log.Infow("Server shutdown completed successfully")
}

func connectDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func connectRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
}

func breakerConfig(cfg config.CircuitBreaker) cache.BreakerConfig {
	bc := cache.DefaultBreakerConfig("redis-flags")
	if cfg.MaxRequests > 0 {
		bc.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		bc.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		bc.Timeout = cfg.Timeout
	}
	if cfg.MinRequests > 0 {
		bc.MinRequests = cfg.MinRequests
	}
	if cfg.FailureRatio > 0 {
		bc.FailureRatio = cfg.FailureRatio
	}
	return bc
}
