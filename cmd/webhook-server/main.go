// cmd/webhook-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"plan-advisor/internal/advisor"
	"plan-advisor/internal/catalog"
	"plan-advisor/internal/common/config"
	"plan-advisor/internal/common/database"
	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/common/observability"
	"plan-advisor/internal/webhook"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting webhook server...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry; the catalog loader degrades to direct
	// fetches if Redis stays down, so a failure here is not fatal. ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, catalog caching disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Catalog source: HTTP when a URL is configured, local file otherwise ---
	var source catalog.Source
	if cfg.Catalog.URL != "" {
		source = catalog.NewHTTPSource(cfg.Catalog.URL, time.Duration(cfg.Catalog.FetchTimeout)*time.Second)
	} else {
		fileSource, err := catalog.NewFileSource(cfg.Catalog.FilePath, log)
		if err != nil {
			zapLog.Fatal("catalog file source failed", zap.Error(err))
		}
		defer fileSource.Close()
		source = fileSource
	}

	loader := newLoader(source, rdb, cfg, log)

	engine := advisor.NewEngine(loader, advisor.Options{
		MaxAlternatives: cfg.Pipeline.MaxAlternatives,
		PageSize:        cfg.Pipeline.PageSize,
	}, obs, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if cfg.Server.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	}

	webhook.NewHandler(engine, log).Register(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil {
			zapLog.Info("server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}

func newLoader(source catalog.Source, rdb *database.RedisClient, cfg *config.Config, log logger.Logger) *catalog.Loader {
	if rdb == nil {
		return catalog.NewLoader(source, nil, cfg.Catalog.TTL(), log)
	}
	return catalog.NewLoader(source, rdb.GetClient(), cfg.Catalog.TTL(), log)
}
