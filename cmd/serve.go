package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stocky/internal/analytics"
	"stocky/internal/caching"
	"stocky/internal/config"
	"stocky/internal/handlers"
	"stocky/internal/jobs"
	"stocky/internal/jobs/background"
	"stocky/internal/middleware"
	"stocky/internal/services"
	"stocky/internal/translator"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	} else {
		log.Warn("REDIS_ADDR not set; cache and wipe confirmations are kept in memory")
		cacheSvc = caching.NewMemoryCacheService()
	}

	if cfg.Translator.APIKey == "" {
		log.Warn("Translator API key not set; only local commands will work")
	}
	tr := translator.NewOpenAIClient(cfg.Translator.BaseURL, cfg.Translator.APIKey, cfg.Translator.Model, cfg.Translator.Timeout.Duration, log)

	analyticsSvc := analytics.NewService(store, cacheSvc, cfg.Analytics.CacheTTL.Duration, log)
	commandSvc := services.NewCommandService(
		store, tr,
		services.NewConfirmationService(cacheSvc, cfg.Wipe.ConfirmTTL.Duration),
		services.NewTransactionLogger(),
		cacheSvc, log,
	)

	archiver, stopWorker, err := setupArchiving(cfg, analyticsSvc, log)
	if err != nil {
		return err
	}
	defer stopWorker()

	if cfg.Jobs.Enabled {
		scheduler, err := background.NewJobScheduler(
			jobs.NewLowStockAlertService(analyticsSvc, log),
			archiver,
			background.Intervals{LowStock: cfg.Jobs.LowStockInterval.Duration, Archive: cfg.Jobs.ArchiveInterval.Duration},
			log,
		)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error("Failed to stop job scheduler", zap.Error(err))
			}
		}()
	}

	renderer, err := handlers.NewTemplateRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())

	handlers.RegisterRoutes(e, handlers.Routes{
		Pages:   handlers.NewPageHandlers(commandSvc, analyticsSvc, log),
		API:     handlers.NewAPIHandlers(commandSvc, analyticsSvc, log),
		Exports: handlers.NewExportHandlers(analyticsSvc, log),
		Health:  handlers.NewHealthHandlers(store, cacheSvc, version),
		Session: middleware.SessionMiddleware(cfg.App.SessionSecret, cfg.App.Env == "production"),
		Version: middleware.NewVersionMiddleware(version),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Stocky server starting", zap.String("version", version), zap.Int("port", cfg.App.Port), zap.String("store", cfg.Store.Driver))
		if err := e.Start(fmt.Sprintf(":%d", cfg.App.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// setupArchiving returns nil when no object storage is configured. With Redis
// the archive runs on an asynq worker; otherwise it runs inside the job.
func setupArchiving(cfg *config.Config, analyticsSvc analytics.Service, log *zap.Logger) (jobs.ArchiveDispatcher, func(), error) {
	noop := func() {}
	if cfg.Archive.Endpoint == "" {
		log.Info("MINIO_ENDPOINT not set; report archiving disabled")
		return nil, noop, nil
	}

	minioSvc, err := services.NewMinioService(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.UseSSL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize MinIO service: %w", err)
	}
	archiveSvc := services.NewArchiveService(analyticsSvc, minioSvc, cfg.Archive.Bucket, log)

	if cfg.Redis.Addr == "" {
		return jobs.NewSyncArchiveDispatcher(archiveSvc, log), noop, nil
	}

	redisOpt := asynq.RedisClientOpt{Addr: caching.RedisAddr(cfg.Redis.Addr), Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	client := asynq.NewClient(redisOpt)
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Logger:      log.Sugar(),
	})

	mux := asynq.NewServeMux()
	jobs.NewReportArchiver(archiveSvc, log).RegisterHandlers(mux)
	if err := server.Start(mux); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to start task worker: %w", err)
	}

	stop := func() {
		server.Shutdown()
		if err := client.Close(); err != nil {
			log.Warn("Failed to close task client", zap.Error(err))
		}
	}
	return jobs.NewQueuedArchiveDispatcher(client, log), stop, nil
}
