// Package main is the entry point for the ibeer catalog API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ibeer/internal/config"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/infrastructure/cache"
	v1 "ibeer/internal/infrastructure/http/v1"
	"ibeer/internal/infrastructure/http/v1/handlers"
	"ibeer/internal/infrastructure/storage/postgres"
	"ibeer/internal/infrastructure/storage/postgres/catalog_repo"
	"ibeer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting ibeer server", "env", cfg.AppEnv)

	// --- Database ---
	pool, err := postgres.NewPool(ctx, cfg.Pool())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.DBAutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatalw("failed to ensure schema", "error", err)
		}
	}

	txManager := postgres.NewTxManager(pool)
	healthChecks := []handlers.HealthCheck{handlers.DatabaseCheck(pool)}

	// --- Manufacturers ---
	var repo manufacturer.Repository = catalog_repo.NewManufacturerRepo(txManager)

	if cfg.CacheEnabled() {
		redisClient, err := cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer func() { _ = redisClient.Close() }()

		repo = cache.NewManufacturerRepository(repo, redisClient, cfg.CacheTTL)
		healthChecks = append(healthChecks, handlers.CacheCheck(redisClient))
		log.Infow("manufacturer cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	manufacturers := manufacturer.NewService(repo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Health:        handlers.NewHealthHandler(pool, healthChecks...),
		Manufacturers: manufacturers,
		Debug:         cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	pool.LogStats(ctx)
	log.Info("server stopped")
}
