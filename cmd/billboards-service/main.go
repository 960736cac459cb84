package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/billboards-ops/internal/auth"
	"github.com/nurpe/billboards-ops/internal/cache"
	"github.com/nurpe/billboards-ops/internal/config"
	"github.com/nurpe/billboards-ops/internal/db"
	httphandler "github.com/nurpe/billboards-ops/internal/http"
	"github.com/nurpe/billboards-ops/internal/http/middleware"
	"github.com/nurpe/billboards-ops/internal/logger"
	"github.com/nurpe/billboards-ops/internal/repository"
	"github.com/nurpe/billboards-ops/internal/service"
	"github.com/nurpe/billboards-ops/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("service stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(cfg, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	inventoryRepo := repository.NewInventoryRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	removalRepo := repository.NewRemovalRepository(database)

	var processed cache.ProcessedStore = cache.NewMemoryStore(cfg.Removal.ProcessedTTL)
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		processed = cache.NewRedisStore(client, cfg.Removal.ProcessedTTL)
		log.Info().Msg("processed contracts stored in redis")
	}

	ledgerService := service.NewLedgerService(inventoryRepo, ledgerRepo, log)
	removalService := service.NewRemovalService(inventoryRepo, removalRepo, processed, cfg, log)

	removalWorker := worker.NewRemovalWorker(removalService, cfg.Removal.WorkerInterval, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		_ = removalWorker.Run(ctx)
	}()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(ledgerService, removalService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting billboards service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	<-workerDone
	return runErr
}
