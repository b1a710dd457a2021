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

	"github.com/cnds86/kiptrack/internal/app"
	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/handlers"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/validator"

	_ "github.com/cnds86/kiptrack/internal/docs" // Import swagger docs
)

// @title           KipTrack API
// @version         1.0
// @description     KipTrack is a multi-currency personal ledger with savings goals, debt repayment, recurring transactions and AI-assisted entry.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared API key. Leave API_KEY unset to run without one.

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := app.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	ledger.RunBackground(ctx, cfg.SchedulerInterval, cfg.ForexRefreshInterval)

	if cfg.APIKey == "" {
		log.Warn("API_KEY not set, the API is open to anyone who can reach it")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(ledger.Services, cfg.APIKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("Starting KipTrack server",
			"port", cfg.Port,
			"storage_backend", cfg.StorageBackend,
			"user_key", cfg.UserKey,
		)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = ledger.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP shutdown did not complete", "error", err)
	}
	if err := ledger.Close(shutdownCtx); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	log.Info("Ledger flushed, bye")
	return nil
}
