// Package app assembles the ledger: backend, store, syncer and services.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cnds86/kiptrack/internal/ai"
	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/forex"
	"github.com/cnds86/kiptrack/internal/handlers"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/persistence"
	"github.com/cnds86/kiptrack/internal/seed"
	"github.com/cnds86/kiptrack/internal/services"
	"github.com/cnds86/kiptrack/internal/store"
	"github.com/cnds86/kiptrack/internal/syncer"
)

// App is a running ledger bound to one user document.
type App struct {
	Store    *store.Store
	Syncer   *syncer.Syncer
	Services handlers.Services
	Options  services.Options

	backend      persistence.Backend
	ratesEnabled bool
	log          *zap.SugaredLogger
}

// Open wires the ledger from cfg and starts syncing. backend may be nil, in
// which case the one named by cfg.StorageBackend is opened. A failed backend
// subscription is logged and the app continues on the local cache.
func Open(ctx context.Context, cfg *config.Config, backend persistence.Backend) (*App, error) {
	policy, err := models.ParseResolutionPolicy(cfg.ResolutionPolicy)
	if err != nil {
		return nil, err
	}
	defaults, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		backend, err = persistence.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s backend: %w", cfg.StorageBackend, err)
		}
	}

	a := &App{
		Store:   store.New(),
		Options: services.Options{Policy: policy, DedupWindow: cfg.LowBalanceDedupWindow},
		backend: backend,
		log:     logger.ForUser(cfg.UserKey),
	}
	a.Services = a.buildServices(ctx, cfg)

	a.Syncer = syncer.New(a.Store, backend, syncer.Options{
		Key:           cfg.UserKey,
		Debounce:      cfg.SaveDebounce,
		Defaults:      defaults,
		Cache:         persistence.NewFileCache(cfg.LocalCachePath),
		RetryInterval: cfg.PollInterval,
		OnLoad:        a.catchUp,
	})
	if err := a.Syncer.Start(ctx); err != nil {
		a.log.Warnw("Backend unavailable, running on local cache", "backend", cfg.StorageBackend, "error", err)
	}
	return a, nil
}

func (a *App) buildServices(ctx context.Context, cfg *config.Config) handlers.Services {
	audit := services.NewAuditService()
	notifications := services.NewNotificationService(a.Store, a.Options)
	transactions := services.NewTransactionService(a.Store, notifications, audit, a.Options)
	goals := services.NewGoalService(a.Store, notifications, audit, a.Options)

	var (
		parser  services.ProposalParser
		advisor services.AdviceGenerator
	)
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			a.log.Warnw("AI features disabled", "error", err)
		} else {
			parser, advisor = client, client
		}
	} else {
		a.log.Info("GEMINI_API_KEY not set, AI features disabled")
	}

	var fetcher services.RateFetcher
	if cfg.ForexBaseURL != "" {
		fetcher = forex.NewRateFetcher(&http.Client{Timeout: 15 * time.Second}, cfg.ForexBaseURL)
		a.ratesEnabled = true
	}

	return handlers.Services{
		Ready:         a.Store,
		Accounts:      services.NewAccountService(a.Store, notifications, audit, a.Options),
		Transactions:  transactions,
		Goals:         goals,
		Recurring:     services.NewRecurringService(a.Store, notifications, audit, a.Options),
		Categories:    services.NewCategoryService(a.Store, audit),
		Currencies:    services.NewCurrencyService(a.Store, fetcher, audit),
		Notifications: notifications,
		Proposals:     services.NewProposalService(a.Store, parser, advisor, transactions, goals, a.Options),
		Backup:        services.NewBackupService(a.Store, notifications, audit),
	}
}

// catchUp runs recurring rules that fell due while the ledger was not loaded
// and checks thresholds against the balances that just arrived.
func (a *App) catchUp() {
	today := models.FormatDate(time.Now())
	if a.Options.Now != nil {
		today = models.FormatDate(a.Options.Now())
	}
	if _, err := a.Services.Recurring.ProcessDue(today); err != nil {
		a.log.Errorw("Recurring catch-up failed", "error", err)
	}
	if err := a.Services.Notifications.ScanLowBalances(); err != nil {
		a.log.Errorw("Low balance check after load failed", "error", err)
	}
}

// WaitLoaded blocks until the first document is in the store.
func (a *App) WaitLoaded(ctx context.Context) error {
	select {
	case <-a.Syncer.Loaded():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for ledger: %w", ctx.Err())
	}
}

// RunBackground starts the recurring scheduler and, when interval is positive
// and a rate source is configured, periodic exchange rate refreshes. Both stop
// with ctx.
func (a *App) RunBackground(ctx context.Context, schedulerInterval, forexInterval time.Duration) {
	go a.Services.Recurring.Run(ctx, schedulerInterval)
	if forexInterval <= 0 || !a.ratesEnabled {
		return
	}
	go func() {
		ticker := time.NewTicker(forexInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !a.Store.Ready() {
					continue
				}
				if _, err := a.Services.Currencies.RefreshRates(ctx); err != nil {
					a.log.Warnw("Scheduled rate refresh failed", "error", err)
				}
			}
		}
	}()
}

// Close stops syncing, flushes pending changes and releases the backend.
func (a *App) Close(ctx context.Context) error {
	syncErr := a.Syncer.Close(ctx)
	if err := a.backend.Close(); err != nil {
		a.log.Warnw("Failed to close backend", "error", err)
	}
	return syncErr
}
