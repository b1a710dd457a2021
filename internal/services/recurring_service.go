package services

import (
	"context"
	"time"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// RecurringNotePrefix marks transactions materialized by the scheduler.
const RecurringNotePrefix = "Recurring: "

// recurringService schedules and materializes recurring transactions.
type recurringService struct {
	store         *store.Store
	notifications NotificationServicer
	audit         AuditServicer
	opts          Options
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(st *store.Store, notifications NotificationServicer, audit AuditServicer, opts Options) RecurringServicer {
	return &recurringService{
		store:         st,
		notifications: notifications,
		audit:         audit,
		opts:          opts.withDefaults(),
	}
}

// CreateRecurring adds a standalone rule. Nothing is materialized until it is due.
func (s *recurringService) CreateRecurring(input RecurringInput) (*models.RecurringTransaction, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	if !input.Frequency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "frequency must be DAILY, WEEKLY, MONTHLY or YEARLY")
	}
	if input.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if err := validateDate(input.NextDueDate); err != nil {
		return nil, err
	}

	rule := models.RecurringTransaction{
		ID:          ids.New(ids.PrefixRecurring),
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Note:        input.Note,
		Frequency:   input.Frequency,
		NextDueDate: input.NextDueDate,
	}
	err := s.store.Transaction(func(tx *store.Tx) error {
		tx.Data.RecurringTransactions = append(tx.Data.RecurringTransactions, rule)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("create", "recurring", rule.ID, map[string]any{"frequency": rule.Frequency, "next_due_date": rule.NextDueDate})
	return &rule, nil
}

// DeleteRecurring removes a rule. Transactions it already produced stay.
func (s *recurringService) DeleteRecurring(id string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		for i, r := range tx.Data.RecurringTransactions {
			if r.ID == id {
				tx.Data.RecurringTransactions = append(tx.Data.RecurringTransactions[:i], tx.Data.RecurringTransactions[i+1:]...)
				tx.MarkDirty()
				return nil
			}
		}
		return apperrors.ErrRecurringNotFound
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "recurring", id, nil)
	return nil
}

// ListRecurring returns every rule.
func (s *recurringService) ListRecurring() ([]models.RecurringTransaction, error) {
	var out []models.RecurringTransaction
	s.store.View(func(d *models.AppData) {
		out = make([]models.RecurringTransaction, len(d.RecurringTransactions))
		copy(out, d.RecurringTransactions)
	})
	return out, nil
}

// ProcessDue materializes one transaction for every rule due on or before
// today and advances each rule by exactly one period. A rule overdue by
// several periods catches up one period per pass. All materializations of a
// pass commit together, with balances adjusted by the net per-account delta.
func (s *recurringService) ProcessDue(today string) (*ProcessResult, error) {
	if err := validateDate(today); err != nil {
		return nil, err
	}

	result := &ProcessResult{Materialized: []models.Transaction{}}
	err := s.store.Transaction(func(tx *store.Tx) error {
		now := s.opts.Now()
		deltas := make(map[string]float64)
		var deltaOrder []string
		var created []models.Transaction

		for i := range tx.Data.RecurringTransactions {
			rule := &tx.Data.RecurringTransactions[i]
			if !rule.DueOn(today) {
				continue
			}
			next, err := rule.Frequency.Advance(rule.NextDueDate)
			if err != nil {
				// A rule with a bad frequency or date would be due forever; leave it for the user.
				logger.Get().Warnw("Skipping unschedulable recurring rule",
					"recurring_id", rule.ID,
					"frequency", rule.Frequency,
					"next_due_date", rule.NextDueDate,
					"error", err,
				)
				continue
			}

			t := models.Transaction{
				ID:         ids.New(ids.PrefixTransaction),
				AccountID:  rule.AccountID,
				Type:       rule.Type,
				Amount:     rule.Amount,
				CategoryID: rule.CategoryID,
				Date:       rule.NextDueDate,
				Note:       RecurringNotePrefix + rule.Note,
			}
			created = append(created, t)
			if _, seen := deltas[t.AccountID]; !seen {
				deltaOrder = append(deltaOrder, t.AccountID)
			}
			deltas[t.AccountID] += t.SignedAmount()

			rule.NextDueDate = next
			tx.MarkDirty()

			label := rule.Note
			if label == "" {
				label = "Recurring"
			}
			s.notifications.Emit(tx, models.Notification{
				Type:     models.NotificationUpcomingRecurring,
				Title:    "Recurring transaction",
				Message:  "Recorded " + label,
				Severity: models.SeverityInfo,
			}, now)
		}

		if len(created) == 0 {
			return nil
		}

		for _, accountID := range deltaOrder {
			if !tx.AdjustBalance(accountID, deltas[accountID]) {
				if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", accountID, "process_recurring"); err != nil {
					return err
				}
			}
		}
		// Newest first, preserving rule order within the batch.
		tx.Data.Transactions = append(append([]models.Transaction{}, created...), tx.Data.Transactions...)

		s.notifications.CheckLowBalances(tx, now)
		result.Materialized = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if n := len(result.Materialized); n > 0 {
		logger.Get().Infow("Recurring transactions materialized", "count", n, "today", today)
		for _, t := range result.Materialized {
			s.audit.Log("materialize", "transaction", t.ID, map[string]any{"account_id": t.AccountID, "date": t.Date})
		}
	}
	return result, nil
}

// Run processes due rules immediately and then on every tick until ctx is cancelled.
func (s *recurringService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if s.store.Ready() {
			if _, err := s.ProcessDue(s.opts.today()); err != nil {
				logger.Get().Errorw("Recurring pass failed", "error", err)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
