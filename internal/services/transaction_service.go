package services

import (
	"sort"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/store"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	store         *store.Store
	notifications NotificationServicer
	audit         AuditServicer
	opts          Options
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(st *store.Store, notifications NotificationServicer, audit AuditServicer, opts Options) TransactionServicer {
	return &transactionService{
		store:         st,
		notifications: notifications,
		audit:         audit,
		opts:          opts.withDefaults(),
	}
}

func validateTransactionInput(input TransactionInput) error {
	if err := validateAmount(input.Amount); err != nil {
		return err
	}
	if !input.Type.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	if input.AccountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	return validateDate(input.Date)
}

// RecordTransaction inserts a transaction, applies its signed amount to the
// account and, when recurrence is a real frequency, schedules a recurring rule
// starting one period after the transaction date.
func (s *transactionService) RecordTransaction(input TransactionInput, recurrence *models.Frequency) (*models.Transaction, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}
	var nextDue string
	if recurrence != nil && *recurrence != models.FrequencyNever {
		next, err := recurrence.Advance(input.Date)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		nextDue = next
	}

	transaction := models.Transaction{
		ID:           ids.New(ids.PrefixTransaction),
		AccountID:    input.AccountID,
		Type:         input.Type,
		Amount:       input.Amount,
		CategoryID:   input.CategoryID,
		Date:         input.Date,
		Note:         input.Note,
		LinkedGoalID: input.LinkedGoalID,
	}

	var rule *models.RecurringTransaction
	err := s.store.Transaction(func(tx *store.Tx) error {
		if !tx.AdjustBalance(transaction.AccountID, transaction.SignedAmount()) {
			if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", transaction.AccountID, "record_transaction"); err != nil {
				return err
			}
		}
		tx.PrependTransaction(transaction)

		if nextDue != "" {
			rule = &models.RecurringTransaction{
				ID:          ids.New(ids.PrefixRecurring),
				AccountID:   transaction.AccountID,
				CategoryID:  transaction.CategoryID,
				Type:        transaction.Type,
				Amount:      transaction.Amount,
				Note:        transaction.Note,
				Frequency:   *recurrence,
				NextDueDate: nextDue,
			}
			tx.Data.RecurringTransactions = append(tx.Data.RecurringTransactions, *rule)
		}

		s.notifications.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("record", "transaction", transaction.ID, map[string]any{
		"account_id": transaction.AccountID,
		"type":       transaction.Type,
		"amount":     transaction.Amount,
	})
	if rule != nil {
		s.audit.Log("create", "recurring", rule.ID, map[string]any{"frequency": rule.Frequency, "next_due_date": rule.NextDueDate})
	}
	return &transaction, nil
}

// EditTransaction replaces a transaction's fields, keeping its id. When the
// account changes the old effect is reversed on the old account and the new
// effect applied to the new one, without converting between their currencies.
func (s *transactionService) EditTransaction(id string, input TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	var updated models.Transaction
	err := s.store.Transaction(func(tx *store.Tx) error {
		existing, _, ok := tx.Transaction(id)
		if !ok {
			return apperrors.ErrTransactionNotFound
		}
		old := *existing

		updated = models.Transaction{
			ID:           old.ID,
			AccountID:    input.AccountID,
			Type:         input.Type,
			Amount:       input.Amount,
			CategoryID:   input.CategoryID,
			Date:         input.Date,
			Note:         input.Note,
			LinkedGoalID: input.LinkedGoalID,
		}

		if old.AccountID != updated.AccountID {
			if !tx.AdjustBalance(old.AccountID, -old.SignedAmount()) {
				if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", old.AccountID, "edit_transaction"); err != nil {
					return err
				}
			}
			if !tx.AdjustBalance(updated.AccountID, updated.SignedAmount()) {
				if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", updated.AccountID, "edit_transaction"); err != nil {
					return err
				}
			}
		} else {
			delta := updated.SignedAmount() - old.SignedAmount()
			if delta != 0 && !tx.AdjustBalance(updated.AccountID, delta) {
				if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", updated.AccountID, "edit_transaction"); err != nil {
					return err
				}
			}
		}

		*existing = updated
		tx.MarkDirty()
		s.notifications.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("edit", "transaction", id, map[string]any{
		"account_id": updated.AccountID,
		"type":       updated.Type,
		"amount":     updated.Amount,
	})
	return &updated, nil
}

// DeleteTransaction reverses a transaction's effect on its account and removes it.
func (s *transactionService) DeleteTransaction(id string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		existing, idx, ok := tx.Transaction(id)
		if !ok {
			return apperrors.ErrTransactionNotFound
		}
		if !tx.AdjustBalance(existing.AccountID, -existing.SignedAmount()) {
			if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", existing.AccountID, "delete_transaction"); err != nil {
				return err
			}
		}
		tx.RemoveTransaction(idx)
		s.notifications.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "transaction", id, nil)
	return nil
}

// GetTransactionByID retrieves a transaction by id.
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var (
		found models.Transaction
		ok    bool
	)
	s.store.View(func(d *models.AppData) {
		for _, t := range d.Transactions {
			if t.ID == id {
				found, ok = t.Clone(), true
				return
			}
		}
	})
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	return &found, nil
}

// ListTransactions returns a filtered page of transactions, newest date first.
func (s *transactionService) ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var matched []models.Transaction
	s.store.View(func(d *models.AppData) {
		for _, t := range d.Transactions {
			if filter.matches(t) {
				matched = append(matched, t.Clone())
			}
		}
	})
	// Stable sort keeps insertion order (newest first) within a day.
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })

	result := pagination.Paginate(matched, page)
	return &result, nil
}

// GetSummary totals the filtered transactions and every account in base currency.
func (s *transactionService) GetSummary(filter TransactionFilter) (*Summary, error) {
	snapshot := s.store.Snapshot()
	conv := s.opts.converterFor(snapshot.Currencies)

	summary := &Summary{ExpenseByCategory: []CategoryTotal{}}
	if base, ok := conv.Base(); ok {
		summary.BaseCurrency = base.Code
	}

	worth, err := conv.NetWorth(snapshot.Accounts)
	if err != nil {
		return nil, err
	}
	summary.NetWorth = worth

	accountCurrency := make(map[string]string, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		accountCurrency[a.ID] = a.CurrencyCode
	}

	byCategory := make(map[string]float64)
	for _, t := range snapshot.Transactions {
		if !filter.matches(t) {
			continue
		}
		summary.TransactionCount++
		code, ok := accountCurrency[t.AccountID]
		if !ok {
			if summary.BaseCurrency == "" {
				continue
			}
			code = summary.BaseCurrency
		}
		inBase, err := conv.ToBase(t.Amount, code)
		if err != nil {
			return nil, err
		}
		if t.Type == models.TransactionTypeIncome {
			summary.TotalIncome += inBase
		} else {
			summary.TotalExpense += inBase
			byCategory[t.CategoryID] += inBase
		}
	}

	for _, c := range snapshot.ExpenseCategories {
		if total, ok := byCategory[c.ID]; ok {
			summary.ExpenseByCategory = append(summary.ExpenseByCategory, CategoryTotal{CategoryID: c.ID, Name: c.Name, Color: c.Color, Total: total})
			delete(byCategory, c.ID)
		}
	}
	for id, total := range byCategory {
		summary.ExpenseByCategory = append(summary.ExpenseByCategory, CategoryTotal{CategoryID: id, Name: "Unknown", Total: total})
	}
	sort.SliceStable(summary.ExpenseByCategory, func(i, j int) bool {
		return summary.ExpenseByCategory[i].Total > summary.ExpenseByCategory[j].Total
	})
	return summary, nil
}

func (f TransactionFilter) matches(t models.Transaction) bool {
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if f.FromDate != nil && t.Date < *f.FromDate {
		return false
	}
	if f.ToDate != nil && t.Date > *f.ToDate {
		return false
	}
	return true
}
