package services

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// Backup file keys. Notifications are never exported.
const (
	keyAccounts              = "accounts"
	keyTransactions          = "transactions"
	keyIncomeCategories      = "incomeCategories"
	keyExpenseCategories     = "expenseCategories"
	keyCurrencies            = "currencies"
	keyGoals                 = "goals"
	keyRecurringTransactions = "recurringTransactions"
)

// backupFile is the on-disk shape of a local backup.
type backupFile struct {
	Accounts              []models.Account              `json:"accounts"`
	Transactions          []models.Transaction          `json:"transactions"`
	IncomeCategories      []models.Category             `json:"incomeCategories"`
	ExpenseCategories     []models.Category             `json:"expenseCategories"`
	Currencies            []models.Currency             `json:"currencies"`
	Goals                 []models.SavingsGoal          `json:"goals"`
	RecurringTransactions []models.RecurringTransaction `json:"recurringTransactions"`
}

// TransactionRow is one line of the transaction CSV export.
type TransactionRow struct {
	Date         string  `csv:"date"`
	Type         string  `csv:"type"`
	Amount       float64 `csv:"amount"`
	Currency     string  `csv:"currency"`
	AccountID    string  `csv:"account_id"`
	AccountName  string  `csv:"account"`
	CategoryID   string  `csv:"category_id"`
	CategoryName string  `csv:"category"`
	Note         string  `csv:"note"`
	LinkedGoalID string  `csv:"linked_goal_id"`
	ID           string  `csv:"id"`
}

type backupService struct {
	store         *store.Store
	notifications NotificationServicer
	audit         AuditServicer
}

// NewBackupService creates a new BackupServicer.
func NewBackupService(st *store.Store, notifications NotificationServicer, audit AuditServicer) BackupServicer {
	return &backupService{store: st, notifications: notifications, audit: audit}
}

// Export writes the seven ledger collections as indented JSON.
func (s *backupService) Export(w io.Writer) error {
	d := s.store.Snapshot()
	d.FillMissing(models.DefaultData())
	file := backupFile{
		Accounts:              d.Accounts,
		Transactions:          d.Transactions,
		IncomeCategories:      d.IncomeCategories,
		ExpenseCategories:     d.ExpenseCategories,
		Currencies:            d.Currencies,
		Goals:                 d.Goals,
		RecurringTransactions: d.RecurringTransactions,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("encode backup: %w", err))
	}
	return nil
}

// Import restores collections from a backup. Each key present in the file
// replaces its collection; absent keys keep the current data. The returned
// keys are sorted.
func (s *backupService) Import(r io.Reader) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImport, err)
	}
	if raw == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidImport, "backup must be a JSON object")
	}

	var replaced []string
	decode := func(key string, dst any) error {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" {
			return nil
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			return apperrors.Wrap(
				apperrors.WithMessage(apperrors.ErrInvalidImport, fmt.Sprintf("invalid %s collection", key)),
				err,
			)
		}
		replaced = append(replaced, key)
		return nil
	}

	var file backupFile
	steps := []struct {
		key   string
		dst   any
		apply func(next *models.AppData)
	}{
		{keyAccounts, &file.Accounts, func(next *models.AppData) { next.Accounts = nonNil(file.Accounts) }},
		{keyTransactions, &file.Transactions, func(next *models.AppData) { next.Transactions = nonNil(file.Transactions) }},
		{keyIncomeCategories, &file.IncomeCategories, func(next *models.AppData) { next.IncomeCategories = nonNil(file.IncomeCategories) }},
		{keyExpenseCategories, &file.ExpenseCategories, func(next *models.AppData) { next.ExpenseCategories = nonNil(file.ExpenseCategories) }},
		{keyCurrencies, &file.Currencies, func(next *models.AppData) { next.Currencies = nonNil(file.Currencies) }},
		{keyGoals, &file.Goals, func(next *models.AppData) { next.Goals = nonNil(file.Goals) }},
		{keyRecurringTransactions, &file.RecurringTransactions, func(next *models.AppData) { next.RecurringTransactions = nonNil(file.RecurringTransactions) }},
	}
	var apply []func(*models.AppData)
	for _, step := range steps {
		before := len(replaced)
		if err := decode(step.key, step.dst); err != nil {
			return nil, err
		}
		if len(replaced) > before {
			apply = append(apply, step.apply)
		}
	}

	if len(replaced) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidImport, "backup contains no ledger collections")
	}
	if err := validateBackupCurrencies(raw, file.Currencies); err != nil {
		return nil, err
	}

	// Collections absent from the file keep their current value. A mutation
	// committed between reading and swapping forces a re-read.
	for {
		version := s.store.Version()
		next := s.store.Snapshot()
		for _, fn := range apply {
			fn(&next)
		}
		if s.store.ReplaceIf(version, next, models.DefaultData(), store.OriginImport) {
			break
		}
	}
	sort.Strings(replaced)
	if err := s.notifications.ScanLowBalances(); err != nil {
		logger.Get().Warnw("Low balance check after import failed", "error", err)
	}

	logger.Get().Infow("Backup imported", "collections", replaced)
	s.audit.Log("import", "backup", "", map[string]any{"collections": replaced})
	return replaced, nil
}

// validateBackupCurrencies rejects a currency list that has no single base.
func validateBackupCurrencies(raw map[string]json.RawMessage, currencies []models.Currency) error {
	if _, ok := raw[keyCurrencies]; !ok {
		return nil
	}
	if len(currencies) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidImport, "currencies must not be empty")
	}
	bases := 0
	seen := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		if c.Code == "" || c.Rate <= 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidImport, fmt.Sprintf("invalid currency %q", c.Code))
		}
		if seen[c.Code] {
			return apperrors.WithMessage(apperrors.ErrInvalidImport, fmt.Sprintf("duplicate currency %q", c.Code))
		}
		seen[c.Code] = true
		if c.IsBase {
			bases++
		}
	}
	if bases != 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidImport, "exactly one base currency is required")
	}
	return nil
}

// ExportTransactionsCSV writes every transaction as a CSV row, newest first.
func (s *backupService) ExportTransactionsCSV(w io.Writer) error {
	d := s.store.Snapshot()

	accounts := make(map[string]models.Account, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts[a.ID] = a
	}
	categoryName := func(t models.TransactionType, id string) string {
		for _, c := range d.Categories(t) {
			if c.ID == id {
				return c.Name
			}
		}
		return ""
	}

	rows := make([]*TransactionRow, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		row := &TransactionRow{
			Date:         t.Date,
			Type:         string(t.Type),
			Amount:       t.Amount,
			AccountID:    t.AccountID,
			CategoryID:   t.CategoryID,
			CategoryName: categoryName(t.Type, t.CategoryID),
			Note:         t.Note,
			ID:           t.ID,
		}
		if acc, ok := accounts[t.AccountID]; ok {
			row.AccountName = acc.Name
			row.Currency = acc.CurrencyCode
		}
		if t.LinkedGoalID != nil {
			row.LinkedGoalID = *t.LinkedGoalID
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		logger.Get().Errorw("Failed to write transaction CSV", "error", err)
		return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("write csv: %w", err))
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
