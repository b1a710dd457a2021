package services

import (
	"math"
	"strings"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/store"
)

// accountService handles account-related business logic.
type accountService struct {
	store         *store.Store
	notifications NotificationServicer
	audit         AuditServicer
	opts          Options
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(st *store.Store, notifications NotificationServicer, audit AuditServicer, opts Options) AccountServicer {
	return &accountService{
		store:         st,
		notifications: notifications,
		audit:         audit,
		opts:          opts.withDefaults(),
	}
}

func validateAccountInput(tx *store.Tx, input AccountInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !input.Type.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of CASH, BANK, CREDIT, LOAN, OTHER")
	}
	if _, ok := tx.Currency(input.CurrencyCode); !ok {
		return apperrors.WithMessage(apperrors.ErrUnknownCurrency, "Currency "+input.CurrencyCode+" is not configured")
	}
	return nil
}

// CreateAccount adds an account. A CREDIT or LOAN account stores its balance as
// a non-positive debt and gets a linked repayment goal whose target is the debt
// converted to base currency.
func (s *accountService) CreateAccount(input AccountInput) (*models.Account, error) {
	account := models.Account{
		ID:                  ids.New(ids.PrefixAccount),
		Name:                strings.TrimSpace(input.Name),
		Type:                input.Type,
		Balance:             input.Balance,
		Color:               input.Color,
		CurrencyCode:        input.CurrencyCode,
		LowBalanceThreshold: input.LowBalanceThreshold,
	}
	if account.Type.IsDebt() {
		account.Balance = -math.Abs(input.Balance)
	}

	var goal *models.SavingsGoal
	err := s.store.Transaction(func(tx *store.Tx) error {
		if err := validateAccountInput(tx, input); err != nil {
			return err
		}
		tx.Data.Accounts = append(tx.Data.Accounts, account)
		tx.MarkDirty()

		if account.Type.IsDebt() {
			target, err := s.opts.converter(tx).ToBase(math.Abs(account.Balance), account.CurrencyCode)
			if err != nil {
				return err
			}
			goal = &models.SavingsGoal{
				ID:              ids.New(ids.PrefixDebtGoal),
				Name:            "Pay debt: " + account.Name,
				TargetAmount:    target,
				CurrentAmount:   0,
				Icon:            "CreditCard",
				Color:           account.Color,
				Status:          models.GoalStatusActive,
				LinkedAccountID: models.StringPtr(account.ID),
			}
			tx.Data.Goals = append(tx.Data.Goals, *goal)
		}

		s.notifications.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("create", "account", account.ID, map[string]any{"type": account.Type, "currency": account.CurrencyCode})
	if goal != nil {
		s.audit.Log("create", "goal", goal.ID, map[string]any{"linked_account_id": account.ID, "target_amount": goal.TargetAmount})
	}
	return &account, nil
}

// EditAccount replaces an account's descriptive fields, keeping its id and balance.
func (s *accountService) EditAccount(id string, input AccountInput) (*models.Account, error) {
	var updated models.Account
	err := s.store.Transaction(func(tx *store.Tx) error {
		acc, ok := tx.Account(id)
		if !ok {
			return apperrors.ErrAccountNotFound
		}
		if err := validateAccountInput(tx, input); err != nil {
			return err
		}
		acc.Name = strings.TrimSpace(input.Name)
		acc.Type = input.Type
		acc.Color = input.Color
		acc.CurrencyCode = input.CurrencyCode
		acc.LowBalanceThreshold = input.LowBalanceThreshold
		updated = acc.Clone()
		tx.MarkDirty()

		s.notifications.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("edit", "account", id, map[string]any{"name": updated.Name})
	return &updated, nil
}

// DeleteAccount removes an account. Transactions and goals that reference it are left in place.
func (s *accountService) DeleteAccount(id string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		for i, a := range tx.Data.Accounts {
			if a.ID == id {
				tx.Data.Accounts = append(tx.Data.Accounts[:i], tx.Data.Accounts[i+1:]...)
				tx.MarkDirty()
				return nil
			}
		}
		return apperrors.ErrAccountNotFound
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "account", id, nil)
	return nil
}

// GetAccountByID retrieves an account by id.
func (s *accountService) GetAccountByID(id string) (*models.Account, error) {
	var (
		found models.Account
		ok    bool
	)
	s.store.View(func(d *models.AppData) {
		for _, a := range d.Accounts {
			if a.ID == id {
				found, ok = a.Clone(), true
				return
			}
		}
	})
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &found, nil
}

// ListAccounts returns a page of accounts in creation order.
func (s *accountService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var accounts []models.Account
	s.store.View(func(d *models.AppData) {
		accounts = make([]models.Account, len(d.Accounts))
		for i, a := range d.Accounts {
			accounts[i] = a.Clone()
		}
	})
	result := pagination.Paginate(accounts, page)
	return &result, nil
}
