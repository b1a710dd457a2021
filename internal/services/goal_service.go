package services

import (
	"strings"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// goalService handles savings goals and debt repayment.
type goalService struct {
	store         *store.Store
	notifications NotificationServicer
	audit         AuditServicer
	opts          Options
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(st *store.Store, notifications NotificationServicer, audit AuditServicer, opts Options) GoalServicer {
	return &goalService{
		store:         st,
		notifications: notifications,
		audit:         audit,
		opts:          opts.withDefaults(),
	}
}

// CreateGoal starts a new ACTIVE goal with nothing saved.
func (s *goalService) CreateGoal(input GoalInput) (*models.SavingsGoal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if input.Deadline != nil && *input.Deadline != "" {
		if err := validateDate(*input.Deadline); err != nil {
			return nil, err
		}
	} else {
		input.Deadline = nil
	}

	goal := models.SavingsGoal{
		ID:            ids.New(ids.PrefixGoal),
		Name:          strings.TrimSpace(input.Name),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: 0,
		Icon:          input.Icon,
		Color:         input.Color,
		Deadline:      input.Deadline,
		Status:        models.GoalStatusActive,
	}
	if goal.Icon == "" {
		goal.Icon = "Target"
	}

	err := s.store.Transaction(func(tx *store.Tx) error {
		tx.Data.Goals = append(tx.Data.Goals, goal)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("create", "goal", goal.ID, map[string]any{"target_amount": goal.TargetAmount})
	return &goal, nil
}

// DepositToGoal moves amount out of the source account into the goal.
//
// The source is debited and tagged with the savings category. The amount is
// converted to base currency at the source account's rate. For a debt goal the
// base amount is converted into the debt account's currency and credited to it
// as a repayment. The goal is reached when its progress before this deposit
// plus the deposit meets the target, even if the debt account no longer exists.
func (s *goalService) DepositToGoal(goalID, sourceAccountID string, amount float64) (*DepositResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var result *DepositResult
	err := s.store.Transaction(func(tx *store.Tx) error {
		goal, ok := tx.Goal(goalID)
		if !ok {
			return s.opts.unresolved(apperrors.ErrGoalNotFound, "goal", goalID, "deposit_to_goal")
		}
		source, ok := tx.Account(sourceAccountID)
		if !ok {
			return s.opts.unresolved(apperrors.ErrAccountNotFound, "account", sourceAccountID, "deposit_to_goal")
		}

		now := s.opts.Now()
		today := models.FormatDate(now)
		conv := s.opts.converter(tx)

		amountInBase, err := conv.ToBase(amount, source.CurrencyCode)
		if err != nil {
			return err
		}

		// 1-2. Debit the source and record the savings expense.
		sourceTx := models.Transaction{
			ID:           ids.New(ids.PrefixDeposit),
			AccountID:    source.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       amount,
			CategoryID:   models.SavingsCategoryID,
			Date:         today,
			Note:         "Deposit to goal: " + goal.Name,
			LinkedGoalID: models.StringPtr(goal.ID),
		}
		sourceName := source.Name
		tx.AdjustBalance(source.ID, -amount)
		tx.PrependTransaction(sourceTx)

		result = &DepositResult{SourceTransaction: sourceTx}
		previous := goal.CurrentAmount
		progressed := true

		if goal.IsDebtRepayment() {
			debtID := *goal.LinkedAccountID
			debt, ok := tx.Account(debtID)
			if !ok {
				if err := s.opts.unresolved(apperrors.ErrAccountNotFound, "account", debtID, "deposit_to_goal"); err != nil {
					return err
				}
				progressed = false
			} else {
				inDebtCurrency, err := conv.Convert(amount, source.CurrencyCode, debt.CurrencyCode)
				if err != nil {
					return err
				}
				wasOwing := debt.Balance < 0
				debt.Balance += inDebtCurrency
				repayment := models.Transaction{
					ID:         ids.New(ids.PrefixRepayment),
					AccountID:  debt.ID,
					Type:       models.TransactionTypeIncome,
					Amount:     inDebtCurrency,
					CategoryID: models.DebtRepaymentCategoryID,
					Date:       today,
					Note:       "Pay debt (" + sourceName + ")",
				}
				tx.PrependTransaction(repayment)
				result.RepaymentTransfer = &repayment

				if wasOwing && debt.Balance >= 0 {
					result.DebtPaid = true
					s.notifications.Emit(tx, models.Notification{
						Type:      models.NotificationDebtPaid,
						Title:     "Debt paid off",
						Message:   debt.Name,
						Severity:  models.SeveritySuccess,
						AccountID: models.StringPtr(debt.ID),
					}, now)
				}
			}
		}

		// A debt goal whose account is gone keeps its progress, but the
		// reached check still runs on the pre-deposit amount.
		if progressed {
			goal.CurrentAmount += amountInBase
		}
		if previous+amountInBase >= goal.TargetAmount {
			if progressed {
				goal.Status = models.GoalStatusCompleted
			}
			result.GoalReached = true
			s.notifications.Emit(tx, models.Notification{
				Type:     models.NotificationGoalReached,
				Title:    "Goal reached",
				Message:  goal.Name,
				Severity: models.SeveritySuccess,
			}, now)
		}
		result.Goal = goal.Clone()

		s.notifications.CheckLowBalances(tx, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		// Unresolved goal or account skipped under WARN_AND_SKIP.
		return nil, nil
	}

	changes := map[string]any{
		"source_account_id": sourceAccountID,
		"amount":            amount,
		"current_amount":    result.Goal.CurrentAmount,
	}
	if result.GoalReached {
		logger.Get().Infow("Goal reached", "goal_id", goalID, "target_amount", result.Goal.TargetAmount)
	}
	s.audit.Log("deposit", "goal", goalID, changes)
	return result, nil
}

// DeleteGoal removes a goal. Deposits already recorded are not reversed.
func (s *goalService) DeleteGoal(id string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		for i, g := range tx.Data.Goals {
			if g.ID == id {
				tx.Data.Goals = append(tx.Data.Goals[:i], tx.Data.Goals[i+1:]...)
				tx.MarkDirty()
				return nil
			}
		}
		return apperrors.ErrGoalNotFound
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "goal", id, nil)
	return nil
}

// GetGoalByID retrieves a goal by id.
func (s *goalService) GetGoalByID(id string) (*models.SavingsGoal, error) {
	var (
		found models.SavingsGoal
		ok    bool
	)
	s.store.View(func(d *models.AppData) {
		for _, g := range d.Goals {
			if g.ID == id {
				found, ok = g.Clone(), true
				return
			}
		}
	})
	if !ok {
		return nil, apperrors.ErrGoalNotFound
	}
	return &found, nil
}

// ListGoals returns every goal in creation order.
func (s *goalService) ListGoals() ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	s.store.View(func(d *models.AppData) {
		goals = make([]models.SavingsGoal, len(d.Goals))
		for i, g := range d.Goals {
			goals[i] = g.Clone()
		}
	})
	return goals, nil
}
