package services

import (
	"testing"
	"time"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
	"github.com/cnds86/kiptrack/internal/testutil"
)

// fixedNow is the clock used by every service under test.
var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// testServices bundles the ledger services over one store.
type testServices struct {
	store         *store.Store
	opts          Options
	notifications NotificationServicer
	transactions  TransactionServicer
	accounts      AccountServicer
	goals         GoalServicer
	categories    CategoryServicer
	currencies    CurrencyServicer
	recurring     RecurringServicer
	backup        BackupServicer
}

func newTestServices(t *testing.T, policy models.ResolutionPolicy) *testServices {
	t.Helper()
	return newTestServicesWithStore(t, testutil.NewTestStore(t), policy)
}

func newTestServicesWithStore(t *testing.T, st *store.Store, policy models.ResolutionPolicy) *testServices {
	t.Helper()

	opts := Options{Policy: policy, Now: func() time.Time { return fixedNow }}
	audit := NewAuditService()
	notifications := NewNotificationService(st, opts)
	return &testServices{
		store:         st,
		opts:          opts,
		notifications: notifications,
		transactions:  NewTransactionService(st, notifications, audit, opts),
		accounts:      NewAccountService(st, notifications, audit, opts),
		goals:         NewGoalService(st, notifications, audit, opts),
		categories:    NewCategoryService(st, audit),
		currencies:    NewCurrencyService(st, nil, audit),
		recurring:     NewRecurringService(st, notifications, audit, opts),
		backup:        NewBackupService(st, notifications, audit),
	}
}

func expenseInput(accountID string, amount float64) TransactionInput {
	return TransactionInput{
		AccountID:  accountID,
		Type:       models.TransactionTypeExpense,
		Amount:     amount,
		CategoryID: "exp_1",
		Date:       "2024-03-10",
		Note:       "Lunch",
	}
}
