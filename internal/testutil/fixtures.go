package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// BaseOnlyCurrencies is a single LAK base currency, for tests that do not care about conversion.
var BaseOnlyCurrencies = []models.Currency{
	{Code: "LAK", Name: "Lao Kip", Symbol: "₭", Rate: 1, IsBase: true},
}

// NewTestData returns the default document without the seeded accounts, so
// tests only see the accounts they create.
func NewTestData() models.AppData {
	d := models.DefaultData()
	d.Accounts = []models.Account{}
	return d
}

// NewTestStore returns a ready store over NewTestData.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewWithData(NewTestData())
}

// AddTestAccount inserts an account directly into the store, bypassing the ledger.
// An empty ID is replaced with a unique one.
func AddTestAccount(t *testing.T, st *store.Store, account models.Account) models.Account {
	t.Helper()

	if account.ID == "" {
		account.ID = fmt.Sprintf("acc_test_%d", nextID())
	}
	if account.Name == "" {
		account.Name = fmt.Sprintf("Account %d", nextID())
	}
	if account.Type == "" {
		account.Type = models.AccountTypeCash
	}
	if account.CurrencyCode == "" {
		account.CurrencyCode = "LAK"
	}
	err := st.Transaction(func(tx *store.Tx) error {
		tx.Data.Accounts = append(tx.Data.Accounts, account)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		t.Fatalf("failed to add test account: %v", err)
	}
	return account
}

// AddTestCashAccount inserts a LAK cash account with the given balance.
func AddTestCashAccount(t *testing.T, st *store.Store, balance float64) models.Account {
	t.Helper()
	return AddTestAccount(t, st, models.Account{Balance: balance})
}

// AddTestGoal inserts a goal directly into the store.
func AddTestGoal(t *testing.T, st *store.Store, goal models.SavingsGoal) models.SavingsGoal {
	t.Helper()

	if goal.ID == "" {
		goal.ID = fmt.Sprintf("goal_test_%d", nextID())
	}
	if goal.Status == "" {
		goal.Status = models.GoalStatusActive
	}
	err := st.Transaction(func(tx *store.Tx) error {
		tx.Data.Goals = append(tx.Data.Goals, goal)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		t.Fatalf("failed to add test goal: %v", err)
	}
	return goal
}

// AddTestRecurring inserts a recurring rule directly into the store.
func AddTestRecurring(t *testing.T, st *store.Store, rule models.RecurringTransaction) models.RecurringTransaction {
	t.Helper()

	if rule.ID == "" {
		rule.ID = fmt.Sprintf("rec_test_%d", nextID())
	}
	err := st.Transaction(func(tx *store.Tx) error {
		tx.Data.RecurringTransactions = append(tx.Data.RecurringTransactions, rule)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		t.Fatalf("failed to add test recurring rule: %v", err)
	}
	return rule
}

// GetAccount reads an account back from the store.
func GetAccount(t *testing.T, st *store.Store, id string) models.Account {
	t.Helper()

	for _, a := range st.Snapshot().Accounts {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("account %s not found in store", id)
	return models.Account{}
}

// GetGoal reads a goal back from the store.
func GetGoal(t *testing.T, st *store.Store, id string) models.SavingsGoal {
	t.Helper()

	for _, g := range st.Snapshot().Goals {
		if g.ID == id {
			return g
		}
	}
	t.Fatalf("goal %s not found in store", id)
	return models.SavingsGoal{}
}

// CountNotifications counts notifications of the given type.
func CountNotifications(st *store.Store, typ models.NotificationType) int {
	n := 0
	for _, notif := range st.Snapshot().Notifications {
		if notif.Type == typ {
			n++
		}
	}
	return n
}
