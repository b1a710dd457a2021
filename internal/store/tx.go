package store

import "github.com/cnds86/kiptrack/internal/models"

// Tx is the working copy handed to a Store.Transaction callback. Lookups
// return pointers into the working copy so callers can mutate in place.
type Tx struct {
	Data  *models.AppData
	dirty bool
}

// MarkDirty flags the working copy for commit. Every helper that mutates
// calls it; callers that edit Data directly must call it themselves.
func (tx *Tx) MarkDirty() { tx.dirty = true }

// Account returns the account with the given id.
func (tx *Tx) Account(id string) (*models.Account, bool) {
	for i := range tx.Data.Accounts {
		if tx.Data.Accounts[i].ID == id {
			return &tx.Data.Accounts[i], true
		}
	}
	return nil, false
}

// Transaction returns the transaction with the given id and its index.
func (tx *Tx) Transaction(id string) (*models.Transaction, int, bool) {
	for i := range tx.Data.Transactions {
		if tx.Data.Transactions[i].ID == id {
			return &tx.Data.Transactions[i], i, true
		}
	}
	return nil, -1, false
}

// Goal returns the goal with the given id.
func (tx *Tx) Goal(id string) (*models.SavingsGoal, bool) {
	for i := range tx.Data.Goals {
		if tx.Data.Goals[i].ID == id {
			return &tx.Data.Goals[i], true
		}
	}
	return nil, false
}

// Recurring returns the recurring rule with the given id.
func (tx *Tx) Recurring(id string) (*models.RecurringTransaction, bool) {
	for i := range tx.Data.RecurringTransactions {
		if tx.Data.RecurringTransactions[i].ID == id {
			return &tx.Data.RecurringTransactions[i], true
		}
	}
	return nil, false
}

// Currency returns the currency with the given code.
func (tx *Tx) Currency(code string) (*models.Currency, bool) {
	for i := range tx.Data.Currencies {
		if tx.Data.Currencies[i].Code == code {
			return &tx.Data.Currencies[i], true
		}
	}
	return nil, false
}

// Category looks id up only within the collection for the given type.
func (tx *Tx) Category(t models.TransactionType, id string) (*models.Category, bool) {
	list := tx.Data.Categories(t)
	for i := range list {
		if list[i].ID == id {
			return &list[i], true
		}
	}
	return nil, false
}

// AdjustBalance adds delta to the account's balance. It reports false, and
// changes nothing, when the account does not exist.
func (tx *Tx) AdjustBalance(accountID string, delta float64) bool {
	acc, ok := tx.Account(accountID)
	if !ok {
		return false
	}
	acc.Balance += delta
	tx.dirty = true
	return true
}

// PrependTransaction inserts t at the front of the newest-first list.
func (tx *Tx) PrependTransaction(t models.Transaction) {
	tx.Data.Transactions = append([]models.Transaction{t}, tx.Data.Transactions...)
	tx.dirty = true
}

// RemoveTransaction deletes the transaction at index i.
func (tx *Tx) RemoveTransaction(i int) {
	tx.Data.Transactions = append(tx.Data.Transactions[:i], tx.Data.Transactions[i+1:]...)
	tx.dirty = true
}

// PrependNotification inserts n at the front of the newest-first list.
func (tx *Tx) PrependNotification(n models.Notification) {
	tx.Data.Notifications = append([]models.Notification{n}, tx.Data.Notifications...)
	tx.dirty = true
}
