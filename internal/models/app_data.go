package models

import "time"

// AppData is the persisted document: every collection of a single user's ledger.
type AppData struct {
	Accounts              []Account              `json:"accounts"`
	Transactions          []Transaction          `json:"transactions"`
	IncomeCategories      []Category             `json:"incomeCategories"`
	ExpenseCategories     []Category             `json:"expenseCategories"`
	Currencies            []Currency             `json:"currencies"`
	Goals                 []SavingsGoal          `json:"goals"`
	RecurringTransactions []RecurringTransaction `json:"recurringTransactions"`
	Notifications         []Notification         `json:"notifications"`
	LastUpdated           *time.Time             `json:"lastUpdated"`
	Revision              uint64                 `json:"revision"`
}

// Clone returns a deep copy of the document. Nil collections stay nil.
func (d AppData) Clone() AppData {
	out := AppData{Revision: d.Revision}
	if d.LastUpdated != nil {
		t := *d.LastUpdated
		out.LastUpdated = &t
	}
	if d.Accounts != nil {
		out.Accounts = make([]Account, len(d.Accounts))
		for i, a := range d.Accounts {
			out.Accounts[i] = a.Clone()
		}
	}
	if d.Transactions != nil {
		out.Transactions = make([]Transaction, len(d.Transactions))
		for i, t := range d.Transactions {
			out.Transactions[i] = t.Clone()
		}
	}
	if d.Goals != nil {
		out.Goals = make([]SavingsGoal, len(d.Goals))
		for i, g := range d.Goals {
			out.Goals[i] = g.Clone()
		}
	}
	if d.Notifications != nil {
		out.Notifications = make([]Notification, len(d.Notifications))
		for i, n := range d.Notifications {
			out.Notifications[i] = n.Clone()
		}
	}
	out.IncomeCategories = cloneSlice(d.IncomeCategories)
	out.ExpenseCategories = cloneSlice(d.ExpenseCategories)
	out.Currencies = cloneSlice(d.Currencies)
	out.RecurringTransactions = cloneSlice(d.RecurringTransactions)
	return out
}

// FillMissing replaces nil collections: accounts, categories and currencies get
// the given defaults, every other collection becomes empty.
func (d *AppData) FillMissing(defaults AppData) {
	if d.Accounts == nil {
		d.Accounts = cloneSlice(defaults.Accounts)
	}
	if d.IncomeCategories == nil {
		d.IncomeCategories = cloneSlice(defaults.IncomeCategories)
	}
	if d.ExpenseCategories == nil {
		d.ExpenseCategories = cloneSlice(defaults.ExpenseCategories)
	}
	if d.Currencies == nil {
		d.Currencies = cloneSlice(defaults.Currencies)
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Goals == nil {
		d.Goals = []SavingsGoal{}
	}
	if d.RecurringTransactions == nil {
		d.RecurringTransactions = []RecurringTransaction{}
	}
	if d.Notifications == nil {
		d.Notifications = []Notification{}
	}
}

// Categories returns the collection for the given transaction type.
func (d *AppData) Categories(t TransactionType) []Category {
	if t == TransactionTypeIncome {
		return d.IncomeCategories
	}
	return d.ExpenseCategories
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
