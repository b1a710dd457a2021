package models

// Account represents a financial account in the ledger.
// Debt accounts (CREDIT, LOAN) store their balance as a non-positive number.
type Account struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Type                AccountType `json:"type"`
	Balance             float64     `json:"balance"`
	Color               string      `json:"color"`
	CurrencyCode        string      `json:"currencyCode"`
	LowBalanceThreshold *float64    `json:"lowBalanceThreshold"`
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	a.LowBalanceThreshold = cloneFloat(a.LowBalanceThreshold)
	return a
}

// BelowThreshold reports whether the account has a threshold and its balance is at or under it.
func (a Account) BelowThreshold() bool {
	return a.LowBalanceThreshold != nil && a.Balance <= *a.LowBalanceThreshold
}
