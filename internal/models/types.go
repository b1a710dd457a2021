package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for transaction dates, due dates and deadlines.
const DateLayout = "2006-01-02"

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Signed applies the type's sign to amount: +amount for income, -amount for expense.
func (t TransactionType) Signed(amount float64) float64 {
	if t == TransactionTypeIncome {
		return amount
	}
	return -amount
}

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCash   AccountType = "CASH"
	AccountTypeBank   AccountType = "BANK"
	AccountTypeCredit AccountType = "CREDIT"
	AccountTypeLoan   AccountType = "LOAN"
	AccountTypeOther  AccountType = "OTHER"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCredit, AccountTypeLoan, AccountTypeOther:
		return true
	}
	return false
}

// IsDebt reports whether accounts of this type hold a non-positive debt balance.
func (t AccountType) IsDebt() bool {
	return t == AccountTypeCredit || t == AccountTypeLoan
}

// ResolutionPolicy decides what happens when an operation meets an id or currency
// code that no longer resolves against the store.
type ResolutionPolicy string

const (
	// PolicyWarnAndSkip logs a warning and skips the unresolvable side of the operation.
	PolicyWarnAndSkip ResolutionPolicy = "WARN_AND_SKIP"
	// PolicyFailFast rejects the whole operation.
	PolicyFailFast ResolutionPolicy = "FAIL_FAST"
)

// ParseResolutionPolicy parses a policy name, defaulting to PolicyWarnAndSkip when empty.
func ParseResolutionPolicy(s string) (ResolutionPolicy, error) {
	switch ResolutionPolicy(s) {
	case "":
		return PolicyWarnAndSkip, nil
	case PolicyWarnAndSkip, PolicyFailFast:
		return ResolutionPolicy(s), nil
	}
	return "", fmt.Errorf("invalid resolution policy %q: must be %s or %s", s, PolicyWarnAndSkip, PolicyFailFast)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate formats t as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
