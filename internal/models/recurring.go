package models

import "fmt"

// Frequency is how often a recurring transaction repeats.
type Frequency string

const (
	FrequencyNever   Frequency = "NEVER"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// Valid reports whether f is a schedulable frequency. NEVER is not.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Advance moves a YYYY-MM-DD date forward by exactly one period.
// Month and year steps keep the day of month and let the calendar normalize
// overflow, so 2024-01-31 + 1 month is 2024-03-02.
func (f Frequency) Advance(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	switch f {
	case FrequencyDaily:
		d = d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		d = d.AddDate(0, 0, 7)
	case FrequencyMonthly:
		d = d.AddDate(0, 1, 0)
	case FrequencyYearly:
		d = d.AddDate(1, 0, 0)
	default:
		return "", fmt.Errorf("cannot advance date with frequency %q", f)
	}
	return FormatDate(d), nil
}

// RecurringTransaction is a rule that materializes a transaction every period.
// NextDueDate is the next date at or after which a materialization is due.
type RecurringTransaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	CategoryID  string          `json:"categoryId"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Note        string          `json:"note"`
	Frequency   Frequency       `json:"frequency"`
	NextDueDate string          `json:"nextDueDate"`
}

// DueOn reports whether the rule is due on the given YYYY-MM-DD day.
// Lexicographic comparison of ISO dates is chronological.
func (r RecurringTransaction) DueOn(today string) bool {
	return r.NextDueDate <= today
}
