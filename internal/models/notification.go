package models

import (
	"strings"
	"time"
)

// NotificationType identifies what raised a notification.
type NotificationType string

const (
	NotificationLowBalance        NotificationType = "LOW_BALANCE"
	NotificationUpcomingRecurring NotificationType = "UPCOMING_RECURRING"
	NotificationGoalReached       NotificationType = "GOAL_REACHED"
	NotificationDebtPaid          NotificationType = "DEBT_PAID"
)

// Severity is the display level of a notification.
type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
)

// Notification is an append-only message shown to the user, newest first.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Date      time.Time        `json:"date"`
	Severity  Severity         `json:"severity"`
	AccountID *string          `json:"accountId"`
}

// Clone returns a deep copy of the notification.
func (n Notification) Clone() Notification {
	n.AccountID = cloneString(n.AccountID)
	return n
}

// RefersToAccount reports whether the notification was raised for the account.
// Notifications written before accountId existed are matched on the account name
// appearing in the message.
func (n Notification) RefersToAccount(account Account) bool {
	if n.AccountID != nil {
		return *n.AccountID == account.ID
	}
	return account.Name != "" && strings.Contains(n.Message, account.Name)
}
