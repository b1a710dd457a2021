package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/store"
)

// notificationService emits and lists notifications.
type notificationService struct {
	store *store.Store
	opts  Options
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(st *store.Store, opts Options) NotificationServicer {
	return &notificationService{store: st, opts: opts.withDefaults()}
}

// Emit prepends a notification, assigning an id and timestamp when missing.
func (s *notificationService) Emit(tx *store.Tx, n models.Notification, now time.Time) {
	if n.ID == "" {
		n.ID = ids.New(ids.PrefixNotification)
	}
	if n.Date.IsZero() {
		n.Date = now.UTC()
	}
	tx.PrependNotification(n)
}

// CheckLowBalances warns about every account at or under its threshold,
// unless the same account was already warned about within the dedup window.
func (s *notificationService) CheckLowBalances(tx *store.Tx, now time.Time) {
	cutoff := now.Add(-s.opts.DedupWindow)
	for _, acc := range tx.Data.Accounts {
		if !acc.BelowThreshold() {
			continue
		}
		if s.recentlyWarned(tx, acc, cutoff) {
			continue
		}
		s.Emit(tx, models.Notification{
			Type:      models.NotificationLowBalance,
			Title:     "Low balance",
			Message:   fmt.Sprintf("%s: %s", acc.Name, formatBalance(tx, acc)),
			Severity:  models.SeverityWarning,
			AccountID: models.StringPtr(acc.ID),
		}, now)
	}
}

// ScanLowBalances runs the low-balance check on its own, for balance changes
// that do not go through the ledger such as imports and loaded documents.
func (s *notificationService) ScanLowBalances() error {
	return s.store.Transaction(func(tx *store.Tx) error {
		s.CheckLowBalances(tx, s.opts.Now())
		return nil
	})
}

func (s *notificationService) recentlyWarned(tx *store.Tx, acc models.Account, cutoff time.Time) bool {
	for _, n := range tx.Data.Notifications {
		if n.Type == models.NotificationLowBalance && n.Date.After(cutoff) && n.RefersToAccount(acc) {
			return true
		}
	}
	return false
}

// ListNotifications returns notifications newest first.
func (s *notificationService) ListNotifications(page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()
	var result pagination.PageResponse[models.Notification]
	s.store.View(func(d *models.AppData) {
		result = pagination.Paginate(d.Notifications, page)
	})
	return &result, nil
}

// ClearNotifications removes every notification.
func (s *notificationService) ClearNotifications() error {
	return s.store.Transaction(func(tx *store.Tx) error {
		if len(tx.Data.Notifications) == 0 {
			return nil
		}
		tx.Data.Notifications = []models.Notification{}
		tx.MarkDirty()
		return nil
	})
}

func formatBalance(tx *store.Tx, acc models.Account) string {
	amount := decimal.NewFromFloat(acc.Balance).Round(2).String()
	if cur, ok := tx.Currency(acc.CurrencyCode); ok {
		return cur.Symbol + " " + amount
	}
	return amount + " " + acc.CurrencyCode
}
