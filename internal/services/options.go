package services

import (
	"fmt"
	"time"

	"github.com/cnds86/kiptrack/internal/currency"
	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// DefaultDedupWindow is how long a low-balance warning suppresses repeats for the same account.
const DefaultDedupWindow = 24 * time.Hour

// Options configures the ledger services.
type Options struct {
	Policy      models.ResolutionPolicy
	DedupWindow time.Duration
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = models.PolicyWarnAndSkip
	}
	if o.DedupWindow <= 0 {
		o.DedupWindow = DefaultDedupWindow
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// today returns the current calendar date.
func (o Options) today() string {
	return models.FormatDate(o.Now())
}

// converter builds a currency converter over the working copy's currencies.
func (o Options) converter(tx *store.Tx) *currency.Converter {
	return o.converterFor(tx.Data.Currencies)
}

func (o Options) converterFor(currencies []models.Currency) *currency.Converter {
	return currency.NewConverter(currencies, o.Policy)
}

// unresolved applies the resolution policy to a reference that no longer
// resolves. Under WARN_AND_SKIP it logs and returns nil so the caller skips
// that side of the operation.
func (o Options) unresolved(sentinel *apperrors.AppError, kind, id, operation string) error {
	if o.Policy == models.PolicyFailFast {
		return apperrors.WithMessage(sentinel, fmt.Sprintf("%s %s not found", kind, id))
	}
	logger.Get().Warnw("Dangling reference skipped",
		"kind", kind,
		"id", id,
		"operation", operation,
	)
	return nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return nil
}

func validateDate(date string) error {
	if _, err := models.ParseDate(date); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}
