package services

import (
	"context"
	"strings"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// currencyService manages the configured currencies and their static rates.
type currencyService struct {
	store   *store.Store
	fetcher RateFetcher
	audit   AuditServicer
}

// NewCurrencyService creates a new CurrencyServicer. fetcher may be nil, in
// which case RefreshRates is unavailable.
func NewCurrencyService(st *store.Store, fetcher RateFetcher, audit AuditServicer) CurrencyServicer {
	return &currencyService{store: st, fetcher: fetcher, audit: audit}
}

// ListCurrencies returns every configured currency.
func (s *currencyService) ListCurrencies() ([]models.Currency, error) {
	var out []models.Currency
	s.store.View(func(d *models.AppData) {
		out = make([]models.Currency, len(d.Currencies))
		copy(out, d.Currencies)
	})
	return out, nil
}

// AddCurrency adds a non-base currency. The rate must be positive.
func (s *currencyService) AddCurrency(c models.Currency) (*models.Currency, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" || strings.TrimSpace(c.Symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "code and symbol are required")
	}
	if c.Rate <= 0 {
		return nil, apperrors.ErrInvalidRate
	}
	c.IsBase = false

	err := s.store.Transaction(func(tx *store.Tx) error {
		if _, exists := tx.Currency(c.Code); exists {
			return apperrors.ErrDuplicateCurrency
		}
		tx.Data.Currencies = append(tx.Data.Currencies, c)
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("create", "currency", c.Code, map[string]any{"rate": c.Rate})
	return &c, nil
}

// UpdateCurrency changes a currency's name, symbol and rate. The rate of the
// base currency is not validated because it is not used for conversion.
func (s *currencyService) UpdateCurrency(code, name, symbol string, rate float64) (*models.Currency, error) {
	var updated models.Currency
	err := s.store.Transaction(func(tx *store.Tx) error {
		cur, ok := tx.Currency(code)
		if !ok {
			return apperrors.ErrCurrencyNotFound
		}
		if !cur.IsBase && rate <= 0 {
			return apperrors.ErrInvalidRate
		}
		if name != "" {
			cur.Name = name
		}
		if symbol != "" {
			cur.Symbol = symbol
		}
		cur.Rate = rate
		updated = *cur
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("edit", "currency", code, map[string]any{"rate": rate})
	return &updated, nil
}

// DeleteCurrency removes a non-base currency. Accounts using it fall back to
// the resolution policy on conversion.
func (s *currencyService) DeleteCurrency(code string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		for i, c := range tx.Data.Currencies {
			if c.Code != code {
				continue
			}
			if c.IsBase {
				return apperrors.ErrBaseCurrencyProtected
			}
			tx.Data.Currencies = append(tx.Data.Currencies[:i], tx.Data.Currencies[i+1:]...)
			tx.MarkDirty()
			return nil
		}
		return apperrors.ErrCurrencyNotFound
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "currency", code, nil)
	return nil
}

// SetBaseCurrency flips isBase to code in a single step. Rates are left as
// they are; the user re-enters them relative to the new base.
func (s *currencyService) SetBaseCurrency(code string) error {
	err := s.store.Transaction(func(tx *store.Tx) error {
		if _, ok := tx.Currency(code); !ok {
			return apperrors.ErrCurrencyNotFound
		}
		for i := range tx.Data.Currencies {
			tx.Data.Currencies[i].IsBase = tx.Data.Currencies[i].Code == code
		}
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Log("set_base", "currency", code, nil)
	return nil
}

// RefreshRates fetches a live rate for every non-base currency and stores the
// ones that succeed. Individual failures are reported, not fatal.
func (s *currencyService) RefreshRates(ctx context.Context) ([]RateRefresh, error) {
	if s.fetcher == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rate refresh is not configured")
	}

	currencies, _ := s.ListCurrencies()
	base, ok := models.FindBaseCurrency(currencies)
	if !ok {
		return nil, apperrors.ErrCurrencyNotFound
	}

	results := make([]RateRefresh, 0, len(currencies))
	fresh := make(map[string]float64)
	for _, c := range currencies {
		if c.Code == base.Code {
			continue
		}
		r := RateRefresh{Code: c.Code, OldRate: c.Rate}
		// One unit of c expressed in base units.
		rate, err := s.fetcher.GetRate(ctx, c.Code, base.Code)
		if err != nil || rate <= 0 {
			if err == nil {
				err = apperrors.ErrInvalidRate
			}
			logger.Get().Warnw("Failed to refresh exchange rate", "currency_code", c.Code, "base", base.Code, "error", err)
			r.NewRate = c.Rate
			r.Error = err.Error()
		} else {
			r.NewRate = rate
			fresh[c.Code] = rate
		}
		results = append(results, r)
	}
	if len(fresh) == 0 {
		return results, nil
	}

	err := s.store.Transaction(func(tx *store.Tx) error {
		for code, rate := range fresh {
			if cur, ok := tx.Currency(code); ok && !cur.IsBase {
				cur.Rate = rate
				tx.MarkDirty()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("refresh_rates", "currency", base.Code, map[string]any{"updated": len(fresh)})
	return results, nil
}
