// Package currency converts amounts between configured currencies and the base currency.
package currency

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
)

var one = decimal.NewFromInt(1)

// Converter converts amounts using a snapshot of the configured static rates.
// A rate is the number of base units equal to one unit of the currency.
type Converter struct {
	currencies map[string]models.Currency
	base       models.Currency
	hasBase    bool
	policy     models.ResolutionPolicy
}

// NewConverter builds a converter over the given currencies.
func NewConverter(currencies []models.Currency, policy models.ResolutionPolicy) *Converter {
	c := &Converter{
		currencies: make(map[string]models.Currency, len(currencies)),
		policy:     policy,
	}
	for _, cur := range currencies {
		c.currencies[cur.Code] = cur
	}
	c.base, c.hasBase = models.FindBaseCurrency(currencies)
	return c
}

// Base returns the base currency. The boolean is false when no currencies are configured.
func (c *Converter) Base() (models.Currency, bool) {
	return c.base, c.hasBase
}

// Rate resolves the rate for code. An unknown code, or one with a non-positive
// rate, resolves to 1 with a warning under WARN_AND_SKIP and to
// ErrUnknownCurrency under FAIL_FAST.
func (c *Converter) Rate(code string) (decimal.Decimal, error) {
	cur, ok := c.currencies[code]
	if ok && cur.Rate > 0 {
		return decimal.NewFromFloat(cur.Rate), nil
	}
	if c.policy == models.PolicyFailFast {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrUnknownCurrency, "Currency "+code+" does not resolve to a usable rate")
	}
	logger.Get().Warnw("Unresolvable currency, treating amount as base units",
		"currency_code", code,
		"known", ok,
	)
	return one, nil
}

// ToBase converts amount in code into base currency.
func (c *Converter) ToBase(amount float64, code string) (float64, error) {
	rate, err := c.Rate(code)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(amount).Mul(rate).InexactFloat64(), nil
}

// FromBase converts a base-currency amount into code.
func (c *Converter) FromBase(amount float64, code string) (float64, error) {
	rate, err := c.Rate(code)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(amount).Div(rate).InexactFloat64(), nil
}

// Convert moves amount from one currency to another through the base currency.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	inBase, err := c.ToBase(amount, from)
	if err != nil {
		return 0, err
	}
	return c.FromBase(inBase, to)
}

// NetWorth sums account balances in base currency.
func (c *Converter) NetWorth(accounts []models.Account) (float64, error) {
	total := decimal.Zero
	for _, a := range accounts {
		rate, err := c.Rate(a.CurrencyCode)
		if err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromFloat(a.Balance).Mul(rate))
	}
	return total.InexactFloat64(), nil
}
