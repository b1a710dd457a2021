// Package seed loads the default collections for a brand-new ledger document
// from an optional YAML file.
package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
	kvalidator "github.com/cnds86/kiptrack/internal/validator"
)

// File is the YAML layout of a seed file. Omitted sections keep the built-in defaults.
type File struct {
	Currencies        []Currency `yaml:"currencies" validate:"omitempty,dive"`
	Accounts          []Account  `yaml:"accounts" validate:"omitempty,dive"`
	IncomeCategories  []Category `yaml:"income_categories" validate:"omitempty,dive"`
	ExpenseCategories []Category `yaml:"expense_categories" validate:"omitempty,dive"`
}

// Currency is a seeded currency.
type Currency struct {
	Code   string  `yaml:"code" validate:"required,iso4217"`
	Name   string  `yaml:"name" validate:"required"`
	Symbol string  `yaml:"symbol" validate:"required"`
	Rate   float64 `yaml:"rate" validate:"gt=0"`
	Base   bool    `yaml:"base"`
}

// Account is a seeded account.
type Account struct {
	ID                  string   `yaml:"id" validate:"required"`
	Name                string   `yaml:"name" validate:"required"`
	Type                string   `yaml:"type" validate:"required,account_type"`
	Color               string   `yaml:"color"`
	Currency            string   `yaml:"currency" validate:"required"`
	Balance             float64  `yaml:"balance"`
	LowBalanceThreshold *float64 `yaml:"low_balance_threshold"`
}

// Category is a seeded category. Its type comes from the section it is listed in.
type Category struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color" validate:"omitempty,hex_color"`
}

// Load returns the defaults for a new document. An empty path or a missing
// file yields the built-in defaults.
func Load(path string) (models.AppData, error) {
	if path == "" {
		return models.DefaultData(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Get().Warnw("Seed file not found, using built-in defaults", "path", path)
			return models.DefaultData(), nil
		}
		return models.AppData{}, fmt.Errorf("read seed file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return models.AppData{}, fmt.Errorf("seed file %s: %w", path, err)
	}
	logger.Get().Infow("Seed file loaded",
		"path", path,
		"currencies", len(d.Currencies),
		"accounts", len(d.Accounts),
	)
	return d, nil
}

// Parse validates a seed document and merges it over the built-in defaults.
func Parse(data []byte) (models.AppData, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return models.AppData{}, fmt.Errorf("parse seed: %w", err)
	}

	v := validator.New()
	kvalidator.RegisterOn(v)
	if err := v.Struct(f); err != nil {
		return models.AppData{}, fmt.Errorf("invalid seed: %w", err)
	}

	d := models.DefaultData()
	if len(f.Currencies) > 0 {
		d.Currencies = make([]models.Currency, 0, len(f.Currencies))
		bases := 0
		for _, c := range f.Currencies {
			if c.Base {
				bases++
				c.Rate = 1
			}
			d.Currencies = append(d.Currencies, models.Currency{
				Code: c.Code, Name: c.Name, Symbol: c.Symbol, Rate: c.Rate, IsBase: c.Base,
			})
		}
		if bases != 1 {
			return models.AppData{}, fmt.Errorf("invalid seed: exactly one base currency is required, got %d", bases)
		}
	}

	if f.Accounts != nil {
		d.Accounts = make([]models.Account, 0, len(f.Accounts))
		for _, a := range f.Accounts {
			if !hasCurrency(d.Currencies, a.Currency) {
				return models.AppData{}, fmt.Errorf("invalid seed: account %s uses unknown currency %s", a.ID, a.Currency)
			}
			acc := models.Account{
				ID:                  a.ID,
				Name:                a.Name,
				Type:                models.AccountType(a.Type),
				Balance:             a.Balance,
				Color:               a.Color,
				CurrencyCode:        a.Currency,
				LowBalanceThreshold: a.LowBalanceThreshold,
			}
			if acc.Type.IsDebt() && acc.Balance > 0 {
				acc.Balance = -acc.Balance
			}
			d.Accounts = append(d.Accounts, acc)
		}
	}

	if len(f.IncomeCategories) > 0 {
		d.IncomeCategories = categories(f.IncomeCategories, models.TransactionTypeIncome, models.DefaultIncomeCategories)
	}
	if len(f.ExpenseCategories) > 0 {
		d.ExpenseCategories = categories(f.ExpenseCategories, models.TransactionTypeExpense, models.DefaultExpenseCategories)
	}
	return d, nil
}

// categories converts a seeded section and re-adds any fixed category the
// ledger writes on its own.
func categories(seeded []Category, t models.TransactionType, defaults []models.Category) []models.Category {
	out := make([]models.Category, 0, len(seeded))
	seen := make(map[string]bool, len(seeded))
	for _, c := range seeded {
		out = append(out, models.Category{ID: c.ID, Name: c.Name, Icon: c.Icon, Type: t, Color: c.Color})
		seen[c.ID] = true
	}
	for _, c := range defaults {
		if models.IsProtectedCategory(c.ID) && !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func hasCurrency(currencies []models.Currency, code string) bool {
	for _, c := range currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}
