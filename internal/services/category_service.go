package services

import (
	"strings"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/ids"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/store"
)

// categoryService handles the income and expense category collections.
type categoryService struct {
	store *store.Store
	audit AuditServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(st *store.Store, audit AuditServicer) CategoryServicer {
	return &categoryService{store: st, audit: audit}
}

// CreateCategory appends a category to the collection of its type.
func (s *categoryService) CreateCategory(input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}

	category := models.Category{
		ID:    ids.New(ids.PrefixCategory),
		Name:  strings.TrimSpace(input.Name),
		Icon:  input.Icon,
		Type:  input.Type,
		Color: input.Color,
	}

	err := s.store.Transaction(func(tx *store.Tx) error {
		if category.Type == models.TransactionTypeIncome {
			tx.Data.IncomeCategories = append(tx.Data.IncomeCategories, category)
		} else {
			tx.Data.ExpenseCategories = append(tx.Data.ExpenseCategories, category)
		}
		tx.MarkDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("create", "category", category.ID, map[string]any{"type": category.Type})
	return &category, nil
}

// DeleteCategory removes a category from the collection of the given type.
// Transactions that use it keep the dangling id. Categories the ledger writes
// on its own cannot be deleted.
func (s *categoryService) DeleteCategory(categoryType models.TransactionType, id string) error {
	if !categoryType.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	if models.IsProtectedCategory(id) {
		return apperrors.ErrCategoryProtected
	}

	err := s.store.Transaction(func(tx *store.Tx) error {
		list := &tx.Data.ExpenseCategories
		if categoryType == models.TransactionTypeIncome {
			list = &tx.Data.IncomeCategories
		}
		for i, c := range *list {
			if c.ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				tx.MarkDirty()
				return nil
			}
		}
		return apperrors.ErrCategoryNotFound
	})
	if err != nil {
		return err
	}

	s.audit.Log("delete", "category", id, map[string]any{"type": categoryType})
	return nil
}

// ListCategories returns the collection for the given type.
func (s *categoryService) ListCategories(categoryType models.TransactionType) ([]models.Category, error) {
	if !categoryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	var out []models.Category
	s.store.View(func(d *models.AppData) {
		src := d.Categories(categoryType)
		out = make([]models.Category, len(src))
		copy(out, src)
	})
	return out, nil
}
