package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest is the payload for a new category.
type CreateCategoryRequest struct {
	Name  string                 `json:"name" binding:"required,min=1,max=100"`
	Icon  string                 `json:"icon" binding:"max=50"`
	Type  models.TransactionType `json:"type" binding:"required,category_type"`
	Color string                 `json:"color" binding:"max=50"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	category, err := h.categoryService.CreateCategory(services.CategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Type:  req.Type,
		Color: req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories handles listing the categories of one type
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    ApiKeyAuth
// @Param       type query string true "INCOME or EXPENSE"
// @Success     200 {array} models.Category
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categoryType, err := parseCategoryType(c.Query("type"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// DeleteCategory handles removing a category. Categories the ledger writes on
// its own are refused.
// @Summary     Delete a category
// @Tags        categories
// @Security    ApiKeyAuth
// @Param       type path string true "INCOME or EXPENSE"
// @Param       id   path string true "Category ID"
// @Success     204
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category is protected"
// @Router      /categories/{type}/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryType, err := parseCategoryType(c.Param("type"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	id := c.Param("id")

	if err := h.categoryService.DeleteCategory(categoryType, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseCategoryType(v string) (models.TransactionType, error) {
	t := models.TransactionType(v)
	if !t.Valid() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be INCOME or EXPENSE")
	}
	return t, nil
}
