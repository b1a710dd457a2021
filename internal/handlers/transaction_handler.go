package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is the payload for recording or editing a transaction.
// Recurrence is only read on create; NEVER or empty records a one-off.
type TransactionRequest struct {
	AccountID    string                 `json:"accountId" binding:"required"`
	Type         models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount       float64                `json:"amount" binding:"required,gt=0"`
	CategoryID   string                 `json:"categoryId" binding:"required"`
	Date         string                 `json:"date" binding:"required,calendar_date"`
	Note         string                 `json:"note" binding:"max=500"`
	LinkedGoalID *string                `json:"linkedGoalId"`
	Recurrence   models.Frequency       `json:"recurrence" binding:"omitempty,frequency"`
}

func (r TransactionRequest) input() services.TransactionInput {
	return services.TransactionInput{
		AccountID:    r.AccountID,
		Type:         r.Type,
		Amount:       r.Amount,
		CategoryID:   r.CategoryID,
		Date:         r.Date,
		Note:         r.Note,
		LinkedGoalID: r.LinkedGoalID,
	}
}

// CreateTransaction handles recording a new transaction
// @Summary     Record a transaction
// @Description Record an income or expense and apply it to the account balance. A recurrence other than NEVER also schedules the next occurrence.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found (FAIL_FAST)"
// @Failure     503 {object} ErrorResponse "Ledger not loaded"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	var recurrence *models.Frequency
	if req.Recurrence != "" {
		recurrence = &req.Recurrence
	}

	txn, err := h.transactionService.RecordTransaction(req.input(), recurrence)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// ListTransactions handles listing transactions, newest date first
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       account_id  query string false "Filter by account ID"
// @Param       category_id query string false "Filter by category ID"
// @Param       type        query string false "Filter by type (INCOME, EXPENSE)"
// @Param       from_date   query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date     query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSummary handles the dashboard totals
// @Summary     Ledger summary
// @Description Net worth, income, expense and expense by category, all in base currency.
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       account_id  query string false "Filter by account ID"
// @Param       from_date   query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date     query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} services.Summary
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Unknown currency (FAIL_FAST)"
// @Router      /summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	for _, p := range []struct {
		name string
		dst  **string
	}{{"from_date", &filter.FromDate}, {"to_date", &filter.ToDate}} {
		v := c.Query(p.name)
		if v == "" {
			continue
		}
		if _, err := models.ParseDate(v); err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+p.name+" format, use YYYY-MM-DD")
		}
		*p.dst = &v
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be INCOME or EXPENSE")
		}
		filter.Type = &txType
	}

	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("account_id"); v != "" {
		filter.AccountID = &v
	}

	return filter, nil
}

// GetTransaction handles fetching one transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransactionByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// UpdateTransaction handles editing a transaction. The old effect is reversed
// and the new one applied in a single step.
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	txn, err := h.transactionService.EditTransaction(c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction handles removing a transaction and reversing its effect
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    ApiKeyAuth
// @Param       id path string true "Transaction ID"
// @Success     204
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := h.transactionService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
