package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// RecurringHandler handles recurring transaction requests.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	now              func() time.Time
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, now: time.Now}
}

// RecurringRequest is the payload for a standalone recurring rule.
type RecurringRequest struct {
	AccountID   string                 `json:"accountId" binding:"required"`
	CategoryID  string                 `json:"categoryId" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      float64                `json:"amount" binding:"required,gt=0"`
	Note        string                 `json:"note" binding:"max=500"`
	Frequency   models.Frequency       `json:"frequency" binding:"required,frequency"`
	NextDueDate string                 `json:"nextDueDate" binding:"required,calendar_date"`
}

// ProcessRequest optionally overrides the evaluation date.
type ProcessRequest struct {
	Today string `json:"today" binding:"omitempty,calendar_date"`
}

// CreateRecurring handles creating a recurring rule
// @Summary     Create a recurring transaction
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecurringRequest true "Recurring rule"
// @Success     201 {object} models.RecurringTransaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	rule, err := h.recurringService.CreateRecurring(services.RecurringInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Amount:      req.Amount,
		Note:        req.Note,
		Frequency:   req.Frequency,
		NextDueDate: req.NextDueDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring": rule})
}

// ListRecurring handles listing recurring rules
// @Summary     List recurring transactions
// @Tags        recurring
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array} models.RecurringTransaction
// @Router      /recurring [get]
func (h *RecurringHandler) ListRecurring(c *gin.Context) {
	rules, err := h.recurringService.ListRecurring()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recurring": rules})
}

// DeleteRecurring handles removing a recurring rule
// @Summary     Delete a recurring transaction
// @Tags        recurring
// @Security    ApiKeyAuth
// @Param       id path string true "Recurring ID"
// @Success     204
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	id := c.Param("id")
	if err := h.recurringService.DeleteRecurring(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessDue handles a manual scheduler pass
// @Summary     Process due recurring transactions
// @Description Materializes every rule due on or before today (default: the server's date) and advances each by one period.
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ProcessRequest false "Evaluation date"
// @Success     200 {object} services.ProcessResult
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recurring/process [post]
func (h *RecurringHandler) ProcessDue(c *gin.Context) {
	var req ProcessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, invalidInput(err))
			return
		}
	}
	today := req.Today
	if today == "" {
		today = models.FormatDate(h.now())
	}

	result, err := h.recurringService.ProcessDue(today)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
