package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRequest is the payload for creating or editing an account. Balance is
// only read on create.
type AccountRequest struct {
	Name                string             `json:"name" binding:"required,min=1,max=100"`
	Type                models.AccountType `json:"type" binding:"required,account_type"`
	Balance             float64            `json:"balance"`
	Color               string             `json:"color" binding:"max=50"`
	CurrencyCode        string             `json:"currencyCode" binding:"required,min=3,max=10"`
	LowBalanceThreshold *float64           `json:"lowBalanceThreshold"`
}

func (r AccountRequest) input() services.AccountInput {
	return services.AccountInput{
		Name:                r.Name,
		Type:                r.Type,
		Balance:             r.Balance,
		Color:               r.Color,
		CurrencyCode:        r.CurrencyCode,
		LowBalanceThreshold: r.LowBalanceThreshold,
	}
}

// CreateAccount handles the creation of a new account.
// @Summary     Create an account
// @Description Create an account. LOAN and CREDIT balances are stored as debt and get a repayment goal.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Unknown currency"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.CreateAccount(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts handles listing accounts.
// @Summary     List accounts
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	result, err := h.accountService.ListAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAccount handles fetching one account.
// @Summary     Get account by ID
// @Tags        accounts
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles editing an account. The balance is left to the ledger.
// @Summary     Update an account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string         true "Account ID"
// @Param       request body AccountRequest true "Account details"
// @Success     200 {object} models.Account
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.accountService.EditAccount(c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles removing an account. Its transactions are kept.
// @Summary     Delete an account
// @Tags        accounts
// @Security    ApiKeyAuth
// @Param       id path string true "Account ID"
// @Success     204
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id := c.Param("id")
	if err := h.accountService.DeleteAccount(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
