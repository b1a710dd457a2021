package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// CurrencyHandler handles currency settings.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// AddCurrencyRequest is the payload for a new currency. New currencies are
// never the base; use the set-base endpoint.
type AddCurrencyRequest struct {
	Code   string  `json:"code" binding:"required,min=3,max=10"`
	Name   string  `json:"name" binding:"required,max=100"`
	Symbol string  `json:"symbol" binding:"required,max=10"`
	Rate   float64 `json:"rate" binding:"required,gt=0"`
}

// UpdateCurrencyRequest is the payload for editing a currency.
type UpdateCurrencyRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Symbol string  `json:"symbol" binding:"max=10"`
	Rate   float64 `json:"rate" binding:"required,gt=0"`
}

// ListCurrencies handles listing currencies
// @Summary     List currencies
// @Tags        currencies
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array} models.Currency
// @Router      /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// AddCurrency handles adding a currency
// @Summary     Add a currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AddCurrencyRequest true "Currency"
// @Success     201 {object} models.Currency
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate currency"
// @Router      /currencies [post]
func (h *CurrencyHandler) AddCurrency(c *gin.Context) {
	var req AddCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	currency, err := h.currencyService.AddCurrency(models.Currency{
		Code:   req.Code,
		Name:   req.Name,
		Symbol: req.Symbol,
		Rate:   req.Rate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// UpdateCurrency handles editing a currency's name, symbol and rate
// @Summary     Update a currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       code    path string                true "Currency code"
// @Param       request body UpdateCurrencyRequest true "Currency"
// @Success     200 {object} models.Currency
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /currencies/{code} [put]
func (h *CurrencyHandler) UpdateCurrency(c *gin.Context) {
	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	code := strings.ToUpper(c.Param("code"))
	currency, err := h.currencyService.UpdateCurrency(code, req.Name, req.Symbol, req.Rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// DeleteCurrency handles removing a currency
// @Summary     Delete a currency
// @Tags        currencies
// @Security    ApiKeyAuth
// @Param       code path string true "Currency code"
// @Success     204
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Base currency is protected"
// @Router      /currencies/{code} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if err := h.currencyService.DeleteCurrency(code); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetBaseCurrency handles switching the base currency
// @Summary     Set the base currency
// @Description Flips the base flag and rebases every rate so that stored amounts keep their value.
// @Tags        currencies
// @Produce     json
// @Security    ApiKeyAuth
// @Param       code path string true "Currency code"
// @Success     200 {array} models.Currency
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /currencies/{code}/base [post]
func (h *CurrencyHandler) SetBaseCurrency(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if err := h.currencyService.SetBaseCurrency(code); err != nil {
		respondWithError(c, err)
		return
	}

	h.ListCurrencies(c)
}

// RefreshRates handles a live rate refresh
// @Summary     Refresh exchange rates
// @Description Fetches live rates for every non-base currency. Per-currency failures are reported, not fatal.
// @Tags        currencies
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array} services.RateRefresh
// @Failure     503 {object} ErrorResponse "Forex provider not configured"
// @Router      /currencies/refresh [post]
func (h *CurrencyHandler) RefreshRates(c *gin.Context) {
	results, err := h.currencyService.RefreshRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
