package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
)

// ErrorDetail is the body of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope middleware.ErrorHandler writes for every
// error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// invalidInput wraps a binding error as INVALID_INPUT.
func invalidInput(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError records err on the request. middleware.ErrorHandler renders
// it once the handler returns.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
}
