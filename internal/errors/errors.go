// Package errors provides custom error types for the kiptrack ledger.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so a wrapped or re-messaged
// copy still satisfies errors.Is against its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Access errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Missing or invalid API key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrStoreNotReady  = &AppError{Code: "STORE_NOT_READY", Message: "Ledger data has not been loaded yet", StatusCode: http.StatusServiceUnavailable}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Goal errors.
var (
	ErrGoalNotFound = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
)

// Recurring transaction errors.
var (
	ErrRecurringNotFound = &AppError{Code: "RECURRING_NOT_FOUND", Message: "Recurring transaction not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryProtected = &AppError{Code: "CATEGORY_PROTECTED", Message: "This category is used by the ledger and cannot be deleted", StatusCode: http.StatusConflict}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this id already exists", StatusCode: http.StatusConflict}
)

// Currency errors.
var (
	ErrCurrencyNotFound      = &AppError{Code: "CURRENCY_NOT_FOUND", Message: "Currency not found", StatusCode: http.StatusNotFound}
	ErrUnknownCurrency       = &AppError{Code: "UNKNOWN_CURRENCY", Message: "Currency code does not resolve to a configured currency", StatusCode: http.StatusUnprocessableEntity}
	ErrDuplicateCurrency     = &AppError{Code: "DUPLICATE_CURRENCY", Message: "A currency with this code already exists", StatusCode: http.StatusConflict}
	ErrBaseCurrencyProtected = &AppError{Code: "BASE_CURRENCY_PROTECTED", Message: "The base currency cannot be deleted", StatusCode: http.StatusConflict}
	ErrInvalidRate           = &AppError{Code: "INVALID_RATE", Message: "Exchange rate must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Backup errors.
var (
	ErrInvalidImport = &AppError{Code: "INVALID_IMPORT", Message: "Backup file is malformed", StatusCode: http.StatusBadRequest}
)

// AI proposal errors.
var (
	ErrInvalidProposal    = &AppError{Code: "INVALID_PROPOSAL", Message: "The AI response could not be understood", StatusCode: http.StatusUnprocessableEntity}
	ErrProposalIncomplete = &AppError{Code: "PROPOSAL_INCOMPLETE", Message: "Proposal is missing fields that need confirmation", StatusCode: http.StatusUnprocessableEntity}
	ErrAIUnavailable      = &AppError{Code: "AI_UNAVAILABLE", Message: "The AI service is unavailable", StatusCode: http.StatusServiceUnavailable}
)
