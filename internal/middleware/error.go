package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
	"github.com/cnds86/kiptrack/internal/logger"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// ErrorHandler renders the last error a handler recorded with c.Error as the
// JSON error envelope. Ledger errors keep their status, code and message;
// anything else is logged and reported as INTERNAL_ERROR. Responses a handler
// already wrote are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := resolve(c, c.Errors.Last().Err)
		c.AbortWithStatusJSON(appErr.StatusCode, errorBody{Error: errorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
		}})
	}
}

func resolve(c *gin.Context, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("Request failed",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
			)
		}
		return appErr
	}

	logger.Get().Errorw("Unexpected error",
		"error", err.Error(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
	)
	return apperrors.ErrInternalServer
}
