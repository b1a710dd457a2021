package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cnds86/kiptrack/internal/errors"
)

// APIKeyHeader carries the shared key on every API request.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns a Gin middleware that validates the X-API-Key header
// against apiKey. An empty apiKey leaves the API open, for a server bound to
// localhost.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(apperrors.ErrUnauthorized.StatusCode,
				gin.H{"error": gin.H{"code": apperrors.ErrUnauthorized.Code, "message": apperrors.ErrUnauthorized.Message}})
			return
		}
		c.Next()
	}
}
