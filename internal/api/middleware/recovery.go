package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery middleware catches panics, logs them with stack traces, and returns a 500 error
// with correlation ID (if available) to maintain request traceability
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"correlation_id", GetCorrelationID(c),
				)

				// Headers already went out; the status can no longer change.
				if c.Writer.Written() {
					c.Abort()
					return
				}
				abortWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
			}
		}()

		c.Next()
	}
}

// abortWithError writes the same error envelope the handlers use
func abortWithError(c *gin.Context, status int, code, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, response)
}
