package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/logger"
)

const (
	// CorrelationIDHeader is the HTTP header for correlation ID
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the key used to store correlation ID in the gin context
	CorrelationIDKey = "correlation_id"

	maxCorrelationIDLength = 128
)

// CorrelationID tags each request with the caller's X-Correlation-ID or a new
// UUID. The id is echoed back and also stored on the request context so the
// services can attach it to movement events.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" || len(correlationID) > maxCorrelationIDLength {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()
	}
}

// GetCorrelationID retrieves the correlation ID from the gin context if present
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
