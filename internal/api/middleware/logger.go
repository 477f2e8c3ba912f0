package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access log line per request. 5xx responses log at error
// level and 4xx at warn.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		requestLogger := logger
		if correlationID := GetCorrelationID(c); correlationID != "" {
			requestLogger = logger.With("correlation_id", correlationID)
		}

		if raw != "" {
			path = path + "?" + raw
		}

		statusCode := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case statusCode >= http.StatusInternalServerError:
			level = slog.LevelError
		case statusCode >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		requestLogger.Log(c.Request.Context(), level, "HTTP request",
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", statusCode,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
