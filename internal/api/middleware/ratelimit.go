package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits requests per client IP using an in-process store.
// rate uses the limiter format, e.g. "600-M".
func RateLimit(logger *slog.Logger, rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	ipLimiter := limiter.New(memory.NewStore(), parsed)

	return limitergin.NewMiddleware(ipLimiter,
		limitergin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Warn("Rate limit exceeded",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
				"correlation_id", GetCorrelationID(c),
			)
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, retry later")
		}),
		limitergin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Error("Failed to check rate limit", "client_ip", c.ClientIP(), "error", err)
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
		}),
	), nil
}
