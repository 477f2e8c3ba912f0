package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/api/middleware"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// Error codes returned in the error envelope
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error         ErrorInfo `json:"error"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// RespondOK sends a 200 OK response with the bare resource
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with the bare resource
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message, field string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorInfo{
			Code:    code,
			Message: message,
			Field:   field,
		},
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondValidationError sends a 400 Bad Request naming the offending field
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeValidation, message, field)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message, "")
}

// RespondServiceUnavailable sends a 503 when the store cannot be reached
func RespondServiceUnavailable(c *gin.Context) {
	RespondWithError(c, http.StatusServiceUnavailable, CodeStoreUnavailable, "The movement store is unavailable, retry later", "")
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred", "")
}

// RespondWithDomainError maps service errors onto HTTP statuses. Only
// unexpected failures are logged here; the services log their own.
func RespondWithDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr movement.ValidationError
	switch {
	case errors.As(err, &validationErr):
		RespondValidationError(c, validationErr.Field, validationErr.Error())
	case errors.Is(err, movement.ErrMovementNotFound{}):
		RespondNotFound(c, "Movement not found")
	case errors.Is(err, movement.ErrStoreUnavailable):
		RespondServiceUnavailable(c)
	default:
		logger.Error("Unhandled error",
			"path", c.Request.URL.Path,
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}
