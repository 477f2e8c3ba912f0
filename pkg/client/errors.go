package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	Field         string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d %s (%s): %s", e.StatusCode, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the API
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}
