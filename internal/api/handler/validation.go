package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/stats"
)

const dateOnlyLayout = "2006-01-02"

var registerOnce sync.Once

// RegisterValidators adds the custom rules used by the request DTOs to gin's
// validator and makes errors report JSON/form field names. Safe to call repeatedly.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(fieldName)
		err = v.RegisterValidation("notblank", validators.NotBlank)
	})
	return err
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// describeBindingError turns a gin binding failure into a field and message
func describeBindingError(err error) (string, string) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fe.Field(), fmt.Sprintf("invalid %s: %s", fe.Field(), ruleMessage(fe))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field, fmt.Sprintf("invalid %s: must be a %s", typeErr.Field, typeErr.Type.String())
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "", "malformed JSON body"
	}

	return "", "invalid request: " + err.Error()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " rule"
	}
}

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD dates (UTC midnight).
// dateOnly reports which form was given.
func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("must be an ISO-8601 date or timestamp, got %q", s)
}

// parseRange parses optional from/to bounds. A date-only upper bound covers
// its whole UTC day; a timestamp is kept as the exact instant.
func parseRange(from, to string) (*time.Time, *time.Time, string, error) {
	var fromPtr, toPtr *time.Time
	if from != "" {
		t, _, err := parseDate(from)
		if err != nil {
			return nil, nil, "from", err
		}
		fromPtr = &t
	}
	if to != "" {
		t, dateOnly, err := parseDate(to)
		if err != nil {
			return nil, nil, "to", err
		}
		if dateOnly {
			t = stats.EndOfDay(t)
		}
		toPtr = &t
	}
	if fromPtr != nil && toPtr != nil && fromPtr.After(*toPtr) {
		return nil, nil, "from", errors.New("must not be after to")
	}
	return fromPtr, toPtr, "", nil
}
