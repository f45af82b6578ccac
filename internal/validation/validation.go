// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined in
// struct tags, supports custom per-field validations for rules
// tags cannot express, and extracts validation errors into a
// format the client can understand.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/items-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required"`),
//     or with a hand-written Validate when rules go beyond tags.
//   - Validate() returns validator.ValidationErrors or CustomValidationErrors.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. An absent body fails immediately with "Body required".
//  2. c.Bind(payload) populates the request struct; bind failures are
//     classified (see classifyBindError).
//  3. payload.Validate() applies validation rules; failures become a
//     *errs.HTTPError (400) with field-level errors.
//
// NOTE: c.Bind expects a pointer to a struct. If payload is not a pointer,
// binding will fail or behave unexpectedly.
func BindAndValidate(c echo.Context, payload Validatable) error {
	// Echo silently skips binding when the body is empty, which would leave
	// the payload zero-valued; the contract wants an explicit rejection for
	// methods that carry a payload.
	if c.Request().ContentLength == 0 && methodCarriesBody(c.Request().Method) {
		return errs.NewBadRequestError("Body required", nil, nil)
	}

	if err := c.Bind(payload); err != nil {
		return classifyBindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, nil, fieldErrors)
	}

	return nil
}

// methodCarriesBody reports whether the request method is expected to carry
// a JSON payload. Mirrors Echo's own binder, which only reads bodies for
// POST/PUT/PATCH/DELETE.
func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// classifyBindError turns Echo bind failures into client errors.
//
// A JSON type mismatch names the offending field (e.g. "value must be
// number"). Everything else (syntax errors, truncated bodies, content-type
// mismatches) means the payload is unusable, so it is treated the same as an
// absent body.
func classifyBindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		message := fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeWord(typeErr.Type))
		return errs.NewBadRequestError(message, nil, []errs.FieldError{
			{Field: typeErr.Field, Error: message},
		})
	}

	return errs.NewBadRequestError("Body required", nil, nil)
}

// jsonTypeWord maps a Go target type onto the JSON vocabulary used in
// client-facing messages.
func jsonTypeWord(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	// validator.ValidationErrors is returned when struct tag validation fails.
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Custom validation errors: convert directly. The first failing rule
		// provides the top-level message.
		if customErrors, isCustom := err.(CustomValidationErrors); isCustom {
			for _, customErr := range customErrors {
				fieldErrors = append(fieldErrors, errs.FieldError{
					Field: customErr.Field,
					Error: customErr.Message,
				})
			}
			if len(fieldErrors) > 0 {
				return fieldErrors[0].Error, fieldErrors
			}
		}

		return "Validation failed", []errs.FieldError{{Error: err.Error()}}
	}

	// Convert validator.ValidationErrors into user-friendly messages.
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		var msg string

		switch fieldErr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min means minimum length for strings, minimum value for numbers.
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fieldErr.Param())
			}

		case "max":
			if fieldErr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fieldErr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fieldErr.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fieldErr.Param())

		default:
			// Fallback for tags not explicitly handled above. Includes tag
			// name and param (if any) to help debugging.
			if fieldErr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fieldErr.Tag(), fieldErr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fieldErr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
