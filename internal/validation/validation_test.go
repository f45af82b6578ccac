package validation_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/items-api/internal/errs"
	"github.com/deppfellow/items-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validate = validator.New()

// taggedPayload exercises the validator-tag path of the validation pipeline.
type taggedPayload struct {
	Name  string `json:"name" validate:"required,min=2"`
	Level string `json:"level" validate:"omitempty,oneof=low high"`
}

func (p *taggedPayload) Validate() error {
	return validate.Struct(p)
}

// customPayload exercises the custom-rule path.
type customPayload struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

func (p *customPayload) Validate() error {
	var validationErrors validation.CustomValidationErrors
	if strings.TrimSpace(p.Name) == "" {
		validationErrors = append(validationErrors, validation.CustomValidationError{
			Field:   "name",
			Message: "name must be string",
		})
	}
	if p.Value == nil {
		validationErrors = append(validationErrors, validation.CustomValidationError{
			Field:   "value",
			Message: "value must be number",
		})
	}
	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func newContext(method, body string) echo.Context {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	require.Error(t, err)
	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok, "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := newContext(http.MethodPost, `{"name":"widget","value":3.5}`)

	payload := &customPayload{}
	require.NoError(t, validation.BindAndValidate(c, payload))
	assert.Equal(t, "widget", payload.Name)
	require.NotNil(t, payload.Value)
	assert.Equal(t, 3.5, *payload.Value)
}

func TestBindAndValidateEmptyBody(t *testing.T) {
	c := newContext(http.MethodPost, "")

	err := validation.BindAndValidate(c, &customPayload{})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Body required", httpErr.Message)
}

func TestBindAndValidateEmptyBodyAllowedForGET(t *testing.T) {
	// GET requests carry no payload; the body-required rule only applies to
	// body-carrying methods.
	c := newContext(http.MethodGet, "")

	err := validation.BindAndValidate(c, &customPayload{Name: "n"})
	// Binding is skipped, so only Validate runs; Value is still nil.
	httpErr := asHTTPError(t, err)
	assert.Equal(t, "value must be number", httpErr.Message)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, `{oops`)

	err := validation.BindAndValidate(c, &customPayload{})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Body required", httpErr.Message)
}

func TestBindAndValidateTypeMismatchNamesField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string into number", `{"name":"x","value":"y"}`, "value must be number"},
		{"number into string", `{"name":7,"value":1}`, "name must be string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPost, tt.body)

			err := validation.BindAndValidate(c, &customPayload{})
			httpErr := asHTTPError(t, err)
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, tt.want, httpErr.Message)
		})
	}
}

func TestBindAndValidateCustomRulesFirstFailureWins(t *testing.T) {
	c := newContext(http.MethodPost, `{"other":true}`)

	err := validation.BindAndValidate(c, &customPayload{})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, "name must be string", httpErr.Message)
	require.Len(t, httpErr.Errors, 2)
	assert.Equal(t, "name", httpErr.Errors[0].Field)
	assert.Equal(t, "value", httpErr.Errors[1].Field)
}

func TestBindAndValidateTagTranslation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantError string
	}{
		{"required", `{"level":"low"}`, "name", "is required"},
		{"min length", `{"name":"a"}`, "name", "must be at least 2 characters"},
		{"oneof", `{"name":"ok","level":"mid"}`, "level", "must be one of: low high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPost, tt.body)

			err := validation.BindAndValidate(c, &taggedPayload{})
			httpErr := asHTTPError(t, err)
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			require.NotEmpty(t, httpErr.Errors)
			assert.Equal(t, tt.wantField, httpErr.Errors[0].Field)
			assert.Equal(t, tt.wantError, httpErr.Errors[0].Error)
		})
	}
}
