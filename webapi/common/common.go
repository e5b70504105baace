// Package common holds the response envelopes and error mapping shared by
// the HTTP handlers.
package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// structValidator is safe for concurrent use and caches struct metadata.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validation.NewStructValidator()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SuccessResponseJSON writes a Response envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an RFC 9457 problem response. The status is
// derived from err unless an int is passed in args; a string in args becomes
// the detail, any other value the errors member.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := fiber.StatusInternalServerError
	if err != nil {
		status = ErrorToStatusCode(err)
	}
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Instance: c.OriginalURL(),
	}
	if err != nil && status != fiber.StatusInternalServerError {
		pd.Detail = err.Error()
	}
	var formErr *deposit.FormError
	if errors.As(err, &formErr) {
		pd.Errors = formErr.Result.Errors()
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			status = v
		case string:
			pd.Detail = v
		case nil:
		default:
			pd.Errors = v
		}
	}
	if pd.Detail == "" && err != nil && status < fiber.StatusInternalServerError {
		pd.Detail = err.Error()
	}
	pd.Status = status
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var formErr *deposit.FormError
	var validationErrs validator.ValidationErrors
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, deposit.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, deposit.ErrSessionExpired):
		return fiber.StatusGone
	case errors.Is(err, deposit.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, deposit.ErrFiatUnavailable):
		return fiber.StatusNotImplemented
	case errors.As(err, &formErr), errors.As(err, &validationErrs):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator with the trc20 and simple_email tags registered.
// On failure it writes the problem response and returns a nil input; the
// returned error is only the write error.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := structValidator.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, ProblemDetailsJSON(c, "Validation failed", err, fieldErrors(validationErrs))
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

// fieldErrors maps json field names to the failing tag.
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
