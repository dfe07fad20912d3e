package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/render"
	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var fieldErr *taxdomain.FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable_invoice",
			Message: "invoice data is incomplete or invalid",
			Errors: []ValidationError{
				{
					Field:   fieldErr.Field,
					Code:    fieldErr.Err.Error(),
					Message: fieldErrorMessage(fieldErr.Err),
				},
			},
		}
	}

	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		return http.StatusInternalServerError, errorPayload{
			Type:    "render_error",
			Code:    renderErr.Code,
			Message: "document could not be rendered",
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return validationPayload("request", "invalid_request", "invalid request")
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID):
		return validationPayload("id", "invalid_id", "invalid id")
	case errors.Is(err, invoicedomain.ErrUnsupportedFormat):
		return validationPayload("format", "unsupported_format", "unsupported document format")
	case errors.Is(err, taxdomain.ErrInvalidPurpose),
		errors.Is(err, taxdomain.ErrMissingField),
		errors.Is(err, taxdomain.ErrNegativeAmount):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable_invoice",
			Code:    err.Error(),
			Message: "invoice data is incomplete or invalid",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, invoicedomain.ErrGenerationInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "invoice document is already being generated",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func validationPayload(field, code, message string) (int, errorPayload) {
	return http.StatusBadRequest, errorPayload{
		Type:    "validation_error",
		Message: "validation error",
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, rentaldomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func fieldErrorMessage(err error) string {
	switch {
	case errors.Is(err, taxdomain.ErrMissingField):
		return "required value is missing"
	case errors.Is(err, taxdomain.ErrNegativeAmount):
		return "amount must not be negative"
	case errors.Is(err, taxdomain.ErrInvalidPurpose):
		return "unknown rental purpose"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog returns the error type and code logged with each failed request.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Code
	if code == "" && len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
