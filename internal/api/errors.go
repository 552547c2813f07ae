package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lexis/internal/api/shared"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/service/review"
	"github.com/phrazzld/lexis/internal/store"
)

// ErrBadRequest marks request parsing failures raised by the handlers.
var ErrBadRequest = errors.New("bad request")

// MapErrorToStatusCode maps service and store errors to HTTP status codes
// without exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, review.ErrInvalidOutcome),
		errors.Is(err, review.ErrInvalidID),
		errors.Is(err, review.ErrInvalidSettings),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, review.ErrWordNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, review.ErrWordNotApproved):
		return http.StatusUnprocessableEntity

	case errors.Is(err, review.ErrConcurrentUpdate),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, review.ErrInvalidOutcome):
		return "Outcome must be one of correct, incorrect or skipped"
	case errors.Is(err, review.ErrInvalidSettings):
		return "Daily new words must be between 1 and 100"
	case errors.Is(err, review.ErrInvalidID), errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"
	case errors.Is(err, review.ErrWordNotFound):
		return "Word not found"
	case errors.Is(err, review.ErrWordNotApproved):
		return "Word is not approved for review"
	case errors.Is(err, review.ErrConcurrentUpdate), errors.Is(err, store.ErrConflict):
		return "The review state changed concurrently; retry the request"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ErrBadRequest):
		return "Invalid request"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and sanitized message for err and logs
// the full error. A non-empty fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns validator errors into a short message that
// names the JSON field and the failed rule.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", toSnake(fe.Field()), validationTagMessage(fe)))
	}
	return "Invalid " + strings.Join(parts, "; ")
}

func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "validation failed"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteRune(c)
	}
	return b.String()
}
