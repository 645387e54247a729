package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingodeck/internal/api/shared"
	"github.com/phrazzld/lingodeck/internal/app"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/quiz"
	"github.com/phrazzld/lingodeck/internal/settings"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, app.ErrCardNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidQuizMode),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, quiz.ErrInvalidConfig):
		return http.StatusBadRequest

	// State conflicts
	case errors.Is(err, quiz.ErrQuizNotRunning),
		errors.Is(err, quiz.ErrQuizNotStarted):
		return http.StatusConflict

	case errors.Is(err, quiz.ErrNoCardsAvailable):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, app.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, domain.ErrInvalidLevel):
		return "Invalid level: must be between 1 and 5"

	case errors.Is(err, domain.ErrInvalidCategory):
		return "Invalid category"

	case errors.Is(err, domain.ErrInvalidQuizMode):
		return "Invalid quiz mode: must be duration or count"

	case errors.Is(err, settings.ErrInvalidSettings):
		return "Invalid settings"

	case errors.Is(err, quiz.ErrInvalidConfig):
		return "Invalid quiz configuration"

	case errors.Is(err, quiz.ErrQuizNotRunning):
		return "No quiz is running"

	case errors.Is(err, quiz.ErrQuizNotStarted):
		return "No quiz has been started"

	case errors.Is(err, quiz.ErrNoCardsAvailable):
		return "No cards available for this level and category"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err.
// A non-empty fallback replaces the generic message for server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field, without echoing any submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
