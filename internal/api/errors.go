package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tales-api/internal/api/shared"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/service"
	"github.com/phrazzld/tales-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// The upstream model failed us
	case errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway

	// A generated story the store refused is not the client's fault, even
	// when the store reports it as invalid
	case errors.Is(err, service.ErrSaveFailed):
		return http.StatusInternalServerError

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
//
// Generation failures return the pipeline message, which is already
// redacted and describes what went wrong upstream.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Story not found"

	case errors.Is(err, service.ErrGenerationFailed):
		var svcErr *service.StoryServiceError
		if errors.As(err, &svcErr) && svcErr.Message != "" {
			return svcErr.Message
		}
		return "Story generation failed"

	case errors.Is(err, service.ErrSaveFailed):
		return "Error while saving the story"

	case errors.Is(err, domain.ErrNegativeAge):
		return "Invalid childAge: must not be negative"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid story request"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid story data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err, logging the
// redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field without echoing the submitted value.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gte", "min":
		return "too small"
	case "lte", "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
