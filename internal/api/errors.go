package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/catalog"
	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, service.ErrMarkerNotFound),
		errors.Is(err, service.ErrNoResult),
		errors.Is(err, catalog.ErrServiceNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, task.ErrNotCancellable),
		errors.Is(err, catalog.ErrServiceExists),
		errors.Is(err, catalog.ErrBuiltinService):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrUnknownService),
		errors.Is(err, catalog.ErrInvalidService),
		errors.Is(err, task.ErrInvalidCategory):
		return http.StatusBadRequest

	// The runner cannot take more work right now
	case errors.Is(err, task.ErrRunnerStopped),
		errors.Is(err, task.ErrStoreFull):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrMarkerNotFound):
		return "Marker not found"
	case errors.Is(err, service.ErrNoResult):
		return "No result available for this marker"
	case errors.Is(err, catalog.ErrServiceNotFound):
		return "Service not found"
	case errors.Is(err, task.ErrNotCancellable):
		return "Task already finished"
	case errors.Is(err, catalog.ErrServiceExists):
		return "Service already registered"
	case errors.Is(err, catalog.ErrBuiltinService):
		return "Built-in services cannot be removed"
	case errors.Is(err, service.ErrUnknownService):
		return "Unknown OCR model or translation service"
	case errors.Is(err, catalog.ErrInvalidService):
		return "Invalid service description"
	case errors.Is(err, task.ErrInvalidCategory):
		return "Invalid task category"
	case errors.Is(err, task.ErrRunnerStopped):
		return "Task runner is not accepting work"
	case errors.Is(err, task.ErrStoreFull):
		return "Too many tasks retained, try again later"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error. A non-empty message replaces the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	case "bcp47_language_tag":
		return "invalid language tag"
	default:
		return "validation failed"
	}
}
