package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/catalog"
	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{task.ErrTaskNotFound, http.StatusNotFound},
		{service.ErrMarkerNotFound, http.StatusNotFound},
		{service.ErrNoResult, http.StatusNotFound},
		{catalog.ErrServiceNotFound, http.StatusNotFound},
		{task.ErrNotCancellable, http.StatusConflict},
		{catalog.ErrServiceExists, http.StatusConflict},
		{catalog.ErrBuiltinService, http.StatusConflict},
		{service.ErrUnknownService, http.StatusBadRequest},
		{catalog.ErrInvalidService, http.StatusBadRequest},
		{task.ErrInvalidCategory, http.StatusBadRequest},
		{task.ErrRunnerStopped, http.StatusServiceUnavailable},
		{task.ErrStoreFull, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", task.ErrTaskNotFound), http.StatusNotFound},
		{service.NewBunnyServiceError("request_ocr", "failed", task.ErrStoreFull), http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageHidesDetails(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.3:5432: password=hunter2 refused")
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(fmt.Errorf("%w: x", task.ErrTaskNotFound)))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&OCRRequest{})
	assert.Equal(t, "Invalid marker_id: required field", SanitizeValidationError(err))

	long := TranslationRequest{MarkerID: 1, TargetLang: string(make([]byte, 40))}
	err = shared.ValidateRequest(&long)
	assert.Equal(t, "Invalid target_lang: too long", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
