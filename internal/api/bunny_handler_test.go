package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/catalog"
	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc service.BunnyService, registry ServiceRegistry) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewBunnyHandler(svc), NewServicesHandler(registry))
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestRequestOCRHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockBunnyService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "accepted",
			body: `{"marker_id":7,"model":"tesseract"}`,
			setup: func(m *MockBunnyService) {
				m.On("RequestOCR", uint32(7), "tesseract").Return("bunny_task_1_1", nil)
			},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"task_id":"bunny_task_1_1"}`,
		},
		{
			name:       "missing marker id",
			body:       `{"model":"tesseract"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid marker_id: required field",
		},
		{
			name:       "malformed json",
			body:       `{"marker_id":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request format",
		},
		{
			name: "unknown model",
			body: `{"marker_id":7,"model":"nope"}`,
			setup: func(m *MockBunnyService) {
				m.On("RequestOCR", uint32(7), "nope").
					Return("", fmt.Errorf("%w: ocr model %q", service.ErrUnknownService, "nope"))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Unknown OCR model or translation service",
		},
		{
			name: "unknown marker",
			body: `{"marker_id":9}`,
			setup: func(m *MockBunnyService) {
				m.On("RequestOCR", uint32(9), "").Return("", service.ErrMarkerNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "Marker not found",
		},
		{
			name: "runner stopped",
			body: `{"marker_id":7}`,
			setup: func(m *MockBunnyService) {
				m.On("RequestOCR", uint32(7), "").Return("",
					service.NewBunnyServiceError("request_ocr", "failed to submit task", task.ErrRunnerStopped))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "Task runner is not accepting work",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockBunnyService{}
			if tc.setup != nil {
				tc.setup(svc)
			}
			w := doRequest(t, newTestRouter(svc, catalog.New(nil, nil)), http.MethodPost, "/api/bunny/ocr", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusAccepted {
				assert.JSONEq(t, tc.wantBody, w.Body.String())
			} else {
				assert.Equal(t, tc.wantBody, decodeError(t, w))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRequestTranslationHandler(t *testing.T) {
	svc := &MockBunnyService{}
	var got service.TranslationRequest
	svc.On("RequestTranslation", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(0).(service.TranslationRequest) }).
		Return("bunny_task_1_2", nil)

	w := doRequest(t, newTestRouter(svc, catalog.New(nil, nil)), http.MethodPost, "/api/bunny/translation",
		`{"marker_id":7,"service":"deepl","source_lang":"ja","target_lang":"en"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, uint32(7), got.MarkerID)
	assert.Equal(t, "deepl", got.Service)
	require.NotNil(t, got.SourceLang)
	assert.Equal(t, "ja", *got.SourceLang)
	assert.Equal(t, "en", got.TargetLang)
}

func TestListTasksHandler(t *testing.T) {
	ocr := task.Record{ID: "bunny_task_1_1", Category: task.CategoryOCR, Status: task.TaskStatusQueued}
	tr := task.Record{ID: "bunny_task_1_2", Category: task.CategoryTranslation, Status: task.TaskStatusCompleted}

	svc := &MockBunnyService{}
	svc.On("GetQueuedTasks", task.CategoryOCR).Return([]task.Record{ocr})
	svc.On("GetAllTasks").Return([]task.Record{ocr, tr})
	router := newTestRouter(svc, catalog.New(nil, nil))

	decode := func(w *httptest.ResponseRecorder) TaskListResponse {
		var resp TaskListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	w := doRequest(t, router, http.MethodGet, "/api/bunny/tasks?scope=pending&category=OCR", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode(w).Count)

	w = doRequest(t, router, http.MethodGet, "/api/bunny/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode(w).Count)

	w = doRequest(t, router, http.MethodGet, "/api/bunny/tasks?category=translation", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(w)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "bunny_task_1_2", resp.Tasks[0].ID)

	w = doRequest(t, router, http.MethodGet, "/api/bunny/tasks?category=audio", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid task category", decodeError(t, w))

	w = doRequest(t, router, http.MethodGet, "/api/bunny/tasks?scope=later", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlers(t *testing.T) {
	rec := task.Record{ID: "bunny_task_1_1", Category: task.CategoryOCR, Status: task.TaskStatusProcessing, Progress: 40}

	svc := &MockBunnyService{}
	svc.On("GetTaskStatus", "bunny_task_1_1").Return(rec, nil)
	svc.On("GetTaskStatus", "missing").Return(task.Record{}, fmt.Errorf("%w: missing", task.ErrTaskNotFound))
	svc.On("CancelTask", "bunny_task_1_1").Return(nil)
	svc.On("CancelTask", "done").Return(task.ErrNotCancellable)
	svc.On("ClearAllTasks").Return()
	router := newTestRouter(svc, catalog.New(nil, nil))

	w := doRequest(t, router, http.MethodGet, "/api/bunny/tasks/bunny_task_1_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got task.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 40, got.Progress)
	assert.Equal(t, task.TaskStatusProcessing, got.Status)

	w = doRequest(t, router, http.MethodGet, "/api/bunny/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/bunny/tasks/bunny_task_1_1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/bunny/tasks/done", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/bunny/tasks", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertCalled(t, "ClearAllTasks")
}

func TestMarkerHandlers(t *testing.T) {
	svc := &MockBunnyService{}
	svc.On("RegisterMarker", uint32(7), uint32(3)).Return(nil)
	svc.On("GetOCRResult", uint32(7)).Return("テキスト", nil)
	svc.On("GetTranslationResult", uint32(7)).Return("", service.ErrNoResult)
	router := newTestRouter(svc, catalog.New(nil, nil))

	w := doRequest(t, router, http.MethodPut, "/api/bunny/markers/7", `{"image_id":3}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodPut, "/api/bunny/markers/7", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPut, "/api/bunny/markers/abc", `{"image_id":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid marker id", decodeError(t, w))

	w = doRequest(t, router, http.MethodGet, "/api/bunny/markers/7/ocr", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"marker_id":7,"text":"テキスト"}`, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/bunny/markers/7/translation", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/bunny/markers/0/ocr", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
