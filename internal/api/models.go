package api

import "github.com/phrazzld/bunny/internal/task"

// OCRRequest defines the payload for POST /api/bunny/ocr.
type OCRRequest struct {
	MarkerID uint32 `json:"marker_id" validate:"required"`

	// Model is the OCR model id; empty selects "default"
	Model string `json:"model,omitempty" validate:"max=64"`
}

// TranslationRequest defines the payload for POST /api/bunny/translation.
type TranslationRequest struct {
	MarkerID uint32 `json:"marker_id" validate:"required"`

	// Service is the translation service id; empty selects "default"
	Service string `json:"service,omitempty" validate:"max=64"`

	// SourceLang is omitted or blank for auto detection
	SourceLang *string `json:"source_lang,omitempty" validate:"omitempty,max=35"`

	// TargetLang defaults to zh-CN
	TargetLang string `json:"target_lang,omitempty" validate:"max=35"`
}

// MarkerRequest defines the payload for PUT /api/bunny/markers/{id}.
type MarkerRequest struct {
	ImageID uint32 `json:"image_id" validate:"required"`
}

// TaskAcceptedResponse is returned when a task has been queued.
type TaskAcceptedResponse struct {
	TaskID string `json:"task_id"`
}

// TaskListResponse wraps a list of task records.
type TaskListResponse struct {
	Tasks []task.Record `json:"tasks"`
	Count int           `json:"count"`
}

// MarkerResultResponse carries the latest OCR text or translation of a marker.
type MarkerResultResponse struct {
	MarkerID uint32 `json:"marker_id"`
	Text     string `json:"text"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
