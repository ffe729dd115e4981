package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/task"
)

// BunnyHandler serves the OCR, translation and task endpoints.
type BunnyHandler struct {
	svc service.BunnyService
}

// NewBunnyHandler creates a new BunnyHandler
func NewBunnyHandler(svc service.BunnyService) *BunnyHandler {
	return &BunnyHandler{svc: svc}
}

// RegisterMarker godoc
// @Summary Register a marker
// @Description Records which image a marker belongs to. Moving a marker to another image clears its stored text.
// @Tags markers
// @Accept json
// @Param id path int true "marker id"
// @Param request body MarkerRequest true "marker image"
// @Success 204
// @Failure 400 {object} shared.ErrorResponse
// @Router /api/bunny/markers/{id} [put]
func (h *BunnyHandler) RegisterMarker(w http.ResponseWriter, r *http.Request) {
	markerID, ok := handleMarkerID(w, r)
	if !ok {
		return
	}
	var req MarkerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.RegisterMarker(r.Context(), markerID, req.ImageID); err != nil {
		HandleAPIError(w, r, err, "Failed to register marker")
		return
	}
	shared.RespondNoContent(w)
}

// RequestOCR godoc
// @Summary Request OCR of a marker
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body OCRRequest true "marker and model"
// @Success 202 {object} TaskAcceptedResponse
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Failure 503 {object} shared.ErrorResponse
// @Router /api/bunny/ocr [post]
func (h *BunnyHandler) RequestOCR(w http.ResponseWriter, r *http.Request) {
	var req OCRRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.svc.RequestOCR(r.Context(), req.MarkerID, req.Model)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, TaskAcceptedResponse{TaskID: id})
}

// RequestTranslation godoc
// @Summary Request translation of a marker's OCR text
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body TranslationRequest true "marker, service and languages"
// @Success 202 {object} TaskAcceptedResponse
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Failure 503 {object} shared.ErrorResponse
// @Router /api/bunny/translation [post]
func (h *BunnyHandler) RequestTranslation(w http.ResponseWriter, r *http.Request) {
	var req TranslationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.svc.RequestTranslation(r.Context(), service.TranslationRequest{
		MarkerID:   req.MarkerID,
		Service:    req.Service,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, TaskAcceptedResponse{TaskID: id})
}

// ListTasks godoc
// @Summary List tasks
// @Description scope=pending lists queued and processing tasks oldest first; scope=all (default) lists every retained task.
// @Tags tasks
// @Produce json
// @Param scope query string false "pending or all"
// @Param category query string false "ocr or translation"
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} shared.ErrorResponse
// @Router /api/bunny/tasks [get]
func (h *BunnyHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var category task.Category
	if raw := queryValue(r, "category"); raw != "" {
		c, err := task.ParseCategory(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		category = c
	}

	var records []task.Record
	switch strings.ToLower(queryValue(r, "scope")) {
	case "pending":
		records = h.svc.GetQueuedTasks(r.Context(), category)
	case "", "all":
		records = filterCategory(h.svc.GetAllTasks(r.Context()), category)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid scope: must be pending or all")
		return
	}

	if records == nil {
		records = []task.Record{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: records, Count: len(records)})
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "task id"
// @Success 200 {object} task.Record
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/bunny/tasks/{id} [get]
func (h *BunnyHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetTaskStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, rec)
}

// CancelTask godoc
// @Summary Cancel a queued or processing task
// @Tags tasks
// @Param id path string true "task id"
// @Success 204
// @Failure 404 {object} shared.ErrorResponse
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/bunny/tasks/{id} [delete]
func (h *BunnyHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}

// ClearTasks godoc
// @Summary Cancel every queued and processing task
// @Tags tasks
// @Success 204
// @Router /api/bunny/tasks [delete]
func (h *BunnyHandler) ClearTasks(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearAllTasks(r.Context())
	shared.RespondNoContent(w)
}

// GetOCRResult godoc
// @Summary Latest OCR text of a marker
// @Tags markers
// @Produce json
// @Param id path int true "marker id"
// @Success 200 {object} MarkerResultResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/bunny/markers/{id}/ocr [get]
func (h *BunnyHandler) GetOCRResult(w http.ResponseWriter, r *http.Request) {
	h.markerResult(w, r, h.svc.GetOCRResult)
}

// GetTranslationResult godoc
// @Summary Latest machine translation of a marker
// @Tags markers
// @Produce json
// @Param id path int true "marker id"
// @Success 200 {object} MarkerResultResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/bunny/markers/{id}/translation [get]
func (h *BunnyHandler) GetTranslationResult(w http.ResponseWriter, r *http.Request) {
	h.markerResult(w, r, h.svc.GetTranslationResult)
}

func (h *BunnyHandler) markerResult(
	w http.ResponseWriter,
	r *http.Request,
	get func(ctx context.Context, markerID uint32) (string, error),
) {
	markerID, ok := handleMarkerID(w, r)
	if !ok {
		return
	}
	text, err := get(r.Context(), markerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MarkerResultResponse{MarkerID: markerID, Text: text})
}

func filterCategory(records []task.Record, category task.Category) []task.Record {
	if category == "" {
		return records
	}
	out := make([]task.Record, 0, len(records))
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}
