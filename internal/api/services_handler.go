package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/catalog"
)

// APIPluginID owns services registered over HTTP without a plugin_id.
const APIPluginID = "api"

// ServiceRegistry is the catalog surface the services endpoints need.
type ServiceRegistry interface {
	List() catalog.Listing
	RegisterOCR(ctx context.Context, pluginID string, svc catalog.OCRService) error
	RegisterTranslation(ctx context.Context, pluginID string, svc catalog.TranslationService) error
	Unregister(ctx context.Context, id string) error
}

// ServicesHandler serves the OCR model and translation service catalog.
type ServicesHandler struct {
	registry ServiceRegistry
}

// NewServicesHandler creates a new ServicesHandler
func NewServicesHandler(registry ServiceRegistry) *ServicesHandler {
	return &ServicesHandler{registry: registry}
}

// ListServices godoc
// @Summary List OCR models and translation services
// @Tags services
// @Produce json
// @Success 200 {object} catalog.Listing
// @Router /api/bunny/services [get]
func (h *ServicesHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.registry.List())
}

// RegisterOCRService godoc
// @Summary Register an OCR model
// @Tags services
// @Accept json
// @Produce json
// @Param request body catalog.OCRService true "service description"
// @Success 201 {object} catalog.OCRService
// @Failure 400 {object} shared.ErrorResponse
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/bunny/services/ocr [post]
func (h *ServicesHandler) RegisterOCRService(w http.ResponseWriter, r *http.Request) {
	var svc catalog.OCRService
	if err := shared.DecodeJSON(r, &svc); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if svc.PluginID == "" {
		svc.PluginID = APIPluginID
	}
	if err := h.registry.RegisterOCR(r.Context(), APIPluginID, svc); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, svc)
}

// RegisterTranslationService godoc
// @Summary Register a translation service
// @Tags services
// @Accept json
// @Produce json
// @Param request body catalog.TranslationService true "service description"
// @Success 201 {object} catalog.TranslationService
// @Failure 400 {object} shared.ErrorResponse
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/bunny/services/translation [post]
func (h *ServicesHandler) RegisterTranslationService(w http.ResponseWriter, r *http.Request) {
	var svc catalog.TranslationService
	if err := shared.DecodeJSON(r, &svc); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if svc.PluginID == "" {
		svc.PluginID = APIPluginID
	}
	if err := h.registry.RegisterTranslation(r.Context(), APIPluginID, svc); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, svc)
}

// UnregisterService godoc
// @Summary Remove a registered service
// @Description Removes the id from both categories. Built-in services cannot be removed.
// @Tags services
// @Param id path string true "service id"
// @Success 204
// @Failure 404 {object} shared.ErrorResponse
// @Failure 409 {object} shared.ErrorResponse
// @Router /api/bunny/services/{id} [delete]
func (h *ServicesHandler) UnregisterService(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Unregister(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}
