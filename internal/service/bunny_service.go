package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/bunny/internal/catalog"
	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/phrazzld/bunny/internal/store"
	"github.com/phrazzld/bunny/internal/task"
)

// DefaultTargetLang is used when a translation request names no target.
const DefaultTargetLang = "zh-CN"

// TaskRunner is the slice of task.TaskRunner the service drives.
type TaskRunner interface {
	Submit(category task.Category, subject task.Subject, params task.Parameters) (string, error)
	Cancel(id string) error
	Status(id string) (task.Record, bool)
	ListPending(category task.Category) []task.Record
	ListAll() []task.Record
	ClearAll()
}

// ServiceCatalog reports which OCR models and translation services exist.
type ServiceCatalog interface {
	HasOCR(id string) bool
	HasTranslation(id string) bool
}

// TranslationRequest describes a translation of one marker's OCR text.
type TranslationRequest struct {
	MarkerID   uint32
	Service    string
	SourceLang *string
	TargetLang string
}

// BunnyService provides OCR and translation operations on markers.
type BunnyService interface {
	// RegisterMarker records which image a marker belongs to.
	RegisterMarker(ctx context.Context, markerID, imageID uint32) error

	// RequestOCR schedules OCR of a marker's region with the given model.
	// An empty model selects the default one.
	RequestOCR(ctx context.Context, markerID uint32, model string) (string, error)

	// RequestTranslation schedules translation of a marker's OCR text.
	RequestTranslation(ctx context.Context, req TranslationRequest) (string, error)

	// CancelTask cancels a queued or processing task.
	CancelTask(ctx context.Context, taskID string) error

	// GetTaskStatus returns the record of a task.
	GetTaskStatus(ctx context.Context, taskID string) (task.Record, error)

	// GetQueuedTasks returns queued and processing tasks, optionally for one category.
	GetQueuedTasks(ctx context.Context, category task.Category) []task.Record

	// GetAllTasks returns every retained task.
	GetAllTasks(ctx context.Context) []task.Record

	// ClearAllTasks cancels all queued and processing tasks.
	ClearAllTasks(ctx context.Context)

	// GetOCRResult returns the latest OCR text stored for the marker.
	GetOCRResult(ctx context.Context, markerID uint32) (string, error)

	// GetTranslationResult returns the latest machine translation stored for the marker.
	GetTranslationResult(ctx context.Context, markerID uint32) (string, error)
}

// bunnyServiceImpl implements the BunnyService interface
type bunnyServiceImpl struct {
	runner  TaskRunner
	markers store.MarkerStore
	catalog ServiceCatalog
	logger  *slog.Logger
}

// NewBunnyService creates a new BunnyService.
// It returns an error if any of the required dependencies are nil.
func NewBunnyService(
	runner TaskRunner,
	markers store.MarkerStore,
	catalog ServiceCatalog,
	logger *slog.Logger,
) (BunnyService, error) {
	if runner == nil {
		return nil, fmt.Errorf("task runner cannot be nil")
	}
	if markers == nil {
		return nil, fmt.Errorf("marker store cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("service catalog cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bunnyServiceImpl{
		runner:  runner,
		markers: markers,
		catalog: catalog,
		logger:  logger.With(slog.String("component", "bunny_service")),
	}, nil
}

// RegisterMarker implements BunnyService.RegisterMarker
func (s *bunnyServiceImpl) RegisterMarker(ctx context.Context, markerID, imageID uint32) error {
	if err := s.markers.UpsertMarker(ctx, markerID, imageID); err != nil {
		return NewBunnyServiceError("register_marker", "failed to save marker", err)
	}
	return nil
}

// RequestOCR implements BunnyService.RequestOCR
func (s *bunnyServiceImpl) RequestOCR(ctx context.Context, markerID uint32, model string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	model = normalizeServiceID(model)
	if !s.catalog.HasOCR(model) {
		return "", fmt.Errorf("%w: ocr model %q", ErrUnknownService, model)
	}

	marker, err := s.markers.GetMarker(ctx, markerID)
	if err != nil {
		return "", NewBunnyServiceError("request_ocr", "failed to look up marker", err)
	}

	id, err := s.runner.Submit(task.CategoryOCR,
		task.Subject{MarkerID: marker.ID, ImageID: marker.ImageID},
		task.Parameters{Service: model})
	if err != nil {
		return "", NewBunnyServiceError("request_ocr", "failed to submit task", err)
	}

	log.Info("ocr requested",
		slog.String("task_id", id),
		slog.Uint64("marker_id", uint64(markerID)),
		slog.String("model", model))
	return id, nil
}

// RequestTranslation implements BunnyService.RequestTranslation
func (s *bunnyServiceImpl) RequestTranslation(ctx context.Context, req TranslationRequest) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	service := normalizeServiceID(req.Service)
	if !s.catalog.HasTranslation(service) {
		return "", fmt.Errorf("%w: translation service %q", ErrUnknownService, service)
	}

	target := strings.TrimSpace(req.TargetLang)
	if target == "" {
		target = DefaultTargetLang
	}
	var source *string
	if req.SourceLang != nil && strings.TrimSpace(*req.SourceLang) != "" {
		lang := strings.TrimSpace(*req.SourceLang)
		source = &lang
	}

	marker, err := s.markers.GetMarker(ctx, req.MarkerID)
	if err != nil {
		return "", NewBunnyServiceError("request_translation", "failed to look up marker", err)
	}

	id, err := s.runner.Submit(task.CategoryTranslation,
		task.Subject{MarkerID: marker.ID, ImageID: marker.ImageID},
		task.Parameters{Service: service, SourceLang: source, TargetLang: target})
	if err != nil {
		return "", NewBunnyServiceError("request_translation", "failed to submit task", err)
	}

	log.Info("translation requested",
		slog.String("task_id", id),
		slog.Uint64("marker_id", uint64(req.MarkerID)),
		slog.String("service", service),
		slog.String("target_lang", target))
	return id, nil
}

// CancelTask implements BunnyService.CancelTask
func (s *bunnyServiceImpl) CancelTask(ctx context.Context, taskID string) error {
	if err := s.runner.Cancel(taskID); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("task cancel requested", slog.String("task_id", taskID))
	return nil
}

// GetTaskStatus implements BunnyService.GetTaskStatus
func (s *bunnyServiceImpl) GetTaskStatus(_ context.Context, taskID string) (task.Record, error) {
	rec, ok := s.runner.Status(taskID)
	if !ok {
		return task.Record{}, fmt.Errorf("%w: %s", task.ErrTaskNotFound, taskID)
	}
	return rec, nil
}

// GetQueuedTasks implements BunnyService.GetQueuedTasks
func (s *bunnyServiceImpl) GetQueuedTasks(_ context.Context, category task.Category) []task.Record {
	return s.runner.ListPending(category)
}

// GetAllTasks implements BunnyService.GetAllTasks
func (s *bunnyServiceImpl) GetAllTasks(_ context.Context) []task.Record {
	return s.runner.ListAll()
}

// ClearAllTasks implements BunnyService.ClearAllTasks
func (s *bunnyServiceImpl) ClearAllTasks(ctx context.Context) {
	s.runner.ClearAll()
	logger.FromContextOrDefault(ctx, s.logger).Info("all bunny tasks cleared")
}

// GetOCRResult implements BunnyService.GetOCRResult
func (s *bunnyServiceImpl) GetOCRResult(ctx context.Context, markerID uint32) (string, error) {
	marker, err := s.markers.GetMarker(ctx, markerID)
	if err != nil {
		return "", NewBunnyServiceError("get_ocr_result", "failed to look up marker", err)
	}
	if marker.OriginalText == nil {
		return "", ErrNoResult
	}
	return *marker.OriginalText, nil
}

// GetTranslationResult implements BunnyService.GetTranslationResult
func (s *bunnyServiceImpl) GetTranslationResult(ctx context.Context, markerID uint32) (string, error) {
	marker, err := s.markers.GetMarker(ctx, markerID)
	if err != nil {
		return "", NewBunnyServiceError("get_translation_result", "failed to look up marker", err)
	}
	if marker.MachineTranslation == nil {
		return "", ErrNoResult
	}
	return *marker.MachineTranslation, nil
}

func normalizeServiceID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.DefaultServiceID
	}
	return id
}
