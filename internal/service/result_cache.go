package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bunny/internal/events"
	"github.com/phrazzld/bunny/internal/store"
	"github.com/phrazzld/bunny/internal/task"
)

// Follow-up events published once a result is stored on its marker.
const (
	EventOCRCompleted         = "bunny:ocr_completed"
	EventTranslationCompleted = "bunny:translation_completed"
)

// ResultPayload is the body of the follow-up events.
type ResultPayload struct {
	TaskID   string `json:"task_id"`
	MarkerID uint32 `json:"marker_id"`
	ImageID  uint32 `json:"image_id"`
	Text     string `json:"text"`
	Service  string `json:"service"`
}

// ResultCache keeps each marker's latest OCR text and machine translation
// current by handling bunny:task_completed events.
type ResultCache struct {
	markers store.MarkerStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewResultCache creates a ResultCache. A nil emitter disables follow-up events.
func NewResultCache(markers store.MarkerStore, emitter events.EventEmitter, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultCache{
		markers: markers,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "result_cache")),
	}
}

var _ events.EventHandler = (*ResultCache)(nil)

// HandleEvent implements events.EventHandler. Events other than
// bunny:task_completed are ignored, as are completions of markers that
// have since been deleted.
func (c *ResultCache) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Name != task.EventTaskCompleted {
		return nil
	}

	var payload task.EventPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Name, err)
	}
	if payload.Result == nil {
		c.logger.Warn("completed task without result", slog.String("task_id", payload.TaskID))
		return nil
	}

	markerID := payload.Subject.MarkerID
	var (
		err      error
		followUp string
	)
	switch payload.Category {
	case task.CategoryOCR:
		err = c.markers.SaveOCRText(ctx, markerID, *payload.Result, payload.Service)
		followUp = EventOCRCompleted
	case task.CategoryTranslation:
		err = c.markers.SaveTranslation(ctx, markerID, *payload.Result, payload.Service)
		followUp = EventTranslationCompleted
	default:
		return nil
	}

	if errors.Is(err, store.ErrMarkerNotFound) {
		c.logger.Warn("marker gone before result was stored",
			slog.String("task_id", payload.TaskID),
			slog.Uint64("marker_id", uint64(markerID)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store result of task %s: %w", payload.TaskID, err)
	}

	c.logger.Debug("result stored",
		slog.String("task_id", payload.TaskID),
		slog.Uint64("marker_id", uint64(markerID)),
		slog.String("category", string(payload.Category)))

	if c.emitter == nil {
		return nil
	}
	next, err := events.NewEvent(followUp, ResultPayload{
		TaskID:   payload.TaskID,
		MarkerID: markerID,
		ImageID:  payload.Subject.ImageID,
		Text:     *payload.Result,
		Service:  payload.Service,
	})
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", followUp, err)
	}
	return c.emitter.EmitEvent(ctx, next)
}
