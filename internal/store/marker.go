package store

import (
	"context"
	"time"
)

// Marker is the slice of an annotation marker that bunny tasks read and write.
type Marker struct {
	ID      uint32 `json:"marker_id"`
	ImageID uint32 `json:"image_id"`

	// Latest OCR output and the model that produced it.
	OriginalText *string `json:"original_text,omitempty"`
	LastOCRModel *string `json:"last_ocr_model,omitempty"`

	// Latest machine translation and the service that produced it.
	MachineTranslation     *string `json:"machine_translation,omitempty"`
	LastTranslationService *string `json:"last_translation_service,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// MarkerStore defines the interface for marker data persistence.
type MarkerStore interface {
	// GetMarker retrieves a marker by id.
	// Returns ErrMarkerNotFound if the marker does not exist.
	GetMarker(ctx context.Context, id uint32) (*Marker, error)

	// UpsertMarker records that the marker belongs to imageID, creating it
	// when missing. Cached text is kept when the image id is unchanged and
	// cleared otherwise.
	UpsertMarker(ctx context.Context, id, imageID uint32) error

	// SaveOCRText stores the latest OCR output for the marker.
	// Returns ErrMarkerNotFound if the marker does not exist.
	SaveOCRText(ctx context.Context, id uint32, text, model string) error

	// SaveTranslation stores the latest machine translation for the marker.
	// Returns ErrMarkerNotFound if the marker does not exist.
	SaveTranslation(ctx context.Context, id uint32, text, service string) error
}
