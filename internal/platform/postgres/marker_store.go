package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/phrazzld/bunny/internal/store"
)

// PostgresMarkerStore implements the store.MarkerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMarkerStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresMarkerStore creates a new PostgreSQL implementation of the MarkerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresMarkerStore(db store.DBTX, logger *slog.Logger) *PostgresMarkerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMarkerStore{
		db:     db,
		logger: logger.With(slog.String("component", "marker_store")),
		now:    time.Now,
	}
}

// Ensure PostgresMarkerStore implements store.MarkerStore interface
var _ store.MarkerStore = (*PostgresMarkerStore)(nil)

// GetMarker implements store.MarkerStore.GetMarker
func (s *PostgresMarkerStore) GetMarker(ctx context.Context, id uint32) (*store.Marker, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, image_id, original_text, last_ocr_model,
		       machine_translation, last_translation_service, updated_at
		FROM markers
		WHERE id = $1
	`

	var m store.Marker
	err := s.db.QueryRowContext(ctx, query, int64(id)).Scan(
		&m.ID,
		&m.ImageID,
		&m.OriginalText,
		&m.LastOCRModel,
		&m.MachineTranslation,
		&m.LastTranslationService,
		&m.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("marker not found", slog.Uint64("marker_id", uint64(id)))
			return nil, store.ErrMarkerNotFound
		}
		log.Error("failed to get marker",
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return nil, store.NewStoreError("marker", "get", "query failed", mapped)
	}

	return &m, nil
}

// UpsertMarker implements store.MarkerStore.UpsertMarker
func (s *PostgresMarkerStore) UpsertMarker(ctx context.Context, id, imageID uint32) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO markers (id, image_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			original_text = CASE WHEN markers.image_id = EXCLUDED.image_id
				THEN markers.original_text ELSE NULL END,
			last_ocr_model = CASE WHEN markers.image_id = EXCLUDED.image_id
				THEN markers.last_ocr_model ELSE NULL END,
			machine_translation = CASE WHEN markers.image_id = EXCLUDED.image_id
				THEN markers.machine_translation ELSE NULL END,
			last_translation_service = CASE WHEN markers.image_id = EXCLUDED.image_id
				THEN markers.last_translation_service ELSE NULL END,
			image_id = EXCLUDED.image_id,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, int64(id), int64(imageID), s.now().UTC()); err != nil {
		log.Error("failed to upsert marker",
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return store.NewStoreError("marker", "upsert", "exec failed", MapError(err))
	}

	log.Debug("marker upserted",
		slog.Uint64("marker_id", uint64(id)),
		slog.Uint64("image_id", uint64(imageID)))
	return nil
}

// SaveOCRText implements store.MarkerStore.SaveOCRText
func (s *PostgresMarkerStore) SaveOCRText(ctx context.Context, id uint32, text, model string) error {
	query := `
		UPDATE markers
		SET original_text = $2, last_ocr_model = $3, updated_at = $4
		WHERE id = $1
	`
	return s.exec(ctx, "save_ocr_text", id, query, text, model)
}

// SaveTranslation implements store.MarkerStore.SaveTranslation
func (s *PostgresMarkerStore) SaveTranslation(ctx context.Context, id uint32, text, service string) error {
	query := `
		UPDATE markers
		SET machine_translation = $2, last_translation_service = $3, updated_at = $4
		WHERE id = $1
	`
	return s.exec(ctx, "save_translation", id, query, text, service)
}

func (s *PostgresMarkerStore) exec(ctx context.Context, op string, id uint32, query, text, source string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, int64(id), text, source, s.now().UTC())
	if err != nil {
		log.Error("marker update failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return store.NewStoreError("marker", op, "exec failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrMarkerNotFound)
}
