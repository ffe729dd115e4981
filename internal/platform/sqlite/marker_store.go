// Package sqlite provides a single-file SQLite implementation of
// store.MarkerStore for hosts without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite" // sqlite driver
	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/phrazzld/bunny/internal/store"
)

// DriverName is the database/sql driver registered by go-sqlite.
const DriverName = "sqlite"

// Open opens the database file named by dsn. SQLite allows one writer, so
// the pool is pinned to a single connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("missing sqlite dsn")
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
	}
	return db, nil
}

// MarkerStore implements store.MarkerStore on SQLite.
type MarkerStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewMarkerStore creates a SQLite marker store. If logger is nil, a default
// logger will be used.
func NewMarkerStore(db store.DBTX, logger *slog.Logger) *MarkerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkerStore{
		db:     db,
		logger: logger.With(slog.String("component", "marker_store")),
		now:    time.Now,
	}
}

var _ store.MarkerStore = (*MarkerStore)(nil)

// GetMarker implements store.MarkerStore.GetMarker
func (s *MarkerStore) GetMarker(ctx context.Context, id uint32) (*store.Marker, error) {
	var (
		m         store.Marker
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, image_id, original_text, last_ocr_model,
       machine_translation, last_translation_service, updated_at
FROM markers
WHERE id = ?
`, int64(id)).Scan(
		&m.ID,
		&m.ImageID,
		&m.OriginalText,
		&m.LastOCRModel,
		&m.MachineTranslation,
		&m.LastTranslationService,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMarkerNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get marker",
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return nil, store.NewStoreError("marker", "get", "query failed", err)
	}

	m.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &m, nil
}

// UpsertMarker implements store.MarkerStore.UpsertMarker
func (s *MarkerStore) UpsertMarker(ctx context.Context, id, imageID uint32) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO markers (id, image_id, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  original_text = CASE WHEN markers.image_id = excluded.image_id
    THEN markers.original_text ELSE NULL END,
  last_ocr_model = CASE WHEN markers.image_id = excluded.image_id
    THEN markers.last_ocr_model ELSE NULL END,
  machine_translation = CASE WHEN markers.image_id = excluded.image_id
    THEN markers.machine_translation ELSE NULL END,
  last_translation_service = CASE WHEN markers.image_id = excluded.image_id
    THEN markers.last_translation_service ELSE NULL END,
  image_id = excluded.image_id,
  updated_at = excluded.updated_at
`, int64(id), int64(imageID), s.now().UTC().Unix())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert marker",
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return store.NewStoreError("marker", "upsert", "exec failed", err)
	}
	return nil
}

// SaveOCRText implements store.MarkerStore.SaveOCRText
func (s *MarkerStore) SaveOCRText(ctx context.Context, id uint32, text, model string) error {
	return s.update(ctx, "save_ocr_text", `
UPDATE markers
SET original_text = ?, last_ocr_model = ?, updated_at = ?
WHERE id = ?
`, id, text, model)
}

// SaveTranslation implements store.MarkerStore.SaveTranslation
func (s *MarkerStore) SaveTranslation(ctx context.Context, id uint32, text, service string) error {
	return s.update(ctx, "save_translation", `
UPDATE markers
SET machine_translation = ?, last_translation_service = ?, updated_at = ?
WHERE id = ?
`, id, text, service)
}

func (s *MarkerStore) update(ctx context.Context, op, query string, id uint32, text, source string) error {
	result, err := s.db.ExecContext(ctx, query, text, source, s.now().UTC().Unix(), int64(id))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("marker update failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.Uint64("marker_id", uint64(id)))
		return store.NewStoreError("marker", op, "exec failed", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrMarkerNotFound
	}
	return nil
}
