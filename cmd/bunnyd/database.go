package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/platform/migrations"
	"github.com/phrazzld/bunny/internal/platform/postgres"
	"github.com/phrazzld/bunny/internal/platform/sqlite"
	"github.com/phrazzld/bunny/internal/store"
)

// Values of subjects.driver.
const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

func openDatabase(ctx context.Context, cfg config.SubjectsConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case driverPostgres:
		return postgres.Open(ctx, cfg.DSN)
	case driverSQLite:
		return sqlite.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported subjects driver %q", cfg.Driver)
	}
}

// openMarkerStore builds the marker store for the configured driver. The
// returned db is nil for the memory driver. SQLite databases are migrated on
// open since they usually live next to a single desktop client; Postgres
// must be migrated with `bunnyd migrate`.
func openMarkerStore(
	ctx context.Context,
	cfg config.SubjectsConfig,
	logger *slog.Logger,
) (store.MarkerStore, *sql.DB, error) {
	if cfg.Driver == driverMemory {
		return store.NewMemoryMarkerStore(), nil, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Driver {
	case driverSQLite:
		if err := migrations.Run(ctx, db, driverSQLite, "up", logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return sqlite.NewMarkerStore(db, logger), db, nil
	default:
		return postgres.NewPostgresMarkerStore(db, logger), db, nil
	}
}
