// Package migrations applies the markers schema with goose. The SQL files are
// embedded per dialect so the daemon binary carries its own schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var embedded embed.FS

// TableName is the goose version table.
const TableName = "bunny_schema_migrations"

// Dialects supported by Run, keyed by subjects driver name.
var dialects = map[string]struct {
	goose string
	dir   string
}{
	"postgres": {goose: "postgres", dir: "sql/postgres"},
	"sqlite":   {goose: "sqlite3", dir: "sql/sqlite"},
}

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// goose keeps its settings in package state.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Run executes a migration command against db for the given subjects driver
// ("postgres" or "sqlite").
func Run(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	if logger == nil {
		logger = slog.Default()
	}
	migrationLogger := logger.With("component", "migrations", "driver", driver)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedded)
	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationLogger.Info("executing migration command", "command", command)

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, d.dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, d.dir)
	case CommandReset:
		err = goose.ResetContext(ctx, db, d.dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, d.dir)
	case CommandVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			migrationLogger.Info("current schema version", "version", version)
		}
	default:
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, or version)",
			command,
		)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	migrationLogger.Info("migration command completed", "command", command)
	return nil
}

// Version returns the applied schema version for db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("no migrations for driver %q", driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(d.goose); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
