// Package postgres provides the PostgreSQL implementation of store.MarkerStore.
// It connects through database/sql with the pgx stdlib driver and maps driver
// errors onto the sentinel errors of internal/store.
package postgres
