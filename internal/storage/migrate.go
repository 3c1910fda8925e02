package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationResult reports the schema version before and after Migrate.
type MigrationResult struct {
	PreMigrationVersion  uint
	PostMigrationVersion uint
}

// Migrate applies every pending migration to db.
func Migrate(db *sql.DB) (MigrationResult, error) {
	var result MigrationResult

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return result, fmt.Errorf("iofs.New: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return result, fmt.Errorf("postgres.WithInstance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return result, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	result.PreMigrationVersion, _, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("m.Version.preMigrationVersion: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return result, fmt.Errorf("m.Up: %w", err)
	}

	result.PostMigrationVersion, _, err = m.Version()
	if err != nil {
		return result, fmt.Errorf("m.Version.postMigrationVersion: %w", err)
	}
	return result, nil
}
