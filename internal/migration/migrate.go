package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"sublease-marketplace/utils"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Source returns the embedded migration files as a golang-migrate source
func Source() (source.Driver, error) {
	return iofs.New(migrationFiles, "sql")
}

// Migrator applies the embedded schema migrations to a postgres database
type Migrator struct {
	m *migrate.Migrate
}

// New builds a Migrator on an open postgres connection
func New(db *sql.DB) (*Migrator, error) {
	src, err := Source()
	if err != nil {
		return nil, fmt.Errorf("migration: open embedded source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration: create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration: create migrate instance: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			utils.Info("No pending migrations", nil)
			return nil
		}
		return fmt.Errorf("migration: up: %w", err)
	}
	m.logVersion("Migrations applied")
	return nil
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			utils.Info("No migrations to roll back", nil)
			return nil
		}
		return fmt.Errorf("migration: down: %w", err)
	}
	utils.Info("Migrations rolled back", nil)
	return nil
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	if err := m.m.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration: steps %d: %w", n, err)
	}
	m.logVersion("Migration steps applied")
	return nil
}

// Version reports the current version; 0 means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("migration: version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running migrations, used to clear a dirty state
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("migration: force %d: %w", version, err)
	}
	utils.Warn("Migration version forced", map[string]any{"version": version})
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration: close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration: close database: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logVersion(msg string) {
	version, dirty, err := m.Version()
	if err != nil {
		utils.Warn(msg, map[string]any{"error": err.Error()})
		return
	}
	utils.Info(msg, map[string]any{"version": version, "dirty": dirty})
}
