package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// migrate driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/mini-spade/internal/config"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres/migrations"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
)

// migrator is the subset of *migrate.Migrate used here.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(v int) error
	Close() (error, error)
}

// newMigrate is a variable to allow mocking in tests.
var newMigrate = func(source fs.FS, dsn string) (migrator, error) {
	src, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Migrator applies the embedded schema migrations.  Each call opens and
// closes its own migrate instance and database handle, so it never touches
// the request pool.
type Migrator struct {
	dsn    string
	source fs.FS
	logger logging.Logger
}

// NewMigrator returns a Migrator for the embedded migrations.
func NewMigrator(cfg config.DatabaseConfig, log logging.Logger) *Migrator {
	return NewMigratorWithSource(BuildDSN(cfg), migrations.FS, log)
}

// NewMigratorWithSource returns a Migrator reading migrations from source.
func NewMigratorWithSource(dsn string, source fs.FS, log logging.Logger) *Migrator {
	return &Migrator{dsn: dsn, source: source, logger: log}
}

func (m *Migrator) open() (migrator, error) {
	mg, err := newMigrate(m.source, m.dsn)
	if err != nil {
		return nil, err
	}
	return mg, nil
}

func closeMigrator(mg migrator) {
	_, _ = mg.Close()
}

// RunMigrations applies every pending migration.  No pending migration is
// not an error.
func (m *Migrator) RunMigrations() error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer closeMigrator(mg)

	if err := mg.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("Database schema is up to date")
			return nil
		}
		version, _, _ := mg.Version()
		return fmt.Errorf("failed to run migrations (current version: %d): %w", version, err)
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		m.logger.Warn("Failed to get migration version", logging.Err(err))
	}
	m.logger.Info("Database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// RollbackMigration reverts steps migrations.
func (m *Migrator) RollbackMigration(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}

	mg, err := m.open()
	if err != nil {
		return err
	}
	defer closeMigrator(mg)

	if err := mg.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
	}
	m.logger.Info("Database migrations rolled back", logging.Int("steps", steps))
	return nil
}

// MigrationStatus returns the applied version and whether a previous
// migration failed half way.  A fresh database reports version 0.
func (m *Migrator) MigrationStatus() (version uint, dirty bool, err error) {
	mg, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(mg)

	version, dirty, err = mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// ForceMigrationVersion marks version as applied without running anything.
// Used to recover from a dirty state after fixing it by hand.
func (m *Migrator) ForceMigrationVersion(version int) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer closeMigrator(mg)

	if err := mg.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	m.logger.Warn("Forced migration version", logging.Int("version", version))
	return nil
}

//Personal.AI order the ending
