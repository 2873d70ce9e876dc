package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/config"
	"github.com/cory-johannsen/creatures/migrations"
)

// Migrator applies the embedded schema migrations to one database.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewMigrator opens a migrator over the embedded migrations for cfg.
// A nil logger is replaced by a no-op logger.
//
// Postcondition: on success the caller must call Close.
func NewMigrator(cfg config.DatabaseConfig, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies steps pending migrations, or all of them when steps <= 0.
// Having nothing to apply is not an error.
func (m *Migrator) Up(steps int) error {
	if steps > 0 {
		return m.run("up", func() error { return m.m.Steps(steps) })
	}
	return m.run("up", m.m.Up)
}

// Down reverts steps migrations, or all of them when steps <= 0.
// Having nothing to revert is not an error.
func (m *Migrator) Down(steps int) error {
	if steps > 0 {
		return m.run("down", func() error { return m.m.Steps(-steps) })
	}
	return m.run("down", m.m.Down)
}

func (m *Migrator) run(direction string, fn func() error) error {
	start := time.Now()
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Debug("schema up to date", zap.String("direction", direction))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrating %s: %w", direction, err)
	}
	version, dirty, _ := m.Version()
	m.logger.Info("schema migrated",
		zap.String("direction", direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Version reports the applied schema version. A database with no
// migrations applied reports version 0.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the migrator's source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate applies every pending migration to the database in cfg.
func Migrate(cfg config.DatabaseConfig, logger *zap.Logger) error {
	m, err := NewMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(0)
}
