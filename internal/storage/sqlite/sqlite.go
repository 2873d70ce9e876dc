// Package sqlite stores trainer records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

const schema = `
CREATE TABLE IF NOT EXISTS trainers (
	slot       TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Open opens (and creates if missing) the SQLite database at path and
// ensures the trainers table exists.
//
// Postcondition: Returns a ready database or a non-nil error.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return db, nil
}

// TrainerStore keeps one JSON record per slot in the trainers table.
type TrainerStore struct {
	db      *sql.DB
	catalog *species.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewTrainerStore creates a TrainerStore on an opened database.
//
// Precondition: db was returned by Open; cat must be non-nil.
func NewTrainerStore(db *sql.DB, cat *species.Catalog, logger *zap.Logger) *TrainerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerStore{db: db, catalog: cat, logger: logger, now: time.Now}
}

// Load implements savegame.Store.
func (s *TrainerStore) Load(ctx context.Context, slot string) (*trainer.Trainer, error) {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	var data string
	err = s.db.QueryRowContext(ctx, `SELECT record FROM trainers WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("no saved trainer, starting fresh", zap.String("slot", slot))
		return trainer.NewDefault(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying trainer %s: %w", slot, err)
	}
	t, err := savegame.UnmarshalRecord([]byte(data), s.catalog)
	if err != nil {
		return nil, fmt.Errorf("decoding trainer %s: %w", slot, err)
	}
	return t, nil
}

// Save implements savegame.Store.
func (s *TrainerStore) Save(ctx context.Context, slot string, t *trainer.Trainer) error {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return err
	}
	data, err := savegame.MarshalRecord(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trainers (slot, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		slot, string(data), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving trainer %s: %w", slot, err)
	}
	s.logger.Info("game saved", zap.String("slot", slot))
	return nil
}

// Delete removes the record for slot.
func (s *TrainerStore) Delete(ctx context.Context, slot string) error {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trainers WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("deleting trainer %s: %w", slot, err)
	}
	return nil
}

// Slots lists every saved slot in name order.
func (s *TrainerStore) Slots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot FROM trainers ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scanning slot row: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
