package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

// TrainerRepository stores one trainer record per save slot in the
// trainers table.
type TrainerRepository struct {
	db      *pgxpool.Pool
	catalog *species.Catalog
	logger  *zap.Logger
}

// NewTrainerRepository creates a TrainerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; cat must be non-nil.
func NewTrainerRepository(db *pgxpool.Pool, cat *species.Catalog, logger *zap.Logger) *TrainerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerRepository{db: db, catalog: cat, logger: logger}
}

// Load returns the trainer saved in slot.
//
// Postcondition: Returns trainer.NewDefault() when the slot has no row.
func (r *TrainerRepository) Load(ctx context.Context, slot string) (*trainer.Trainer, error) {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = r.db.QueryRow(ctx, `SELECT record FROM trainers WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Info("no saved trainer, starting fresh", zap.String("slot", slot))
		return trainer.NewDefault(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying trainer %s: %w", slot, err)
	}
	t, err := savegame.UnmarshalRecord(data, r.catalog)
	if err != nil {
		return nil, fmt.Errorf("decoding trainer %s: %w", slot, err)
	}
	return t, nil
}

// Save inserts or replaces the record for slot.
//
// Postcondition: A subsequent Load of slot returns an equal trainer.
func (r *TrainerRepository) Save(ctx context.Context, slot string, t *trainer.Trainer) error {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return err
	}
	data, err := savegame.MarshalRecord(t)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO trainers (slot, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE
		SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`,
		slot, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving trainer %s: %w", slot, err)
	}
	r.logger.Info("game saved", zap.String("slot", slot))
	return nil
}

// Delete removes the record for slot. Deleting a missing slot is not an error.
func (r *TrainerRepository) Delete(ctx context.Context, slot string) error {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM trainers WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("deleting trainer %s: %w", slot, err)
	}
	return nil
}
