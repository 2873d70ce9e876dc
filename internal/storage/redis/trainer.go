package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

// DefaultKeyPrefix is prepended to the slot to form a key.
const DefaultKeyPrefix = "trainer:"

// TrainerStore keeps each slot's JSON record under <prefix><slot>.
type TrainerStore struct {
	client  Client
	prefix  string
	catalog *species.Catalog
	logger  *zap.Logger
}

// NewTrainerStore creates a TrainerStore. An empty prefix becomes
// DefaultKeyPrefix; a nil logger is replaced by a no-op logger.
//
// Precondition: client and cat must be non-nil.
func NewTrainerStore(client Client, prefix string, cat *species.Catalog, logger *zap.Logger) *TrainerStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerStore{client: client, prefix: prefix, catalog: cat, logger: logger}
}

// Key returns the Redis key for slot.
func (s *TrainerStore) Key(slot string) (string, error) {
	slot, err := savegame.NormalizeSlot(slot)
	if err != nil {
		return "", err
	}
	return s.prefix + slot, nil
}

// Load implements savegame.Store.
func (s *TrainerStore) Load(ctx context.Context, slot string) (*trainer.Trainer, error) {
	key, err := s.Key(slot)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Info("no saved trainer, starting fresh", zap.String("key", key))
		return trainer.NewDefault(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	t, err := savegame.UnmarshalRecord(data, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return t, nil
}

// Save implements savegame.Store. Records never expire.
func (s *TrainerStore) Save(ctx context.Context, slot string, t *trainer.Trainer) error {
	key, err := s.Key(slot)
	if err != nil {
		return err
	}
	data, err := savegame.MarshalRecord(t)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	s.logger.Info("game saved", zap.String("key", key))
	return nil
}

// Delete removes the record for slot.
func (s *TrainerStore) Delete(ctx context.Context, slot string) error {
	key, err := s.Key(slot)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
