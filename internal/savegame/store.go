package savegame

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// DefaultSlot names the save used when no slot is given.
const DefaultSlot = "save_game"

// ErrInvalidSlot is returned for a slot name that cannot be used as a key.
var ErrInvalidSlot = errors.New("invalid save slot")

// Store persists one trainer per slot.
type Store interface {
	// Load returns the trainer saved in slot. A slot that was never saved
	// yields trainer.NewDefault() and a nil error.
	Load(ctx context.Context, slot string) (*trainer.Trainer, error)
	// Save replaces the trainer saved in slot.
	Save(ctx context.Context, slot string, t *trainer.Trainer) error
}

// Deleter is implemented by stores that can discard a slot.
type Deleter interface {
	// Delete removes slot. Deleting a slot that was never saved is not an error.
	Delete(ctx context.Context, slot string) error
}

// NormalizeSlot returns DefaultSlot for an empty slot and rejects names
// containing path separators or dot segments.
func NormalizeSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return DefaultSlot, nil
	}
	if slot == "." || slot == ".." || strings.ContainsAny(slot, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return slot, nil
}

// FileStore keeps each slot in <dir>/<slot>.json.
type FileStore struct {
	dir     string
	catalog *species.Catalog
	logger  *zap.Logger
}

// NewFileStore creates a FileStore rooted at dir. An empty dir means the
// working directory; a nil logger is replaced by a no-op logger.
//
// Precondition: cat must be non-nil.
func NewFileStore(dir string, cat *species.Catalog, logger *zap.Logger) *FileStore {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, catalog: cat, logger: logger}
}

// Path returns the file backing slot.
func (s *FileStore) Path(slot string) (string, error) {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, slot+".json"), nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, slot string) (*trainer.Trainer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no save file, starting fresh", zap.String("path", path))
		return trainer.NewDefault(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading save file %s: %w", path, err)
	}
	t, err := Unmarshal(data, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	s.logger.Debug("save loaded", zap.String("path", path), zap.Int("roster", len(t.Roster)))
	return t, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, slot string, t *trainer.Trainer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing save file: %w", err)
	}
	s.logger.Info("game saved", zap.String("path", path))
	return nil
}

// Delete implements Deleter.
func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing save file: %w", err)
	}
	return nil
}

// MemoryStore keeps encoded records in memory. It is useful for tests and
// for sessions that must not touch disk.
type MemoryStore struct {
	catalog *species.Catalog
	records map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(cat *species.Catalog) *MemoryStore {
	return &MemoryStore{catalog: cat, records: make(map[string][]byte)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, slot string) (*trainer.Trainer, error) {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	data, ok := s.records[slot]
	if !ok {
		return trainer.NewDefault(), nil
	}
	return UnmarshalRecord(data, s.catalog)
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, slot string, t *trainer.Trainer) error {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return err
	}
	data, err := MarshalRecord(t)
	if err != nil {
		return err
	}
	s.records[slot] = data
	return nil
}

// Delete implements Deleter.
func (s *MemoryStore) Delete(_ context.Context, slot string) error {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return err
	}
	delete(s.records, slot)
	return nil
}
