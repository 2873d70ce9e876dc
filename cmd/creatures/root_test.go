package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/region"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

func writeConfig(t *testing.T, backend string) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfg := fmt.Sprintf(`logging:
  level: error
storage:
  backend: %s
  dir: %s
  sqlite_path: %s
game:
  seed: 7
`, backend, dir, filepath.Join(dir, "creatures.db"))
	path = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewGameThenStatus(t *testing.T) {
	cfg, _ := writeConfig(t, "file")

	out, err := execute(t, "", "--config", cfg, "new", "--name", "Ash")
	require.NoError(t, err)
	assert.Contains(t, out, "New game started for Ash with $500.")

	out, err = execute(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Ash")
	assert.Contains(t, out, "Money: $500")
	assert.Contains(t, out, "No creatures yet.")
	assert.Contains(t, out, "- Pokeball: 5")
	assert.Contains(t, out, "- Potion: 3")
}

func TestStatus_MissingSaveShowsDefaults(t *testing.T) {
	cfg, _ := writeConfig(t, "file")

	out, err := execute(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Player")
	assert.Contains(t, out, "Money: $0")
}

func TestPlay_StarterIsSaved(t *testing.T) {
	cfg, dir := writeConfig(t, "file")

	out, err := execute(t, "1\n0\n", "--config", cfg, "play")
	require.NoError(t, err)
	assert.Contains(t, out, "You received Pikachu!")
	assert.Contains(t, out, "Game saved. See you next time!")
	assert.FileExists(t, filepath.Join(dir, savegame.DefaultSlot+".json"))

	out, err = execute(t, "", "--config", cfg, "pokedex")
	require.NoError(t, err)
	assert.Contains(t, out, "- Pikachu | Type: Electric")
}

func TestSlotFlag(t *testing.T) {
	cfg, dir := writeConfig(t, "file")

	_, err := execute(t, "", "--config", cfg, "--slot", "second", "new", "--name", "Misty")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "second.json"))
	assert.NoFileExists(t, filepath.Join(dir, savegame.DefaultSlot+".json"))

	out, err := execute(t, "", "--config", cfg, "--slot", "second", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Misty")
}

func TestHeal(t *testing.T) {
	cfg, dir := writeConfig(t, "file")
	store := savegame.NewFileStore(dir, species.Default(), zaptest.NewLogger(t))
	tr := trainer.New("Ash")
	c := creature.New(species.Default().Lookup("Squirtle"), 5, "")
	c.TakeDamage(30)
	tr.AddCreature(c)
	require.NoError(t, store.Save(context.Background(), savegame.DefaultSlot, tr))

	out, err := execute(t, "", "--config", cfg, "heal")
	require.NoError(t, err)
	assert.Contains(t, out, "All creatures are fully healed.")

	got, err := store.Load(context.Background(), savegame.DefaultSlot)
	require.NoError(t, err)
	require.Len(t, got.Roster, 1)
	assert.Equal(t, got.Roster[0].MaxHP, got.Roster[0].HP)
}

func TestReset(t *testing.T) {
	cfg, dir := writeConfig(t, "file")

	_, err := execute(t, "", "--config", cfg, "new", "--name", "Ash")
	require.NoError(t, err)
	out, err := execute(t, "", "--config", cfg, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, `Save "save_game" deleted.`)
	assert.NoFileExists(t, filepath.Join(dir, savegame.DefaultSlot+".json"))

	// Resetting an empty slot is not an error.
	_, err = execute(t, "", "--config", cfg, "reset")
	require.NoError(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	cfg, dir := writeConfig(t, "sqlite")

	_, err := execute(t, "", "--config", cfg, "new", "--name", "Brock")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "creatures.db"))

	out, err := execute(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Brock")
}

func TestRedisBackend(t *testing.T) {
	srv := miniredis.RunT(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`logging:
  level: error
storage:
  backend: redis
redis:
  addr: %s
  key_prefix: "test:"
`, srv.Addr())), 0o600))

	_, err := execute(t, "", "--config", cfg, "new", "--name", "Gary")
	require.NoError(t, err)
	assert.True(t, srv.Exists("test:save_game"))

	out, err := execute(t, "", "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Gary")

	_, err = execute(t, "", "--config", cfg, "reset")
	require.NoError(t, err)
	assert.False(t, srv.Exists("test:save_game"))
}

func TestInvalidConfig(t *testing.T) {
	cfg, _ := writeConfig(t, "floppy")

	_, err := execute(t, "", "--config", cfg, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "status")
	require.Error(t, err)
}

func TestLoadContent_Defaults(t *testing.T) {
	cat, regions, err := loadContent("")
	require.NoError(t, err)
	assert.Same(t, species.Default(), cat)
	assert.Same(t, region.Default(), regions)

	cat, regions, err = loadContent(t.TempDir())
	require.NoError(t, err)
	assert.Same(t, species.Default(), cat)
	assert.Same(t, region.Default(), regions)
}

func TestLoadContent_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, speciesFile), []byte("species: [: bad"), 0o600))

	_, _, err := loadContent(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading species")
}

func TestNewSource_SeedIsReproducible(t *testing.T) {
	logger := zaptest.NewLogger(t)
	a, b := newSource(42, logger), newSource(42, logger)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
