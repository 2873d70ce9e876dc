package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
	"github.com/cory-johannsen/creatures/internal/storage/postgres"
	"github.com/cory-johannsen/creatures/internal/testutil"
)

var _ savegame.Store = (*postgres.TrainerRepository)(nil)

func setupRepo(t *testing.T) (*postgres.TrainerRepository, *testutil.PostgresContainer) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewTrainerRepository(pc.RawPool, species.Default(), zaptest.NewLogger(t)), pc
}

func sampleTrainer() *trainer.Trainer {
	t := trainer.New("Erika")
	t.AddCreature(creature.New(species.Default().Lookup("Bulbasaur"), 14, "Ivy"))
	t.AddCreature(creature.New(species.Default().Lookup("Pidgey"), 6, ""))
	t.Money = 999
	t.Wins = 21
	return t
}

func TestTrainerRepository(t *testing.T) {
	repo, pc := setupRepo(t)
	ctx := context.Background()

	t.Run("missing slot yields default", func(t *testing.T) {
		got, err := repo.Load(ctx, "unsaved")
		require.NoError(t, err)
		assert.Equal(t, trainer.NewDefault(), got)
	})

	t.Run("save and load", func(t *testing.T) {
		orig := sampleTrainer()
		require.NoError(t, repo.Save(ctx, "", orig))
		got, err := repo.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		orig := sampleTrainer()
		orig.Wins = 22
		require.NoError(t, repo.Save(ctx, "", orig))
		got, err := repo.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 22, got.Wins)

		var rows int
		require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT COUNT(*) FROM trainers`).Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("record is queryable json", func(t *testing.T) {
		var name string
		require.NoError(t, pc.RawPool.QueryRow(ctx,
			`SELECT record->>'name' FROM trainers WHERE slot = 'save_game'`).Scan(&name))
		assert.Equal(t, "Erika", name)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, ""))
		got, err := repo.Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, trainer.NewDefault(), got)
	})

	t.Run("property round trip", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			orig := trainer.New(rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(rt, "name"))
			orig.Money = rapid.IntRange(0, 10_000).Draw(rt, "money")
			orig.Discover(rapid.SampledFrom(species.Default().Names()).Draw(rt, "seen"))
			slot := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "slot")

			require.NoError(rt, repo.Save(ctx, slot, orig))
			got, err := repo.Load(ctx, slot)
			require.NoError(rt, err)
			require.Equal(rt, orig, got)
		})
	})
}

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 2*time.Second))
}

func TestMigrator(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()
	m, err := postgres.NewMigrator(pc.Config, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer m.Close()

	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)

	require.NoError(t, m.Up(0))
	v, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	// Nothing pending is not an error.
	require.NoError(t, m.Up(0))

	require.NoError(t, m.Down(1))
	var exists bool
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'trainers')`).Scan(&exists))
	assert.False(t, exists)
}

func TestOpen_AutoMigrate(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()
	cfg := pc.Config
	cfg.AutoMigrate = true

	pool, err := postgres.Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer pool.Close()

	repo := postgres.NewTrainerRepository(pool.DB(), species.Default(), zaptest.NewLogger(t))
	require.NoError(t, repo.Save(ctx, "auto", sampleTrainer()))
	got, err := repo.Load(ctx, "auto")
	require.NoError(t, err)
	assert.Equal(t, "Erika", got.Name)
}
