package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creatures/internal/game/battle"
	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/session"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

type scriptSrc struct {
	ints   []int
	floats []float64
}

func (s *scriptSrc) Intn(n int) int {
	if len(s.ints) == 0 {
		return 3 % n
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptSrc) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func mon(name string, level int) *creature.Creature {
	return creature.New(species.Default().Lookup(name), level, "")
}

func newSession(t *testing.T, src dice.Source, roster ...*creature.Creature) (*session.Session, *savegame.MemoryStore) {
	t.Helper()
	tr := trainer.New("Ash")
	for _, c := range roster {
		tr.AddCreature(c)
	}
	store := savegame.NewMemoryStore(species.Default())
	s := session.New(tr, session.Deps{
		Source: src,
		Store:  store,
		Logger: zaptest.NewLogger(t),
	}, session.DefaultConfig())
	return s, store
}

func TestExplore_Hit(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{floats: []float64{0.1}, ints: []int{1, 4}})
	wild, ok, err := s.Explore("Forest")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bulbasaur", wild.Species)
	assert.Equal(t, 8, wild.Level)
	assert.True(t, s.Trainer.Pokedex.Has("Bulbasaur"))
}

func TestExplore_Miss(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{floats: []float64{0.7}})
	wild, ok, err := s.Explore("Route 1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, wild)
	assert.Equal(t, 0, s.Trainer.Pokedex.Len())
}

func TestExplore_RateOverride(t *testing.T) {
	tr := trainer.New("Ash")
	cfg := session.DefaultConfig()
	cfg.EncounterRate = 0.95
	s := session.New(tr, session.Deps{
		Source: &scriptSrc{floats: []float64{0.9}},
		Store:  savegame.NewMemoryStore(species.Default()),
	}, cfg)
	_, ok, err := s.Explore("Volcano")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExplore_UnknownRegion(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{})
	_, _, err := s.Explore("Atlantis")
	assert.ErrorIs(t, err, session.ErrUnknownRegion)
}

func TestConclude_Won(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{}, mon("Charmander", 5))
	wild := mon("Rattata", 3)
	wild.HP = 1
	b := s.StartBattle(wild, -1)
	_, err := b.Step(battle.ActionAttack)
	require.NoError(t, err)

	res, err := s.Conclude(b)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeWon, res.Outcome)
	assert.Equal(t, 20, res.Reward)
	assert.Equal(t, 20, s.Trainer.Money)
	assert.Equal(t, 1, s.Trainer.Wins)
	assert.Len(t, s.Trainer.Roster, 1)
}

func TestConclude_Caught(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{floats: []float64{0.01}}, mon("Charmander", 5))
	wild := mon("Pidgey", 4)
	b := s.StartBattle(wild, 0)
	_, err := b.Step(battle.ActionCapture)
	require.NoError(t, err)

	res, err := s.Conclude(b)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeCaught, res.Outcome)
	assert.Same(t, wild, res.Caught)
	require.Len(t, s.Trainer.Roster, 2)
	assert.Same(t, wild, s.Trainer.Roster[1])
	assert.True(t, s.Trainer.Pokedex.Has("Pidgey"))
	assert.Equal(t, 0, s.Trainer.Wins)
}

func TestConclude_LostHealsRoster(t *testing.T) {
	weak := mon("Pidgey", 2)
	weak.HP = 1
	s, _ := newSession(t, &scriptSrc{}, weak)
	b := s.StartBattle(mon("Charmander", 12), -1)
	_, err := b.Step(battle.ActionAttack)
	require.NoError(t, err)
	require.Equal(t, battle.Lost, b.State())

	res, err := s.Conclude(b)
	require.NoError(t, err)
	assert.True(t, res.Healed)
	assert.Equal(t, weak.MaxHP, weak.HP)
	assert.Equal(t, 0, s.Trainer.Money)
}

func TestConclude_FledChangesNothing(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{floats: []float64{0.1}}, mon("Squirtle", 5))
	before := s.Trainer.Items.Clone()
	b := s.StartBattle(mon("Rattata", 3), -1)
	_, err := b.Step(battle.ActionFlee)
	require.NoError(t, err)

	res, err := s.Conclude(b)
	require.NoError(t, err)
	assert.Equal(t, battle.OutcomeFled, res.Outcome)
	assert.Equal(t, before, s.Trainer.Items)
	assert.Len(t, s.Trainer.Roster, 1)
	assert.Equal(t, 0, s.Trainer.Wins)
}

func TestConclude_Errors(t *testing.T) {
	s, _ := newSession(t, &scriptSrc{floats: []float64{0.1}}, mon("Squirtle", 5))
	b := s.StartBattle(mon("Rattata", 3), -1)
	_, err := s.Conclude(b)
	assert.ErrorIs(t, err, session.ErrBattleInProgress)

	_, err = b.Step(battle.ActionFlee)
	require.NoError(t, err)
	_, err = s.Conclude(b)
	require.NoError(t, err)
	_, err = s.Conclude(b)
	assert.ErrorIs(t, err, session.ErrAlreadyConcluded)
}

func TestStartBattle_ActiveChoice(t *testing.T) {
	fainted := mon("Pikachu", 5)
	fainted.HP = 0
	s, _ := newSession(t, &scriptSrc{}, mon("Squirtle", 5), fainted, mon("Bulbasaur", 5))
	assert.Equal(t, 2, s.StartBattle(mon("Pidgey", 3), 2).ActiveIndex())
	assert.Equal(t, 0, s.StartBattle(mon("Pidgey", 3), 1).ActiveIndex())

	empty, _ := newSession(t, &scriptSrc{})
	assert.Equal(t, battle.Fled, empty.StartBattle(mon("Pidgey", 3), 0).State())
}

func TestStarterSaveAndOpen(t *testing.T) {
	s, store := newSession(t, &scriptSrc{})
	require.True(t, s.NeedsStarter())
	_, err := s.ChooseStarter("Mewtwo")
	assert.ErrorIs(t, err, trainer.ErrUnknownStarter)

	c, err := s.ChooseStarter("Charmander")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Level)
	assert.False(t, s.NeedsStarter())

	require.NoError(t, s.Save(context.Background()))

	reopened, err := session.Open(context.Background(), session.Deps{
		Source: &scriptSrc{},
		Store:  store,
	}, session.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, s.Trainer, reopened.Trainer)
}

func TestHeal(t *testing.T) {
	c := mon("Squirtle", 5)
	c.TakeDamage(30)
	s, _ := newSession(t, &scriptSrc{}, c)
	s.Heal()
	assert.Equal(t, c.MaxHP, c.HP)
}

func TestSession_Property_ProgressInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		tr := trainer.NewGame("Ash")
		_, err := tr.ChooseStarter(species.Default(), rapid.SampledFrom(trainer.Starters).Draw(rt, "starter"))
		require.NoError(rt, err)
		s := session.New(tr, session.Deps{Source: src, Store: savegame.NewMemoryStore(species.Default())}, session.DefaultConfig())
		regions := s.Regions.All()

		for i, n := 0, rapid.IntRange(1, 15).Draw(rt, "explorations"); i < n; i++ {
			dexBefore, winsBefore, moneyBefore := tr.Pokedex.Len(), tr.Wins, tr.Money
			wild, ok, err := s.Explore(rapid.SampledFrom(regions).Draw(rt, "region").Name)
			require.NoError(rt, err)
			if ok {
				b := s.StartBattle(wild, -1)
				_, _, err := b.Run(func(*battle.Battle) battle.Action {
					return battle.Actions[src.Intn(len(battle.Actions))]
				})
				require.NoError(rt, err)
				_, err = s.Conclude(b)
				require.NoError(rt, err)
			}
			require.GreaterOrEqual(rt, tr.Pokedex.Len(), dexBefore)
			require.GreaterOrEqual(rt, tr.Wins, winsBefore)
			require.GreaterOrEqual(rt, tr.Money, moneyBefore)
			require.True(rt, tr.HasAble(), "a loss always ends with a healed roster")
			for k, v := range tr.Items {
				require.Greater(rt, v, 0, k)
			}
		}
	})
}
