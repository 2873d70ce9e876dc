// Package session ties the engine components to one loaded trainer and
// applies the post-battle policy that the battle engine leaves to its caller.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/battle"
	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/encounter"
	"github.com/cory-johannsen/creatures/internal/game/region"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

// DefaultRewardMoney is the currency granted for a won battle.
const DefaultRewardMoney = 20

var (
	// ErrUnknownRegion is returned by Explore for a region not in the table.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrBattleInProgress is returned by Conclude for a battle that has not ended.
	ErrBattleInProgress = errors.New("battle still in progress")
	// ErrAlreadyConcluded is returned when Conclude is called twice for one battle.
	ErrAlreadyConcluded = errors.New("battle already concluded")
)

// Config holds the tunable session policy.
type Config struct {
	// Slot is the save slot the session loads from and saves to.
	Slot string
	// RewardMoney is granted for every won battle.
	RewardMoney int
	// EncounterRate overrides every region's rate when positive.
	EncounterRate float64
	// Rules are passed to every battle.
	Rules battle.Rules
}

// DefaultConfig returns the standard policy.
func DefaultConfig() Config {
	return Config{
		Slot:        savegame.DefaultSlot,
		RewardMoney: DefaultRewardMoney,
		Rules:       battle.DefaultRules(),
	}
}

// Deps are the collaborators a Session needs.
type Deps struct {
	Catalog *species.Catalog
	Regions *region.Table
	Source  dice.Source
	Store   savegame.Store
	Logger  *zap.Logger
}

// Session is one player's game in progress.
type Session struct {
	Trainer *trainer.Trainer
	Catalog *species.Catalog
	Regions *region.Table

	src       dice.Source
	gen       *encounter.Generator
	store     savegame.Store
	cfg       Config
	logger    *zap.Logger
	concluded map[string]bool
}

// New creates a Session around an already loaded trainer. Nil catalog or
// regions fall back to the built-in content; a nil logger is replaced by a
// no-op logger.
//
// Precondition: t, deps.Source and deps.Store must be non-nil.
func New(t *trainer.Trainer, deps Deps, cfg Config) *Session {
	if deps.Catalog == nil {
		deps.Catalog = species.Default()
	}
	if deps.Regions == nil {
		deps.Regions = region.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	logger := deps.Logger.With(zap.String("trainer", t.Name))
	return &Session{
		Trainer:   t,
		Catalog:   deps.Catalog,
		Regions:   deps.Regions,
		src:       deps.Source,
		gen:       encounter.NewGenerator(deps.Source, deps.Catalog, logger),
		store:     deps.Store,
		cfg:       cfg,
		logger:    logger,
		concluded: make(map[string]bool),
	}
}

// Open loads the trainer saved in cfg.Slot and wraps it in a Session.
func Open(ctx context.Context, deps Deps, cfg Config) (*Session, error) {
	if deps.Catalog == nil {
		deps.Catalog = species.Default()
	}
	t, err := deps.Store.Load(ctx, cfg.Slot)
	if err != nil {
		return nil, fmt.Errorf("loading trainer: %w", err)
	}
	return New(t, deps, cfg), nil
}

// NeedsStarter reports whether the trainer has not picked a starter yet.
func (s *Session) NeedsStarter() bool { return len(s.Trainer.Roster) == 0 }

// ChooseStarter grants the starter creature of the given species.
func (s *Session) ChooseStarter(name string) (*creature.Creature, error) {
	c, err := s.Trainer.ChooseStarter(s.Catalog, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("starter chosen", zap.String("species", c.Species))
	return c, nil
}

// Explore rolls for a wild encounter in the named region. A hit records
// the species in the pokedex.
func (s *Session) Explore(regionName string) (*creature.Creature, bool, error) {
	r, ok := s.Regions.Get(regionName)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownRegion, regionName)
	}
	if s.cfg.EncounterRate > 0 {
		r.EncounterRate = s.cfg.EncounterRate
	}
	wild, hit := s.gen.Generate(r, s.Trainer.Pokedex)
	return wild, hit, nil
}

// StartBattle starts a battle against wild. A non-negative activeIdx picks
// the fighting creature; an invalid or fainted choice falls back to the
// first able creature.
func (s *Session) StartBattle(wild *creature.Creature, activeIdx int) *battle.Battle {
	b := battle.NewWithRules(s.Trainer, wild, s.src, s.logger, s.cfg.Rules)
	if activeIdx >= 0 && !b.Over() {
		if ok, _ := b.SelectActive(activeIdx); !ok {
			s.logger.Debug("invalid active choice, using first able", zap.Int("index", activeIdx))
		}
	}
	return b
}

// Result reports what Conclude changed.
type Result struct {
	Outcome battle.Outcome
	// Caught is the creature added to the roster, if any.
	Caught *creature.Creature
	// Reward is the currency granted.
	Reward int
	// Healed is true when the roster was restored after a loss.
	Healed bool
}

// Conclude applies the post-battle policy for a finished battle:
// Caught adds the wild creature to the roster, Won grants the reward and a
// win, Lost fully heals the roster, Fled changes nothing.
//
// Precondition: b was started by this session.
// Postcondition: each battle is concluded at most once.
func (s *Session) Conclude(b *battle.Battle) (Result, error) {
	if !b.Over() {
		return Result{}, ErrBattleInProgress
	}
	if s.concluded[b.ID] {
		return Result{}, fmt.Errorf("%w: %s", ErrAlreadyConcluded, b.ID)
	}
	s.concluded[b.ID] = true

	res := Result{Outcome: b.Outcome()}
	switch res.Outcome {
	case battle.OutcomeCaught:
		s.Trainer.AddCreature(b.Wild)
		res.Caught = b.Wild
	case battle.OutcomeWon:
		s.Trainer.RecordWin(s.cfg.RewardMoney)
		res.Reward = max(0, s.cfg.RewardMoney)
	case battle.OutcomeLost:
		s.Trainer.HealAll()
		res.Healed = true
	}
	s.logger.Info("battle concluded",
		zap.String("battle_id", b.ID),
		zap.Stringer("outcome", res.Outcome),
		zap.Int("money", s.Trainer.Money),
		zap.Int("wins", s.Trainer.Wins),
	)
	return res, nil
}

// Heal restores every roster member, as the Pokémon Center does.
func (s *Session) Heal() {
	s.Trainer.HealAll()
	s.logger.Info("roster healed", zap.Int("roster", len(s.Trainer.Roster)))
}

// Save persists the trainer to the configured slot.
func (s *Session) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.cfg.Slot, s.Trainer); err != nil {
		return fmt.Errorf("saving trainer: %w", err)
	}
	return nil
}
