// Package battle implements the turn-based wild battle state machine.
//
// A round is: player action, then (unless the battle ended or the wild
// creature fainted) the wild creature's counter attack. The interactive loop
// lives in the caller; Step takes an already chosen Action and returns at once.
package battle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// Capture odds: BaseCatchChance + CatchChancePerLevel*(player-wild), clamped.
const (
	BaseCatchChance     = 0.4
	CatchChancePerLevel = 0.02
	MinCatchChance      = 0.05
	MaxCatchChance      = 0.95
)

var (
	// ErrBattleOver is returned by Step once the battle reached a terminal state.
	ErrBattleOver = errors.New("battle is over")
	// ErrUnknownAction is returned by Step for an invalid Action.
	ErrUnknownAction = errors.New("unknown battle action")
	// ErrAlreadyStarted is returned by SelectActive after the first round.
	ErrAlreadyStarted = errors.New("battle already started")
)

// Rules are the tunable battle constants.
type Rules struct {
	// PotionHeal is the maximum HP a Potion restores.
	PotionHeal int
	// FleeChance is the probability a flee attempt succeeds.
	FleeChance float64
}

// DefaultRules returns the standard rules: Potion heals 20, flee succeeds 70% of the time.
func DefaultRules() Rules {
	return Rules{PotionHeal: trainer.PotionHeal, FleeChance: 0.7}
}

// CatchChance returns the capture probability for a player creature of
// playerLevel against a wild creature of wildLevel.
//
// Postcondition: MinCatchChance <= result <= MaxCatchChance.
func CatchChance(playerLevel, wildLevel int) float64 {
	p := BaseCatchChance + CatchChancePerLevel*float64(playerLevel-wildLevel)
	return max(MinCatchChance, min(MaxCatchChance, p))
}

// Battle is a single encounter between the trainer's active creature and a wild creature.
type Battle struct {
	// ID identifies the battle in logs.
	ID string
	// Wild is the opposing creature. It is not added to the roster here.
	Wild *creature.Creature

	trainer *trainer.Trainer
	active  int
	state   State
	round   int
	rules   Rules
	src     dice.Source
	logger  *zap.Logger
}

// New starts a battle with DefaultRules.
func New(t *trainer.Trainer, wild *creature.Creature, src dice.Source, logger *zap.Logger) *Battle {
	return NewWithRules(t, wild, src, logger, DefaultRules())
}

// NewWithRules starts a battle. The active creature is the first non-fainted
// roster member. When the roster has none the battle is immediately Fled.
//
// Precondition: t, wild and src must be non-nil.
func NewWithRules(t *trainer.Trainer, wild *creature.Creature, src dice.Source, logger *zap.Logger, rules Rules) *Battle {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Battle{
		ID:      uuid.New().String(),
		Wild:    wild,
		trainer: t,
		active:  -1,
		state:   AwaitingPlayerAction,
		rules:   rules,
		src:     src,
	}
	b.logger = logger.With(zap.String("battle_id", b.ID))

	idx, ok := t.FirstAble()
	if !ok {
		b.state = Fled
		b.logger.Info("battle skipped: no able creature", zap.String("wild", wild.Species))
		return b
	}
	b.active = idx
	b.logger.Info("battle started",
		zap.String("wild", wild.Species),
		zap.Int("wild_level", wild.Level),
		zap.String("active", t.Roster[idx].Nickname),
	)
	return b
}

// SelectActive chooses which roster member fights, before the first round.
// An out-of-range or fainted index leaves the current choice in place and
// reports false.
func (b *Battle) SelectActive(idx int) (bool, error) {
	if b.state.IsTerminal() {
		return false, ErrBattleOver
	}
	if b.round > 0 {
		return false, ErrAlreadyStarted
	}
	c, err := b.trainer.Creature(idx)
	if err != nil || c.IsFainted() {
		return false, nil
	}
	b.active = idx
	return true, nil
}

// State returns the current state.
func (b *Battle) State() State { return b.state }

// Outcome returns the terminal outcome, or OutcomeNone while running.
func (b *Battle) Outcome() Outcome { return outcomeOf(b.state) }

// Over reports whether the battle has ended.
func (b *Battle) Over() bool { return b.state.IsTerminal() }

// Rounds returns the number of rounds played.
func (b *Battle) Rounds() int { return b.round }

// ActiveIndex returns the roster index of the active creature, or -1 if none.
func (b *Battle) ActiveIndex() int { return b.active }

// Active returns the active creature, or nil if the battle never engaged.
func (b *Battle) Active() *creature.Creature {
	if b.active < 0 {
		return nil
	}
	return b.trainer.Roster[b.active]
}

// Step plays one round with the chosen action.
//
// Postcondition: on success the returned Round.State equals State(). A missing
// Potion or Pokeball still consumes the round. An error leaves the battle unchanged.
func (b *Battle) Step(a Action) (Round, error) {
	if b.state.IsTerminal() {
		return Round{}, ErrBattleOver
	}
	if !a.Valid() {
		return Round{}, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}

	b.round++
	r := Round{Number: b.round, Action: a}
	b.playerTurn(&r, a)

	if !b.state.IsTerminal() {
		b.state = AwaitingOpponentTurn
		if b.Wild.IsFainted() {
			b.finish(&r, Won, RoundEvent{
				Kind:      EventWon,
				Actor:     b.Active().Nickname,
				Target:    b.Wild.Species,
				Narrative: fmt.Sprintf("The wild %s fainted!", b.Wild.Species),
			})
		} else {
			b.opponentTurn(&r)
		}
	}

	r.State = b.state
	b.logger.Debug("round resolved",
		zap.Int("round", r.Number),
		zap.Stringer("action", a),
		zap.Stringer("state", b.state),
		zap.Int("active_hp", b.Active().HP),
		zap.Int("wild_hp", b.Wild.HP),
	)
	return r, nil
}

func (b *Battle) playerTurn(r *Round, a Action) {
	me := b.Active()
	switch a {
	case ActionAttack:
		hit := me.Strike(b.Wild, b.src)
		b.logger.Debug("player attack", zap.Stringer("jitter", hit.Jitter), zap.Int("damage", hit.Damage))
		r.Events = append(r.Events, RoundEvent{
			Kind:      EventAttack,
			Actor:     me.Nickname,
			Target:    b.Wild.Species,
			Amount:    hit.Damage,
			Narrative: fmt.Sprintf("%s dealt %d damage!", me.Nickname, hit.Damage),
		})

	case ActionPotion:
		if !b.trainer.Items.Consume(trainer.ItemPotion) {
			r.Events = append(r.Events, RoundEvent{
				Kind:      EventNoPotion,
				Actor:     me.Nickname,
				Narrative: "No Potions left.",
			})
			return
		}
		healed := me.HealBy(b.rules.PotionHeal)
		r.Events = append(r.Events, RoundEvent{
			Kind:      EventHeal,
			Actor:     me.Nickname,
			Target:    me.Nickname,
			Amount:    healed,
			Narrative: fmt.Sprintf("Used a Potion on %s (+%d HP).", me.Nickname, healed),
		})

	case ActionCapture:
		if !b.trainer.Items.Consume(trainer.ItemPokeball) {
			r.Events = append(r.Events, RoundEvent{
				Kind:      EventNoPokeball,
				Actor:     me.Nickname,
				Narrative: "No Pokeballs left.",
			})
			return
		}
		chance := CatchChance(me.Level, b.Wild.Level)
		if dice.Chance(b.src, chance) {
			b.finish(r, Caught, RoundEvent{
				Kind:      EventCaptured,
				Target:    b.Wild.Species,
				Narrative: fmt.Sprintf("Gotcha! The wild %s was caught!", b.Wild.Species),
			})
			return
		}
		r.Events = append(r.Events, RoundEvent{
			Kind:      EventCaptureFailed,
			Target:    b.Wild.Species,
			Narrative: "The capture failed!",
		})

	case ActionFlee:
		if dice.Chance(b.src, b.rules.FleeChance) {
			b.finish(r, Fled, RoundEvent{
				Kind:      EventFled,
				Actor:     me.Nickname,
				Narrative: "Got away safely.",
			})
			return
		}
		r.Events = append(r.Events, RoundEvent{
			Kind:      EventFleeFailed,
			Actor:     me.Nickname,
			Narrative: "Couldn't get away!",
		})
	}
}

func (b *Battle) opponentTurn(r *Round) {
	me := b.Active()
	hit := b.Wild.Strike(me, b.src)
	r.Events = append(r.Events, RoundEvent{
		Kind:      EventAttack,
		Actor:     b.Wild.Species,
		Target:    me.Nickname,
		Amount:    hit.Damage,
		Narrative: fmt.Sprintf("The wild %s dealt %d damage to %s!", b.Wild.Species, hit.Damage, me.Nickname),
	})

	if !me.IsFainted() {
		b.state = AwaitingPlayerAction
		return
	}
	r.Events = append(r.Events, RoundEvent{
		Kind:      EventFainted,
		Actor:     me.Nickname,
		Narrative: fmt.Sprintf("%s fainted!", me.Nickname),
	})

	next, ok := b.trainer.FirstAble()
	if !ok {
		b.finish(r, Lost, RoundEvent{
			Kind:      EventLost,
			Narrative: "All your creatures fainted.",
		})
		return
	}
	b.active = next
	b.state = AwaitingPlayerAction
	r.Events = append(r.Events, RoundEvent{
		Kind:      EventSwitched,
		Actor:     b.Active().Nickname,
		Narrative: fmt.Sprintf("Go, %s!", b.Active().Nickname),
	})
}

func (b *Battle) finish(r *Round, s State, ev RoundEvent) {
	b.state = s
	r.Events = append(r.Events, ev)
	b.logger.Info("battle ended",
		zap.Stringer("outcome", outcomeOf(s)),
		zap.Int("rounds", b.round),
		zap.String("wild", b.Wild.Species),
	)
}

// Run drives the battle to completion, asking choose for each action.
// It is a convenience for non-interactive callers such as simulations.
//
// Postcondition: returns the terminal Outcome and every Round played.
func (b *Battle) Run(choose func(*Battle) Action) (Outcome, []Round, error) {
	var rounds []Round
	for !b.Over() {
		r, err := b.Step(choose(b))
		if err != nil {
			return b.Outcome(), rounds, err
		}
		rounds = append(rounds, r)
	}
	return b.Outcome(), rounds, nil
}
