// Package trainer holds the player's roster, bag, currency and progress.
package trainer

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/species"
)

const (
	// DefaultName is used when no trainer name is known.
	DefaultName = "Player"
	// NewGameMoney is the currency granted when a brand-new game is started.
	NewGameMoney = 500
	// PotionHeal is the maximum HP a Potion restores.
	PotionHeal = 20
	// StarterLevel is the level of the starter creature.
	StarterLevel = 5
)

// Starters lists the species offered on the first run.
var Starters = []string{"Pikachu", "Charmander", "Squirtle"}

var (
	// ErrIndexOutOfRange is returned for a roster index that does not exist.
	ErrIndexOutOfRange = errors.New("roster index out of range")
	// ErrInvalidQuantity is returned when adding a non-positive item count.
	ErrInvalidQuantity = errors.New("invalid item quantity")
	// ErrNoItem is returned when using an item the trainer does not hold.
	ErrNoItem = errors.New("item not in inventory")
	// ErrNoEffect is returned for items that do nothing outside battle.
	ErrNoEffect = errors.New("item has no effect")
	// ErrNoTarget is returned when no creature can receive an item.
	ErrNoTarget = errors.New("no creature able to use the item")
	// ErrUnknownStarter is returned for a starter outside Starters.
	ErrUnknownStarter = errors.New("unknown starter species")
)

// Trainer is the player's persistent state.
//
// Invariant: Money >= 0; Wins never decreases; Pokedex never shrinks;
// Items holds no key with a count <= 0.
type Trainer struct {
	Name    string
	Roster  []*creature.Creature
	Items   Inventory
	Money   int
	Pokedex Pokedex
	Wins    int
}

// New returns a trainer with the starting items, no money and an empty roster.
// An empty name becomes DefaultName.
func New(name string) *Trainer {
	if name == "" {
		name = DefaultName
	}
	return &Trainer{
		Name:    name,
		Roster:  []*creature.Creature{},
		Items:   StartingItems(),
		Pokedex: NewPokedex(),
	}
}

// NewDefault returns the trainer used when no saved record exists.
func NewDefault() *Trainer { return New(DefaultName) }

// NewGame returns a trainer for an explicitly started new game, which also
// receives NewGameMoney.
func NewGame(name string) *Trainer {
	t := New(name)
	t.Money = NewGameMoney
	return t
}

// AddCreature appends c to the roster and records its species as discovered.
func (t *Trainer) AddCreature(c *creature.Creature) {
	t.Roster = append(t.Roster, c)
	t.Pokedex.Add(c.Species)
}

// Creature returns the roster member at idx.
func (t *Trainer) Creature(idx int) (*creature.Creature, error) {
	if idx < 0 || idx >= len(t.Roster) {
		return nil, fmt.Errorf("%w: %d (roster size %d)", ErrIndexOutOfRange, idx, len(t.Roster))
	}
	return t.Roster[idx], nil
}

// RemoveCreature removes and returns the roster member at idx. The relative
// order of the remaining members is preserved.
func (t *Trainer) RemoveCreature(idx int) (*creature.Creature, error) {
	c, err := t.Creature(idx)
	if err != nil {
		return nil, err
	}
	t.Roster = append(t.Roster[:idx], t.Roster[idx+1:]...)
	return c, nil
}

// FirstAble returns the index of the first non-fainted roster member.
func (t *Trainer) FirstAble() (int, bool) {
	for i, c := range t.Roster {
		if !c.IsFainted() {
			return i, true
		}
	}
	return -1, false
}

// HasAble reports whether any roster member can battle.
func (t *Trainer) HasAble() bool {
	_, ok := t.FirstAble()
	return ok
}

// HealAll fully heals every roster member.
func (t *Trainer) HealAll() {
	for _, c := range t.Roster {
		c.HealFull()
	}
}

// Discover records name in the Pokedex.
func (t *Trainer) Discover(name string) { t.Pokedex.Add(name) }

// RecordWin awards reward currency and increments the win counter.
// Negative rewards are ignored.
func (t *Trainer) RecordWin(reward int) {
	if reward > 0 {
		t.Money += reward
	}
	t.Wins++
}

// ItemUse reports the effect of using an item from the bag.
type ItemUse struct {
	Item   string
	Target *creature.Creature
	Healed int
}

// UseItem uses one unit of name outside battle. A Potion heals the first
// non-fainted roster member by up to PotionHeal and is consumed even if the
// creature was already at full HP.
func (t *Trainer) UseItem(name string) (ItemUse, error) {
	if t.Items.Count(name) == 0 {
		return ItemUse{}, fmt.Errorf("%w: %s", ErrNoItem, name)
	}
	if name != ItemPotion {
		return ItemUse{}, fmt.Errorf("%w: %s", ErrNoEffect, name)
	}
	idx, ok := t.FirstAble()
	if !ok {
		return ItemUse{}, ErrNoTarget
	}
	target := t.Roster[idx]
	healed := target.HealBy(PotionHeal)
	t.Items.Consume(name)
	return ItemUse{Item: name, Target: target, Healed: healed}, nil
}

// ChooseStarter grants the level StarterLevel starter of the given species.
func (t *Trainer) ChooseStarter(cat *species.Catalog, name string) (*creature.Creature, error) {
	for _, s := range Starters {
		if s == name {
			c := creature.New(cat.Lookup(name), StarterLevel, "")
			t.AddCreature(c)
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStarter, name)
}
