// Package savegame converts trainers to and from their durable record and
// persists that record as JSON files.
package savegame

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// DefaultCreatureLevel is assumed for a creature record without a level.
const DefaultCreatureLevel = 5

// ErrMalformedRecord is returned when a record cannot be turned into a trainer.
var ErrMalformedRecord = errors.New("malformed save record")

// CreatureRecord is the durable form of a creature. Absent fields fall back
// to the values derived from species and level.
type CreatureRecord struct {
	Species  string  `json:"species"`
	Level    *int    `json:"level,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
	HP       *int    `json:"hp,omitempty"`
	HPMax    *int    `json:"hp_max,omitempty"`
	Atk      *int    `json:"atk,omitempty"`
	Defense  *int    `json:"defense,omitempty"`
	Type     *string `json:"type,omitempty"`
}

// Record is the durable form of a trainer. Every field is optional on load.
//
// Items distinguishes an absent key (nil, starting items) from an empty bag
// (non-nil, no items).
type Record struct {
	Name     *string          `json:"name,omitempty"`
	Pokemons []CreatureRecord `json:"pokemons"`
	Items    map[string]int   `json:"items"`
	Money    *int             `json:"money,omitempty"`
	Pokedex  []string         `json:"pokedex"`
	Wins     *int             `json:"wins,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// Encode captures t as a Record with every field present.
//
// Precondition: t must be non-nil.
func Encode(t *trainer.Trainer) Record {
	rec := Record{
		Name:     ptr(t.Name),
		Pokemons: make([]CreatureRecord, 0, len(t.Roster)),
		Items:    make(map[string]int, len(t.Items)),
		Money:    ptr(t.Money),
		Pokedex:  t.Pokedex.Species(),
		Wins:     ptr(t.Wins),
	}
	for _, c := range t.Roster {
		rec.Pokemons = append(rec.Pokemons, encodeCreature(c))
	}
	for name, qty := range t.Items {
		rec.Items[name] = qty
	}
	return rec
}

func encodeCreature(c *creature.Creature) CreatureRecord {
	return CreatureRecord{
		Species:  c.Species,
		Level:    ptr(c.Level),
		Nickname: ptr(c.Nickname),
		HP:       ptr(c.HP),
		HPMax:    ptr(c.MaxHP),
		Atk:      ptr(c.Atk),
		Defense:  ptr(c.Defense),
		Type:     ptr(c.Attribute),
	}
}

// Decode rebuilds a trainer from rec, applying a default for every absent
// field: name "Player", starting items, money 0, empty pokedex, wins 0.
// Saved creature stats override freshly derived ones. Non-positive item
// counts are dropped. The pokedex is restored exactly as saved; roster
// species are not added to it.
//
// Postcondition: the returned trainer satisfies the trainer invariants, or
// ErrMalformedRecord is returned for a creature without a species.
func Decode(rec Record, cat *species.Catalog) (*trainer.Trainer, error) {
	t := trainer.NewDefault()
	if rec.Name != nil && *rec.Name != "" {
		t.Name = *rec.Name
	}
	if rec.Items != nil {
		t.Items = trainer.Inventory{}
		for name, qty := range rec.Items {
			if name != "" && qty > 0 {
				t.Items[name] = qty
			}
		}
	}
	if rec.Money != nil && *rec.Money > 0 {
		t.Money = *rec.Money
	}
	if rec.Wins != nil && *rec.Wins > 0 {
		t.Wins = *rec.Wins
	}
	for _, name := range rec.Pokedex {
		t.Discover(name)
	}
	for i, cr := range rec.Pokemons {
		c, err := decodeCreature(cr, cat)
		if err != nil {
			return nil, fmt.Errorf("pokemons[%d]: %w", i, err)
		}
		t.Roster = append(t.Roster, c)
	}
	return t, nil
}

func decodeCreature(cr CreatureRecord, cat *species.Catalog) (*creature.Creature, error) {
	if cr.Species == "" {
		return nil, fmt.Errorf("%w: creature without species", ErrMalformedRecord)
	}
	level := DefaultCreatureLevel
	if cr.Level != nil {
		level = *cr.Level
	}
	nickname := ""
	if cr.Nickname != nil {
		nickname = *cr.Nickname
	}
	c := creature.New(cat.Lookup(cr.Species), level, nickname)
	if cr.HPMax != nil && *cr.HPMax >= 0 {
		c.MaxHP = *cr.HPMax
	}
	if cr.Atk != nil {
		c.Atk = *cr.Atk
	}
	if cr.Defense != nil {
		c.Defense = *cr.Defense
	}
	if cr.Type != nil && *cr.Type != "" {
		c.Attribute = *cr.Type
	}
	c.HP = c.MaxHP
	if cr.HP != nil {
		c.HP = max(0, min(*cr.HP, c.MaxHP))
	}
	return c, nil
}
