// Package creature implements owned and wild creature instances and their
// level-derived stats.
package creature

import (
	"strings"

	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/species"
)

// MaxLevel is the highest level a creature can reach. Levels above it are
// clamped so derived stats stay within int range.
const MaxLevel = 100

// clampLevel bounds level to [1, MaxLevel].
func clampLevel(level int) int { return max(1, min(MaxLevel, level)) }

// jitter is the damage variance applied to every attack: uniform in [-3, 3].
var jitter = dice.MustParse("1d7-4")

// Creature is a single creature instance.
//
// Invariant: 0 <= HP <= MaxHP; the creature is fainted iff HP == 0.
type Creature struct {
	Species   string
	Nickname  string
	Attribute string
	Level     int
	HP        int
	MaxHP     int
	Atk       int
	Defense   int
}

// Stats are the level-derived combat values of a species.
type Stats struct {
	MaxHP   int
	Attack  int
	Defense int
}

// DeriveStats computes stats for sp at level:
//
//	MaxHP   = BaseHP      + (level-1)*3
//	Attack  = BaseAttack  + floor((level-1)*1.5)
//	Defense = BaseDefense + floor((level-1)*1.2)
//
// Precondition: level >= 1.
func DeriveStats(sp species.Species, level int) Stats {
	n := level - 1
	return Stats{
		MaxHP:   sp.BaseHP + n*3,
		Attack:  sp.BaseAttack + n*3/2,
		Defense: sp.BaseDefense + n*6/5,
	}
}

// New creates a creature of species sp at level with full HP.
// The level is clamped to [1, MaxLevel]; an empty nickname defaults to the
// species name.
//
// Postcondition: HP == MaxHP.
func New(sp species.Species, level int, nickname string) *Creature {
	level = clampLevel(level)
	if strings.TrimSpace(nickname) == "" {
		nickname = sp.Name
	}
	c := &Creature{
		Species:   sp.Name,
		Nickname:  nickname,
		Attribute: sp.Attribute,
		Level:     level,
	}
	c.apply(DeriveStats(sp, level))
	return c
}

func (c *Creature) apply(s Stats) {
	c.MaxHP = s.MaxHP
	c.Atk = s.Attack
	c.Defense = s.Defense
	c.HP = c.MaxHP
}

// IsFainted reports whether the creature has no HP left.
func (c *Creature) IsFainted() bool { return c.HP == 0 }

// TakeDamage lowers HP by amount, flooring at zero. Negative amounts are ignored.
//
// Postcondition: 0 <= HP and HP never increases.
func (c *Creature) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.HP -= amount
	if c.HP < 0 {
		c.HP = 0
	}
}

// HealFull restores HP to MaxHP.
func (c *Creature) HealFull() { c.HP = c.MaxHP }

// HealBy restores up to amount HP and returns how much was actually restored.
//
// Postcondition: HP <= MaxHP; return value >= 0.
func (c *Creature) HealBy(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.HP
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// Hit records a resolved attack.
type Hit struct {
	Damage int
	Jitter dice.RollResult
}

// Strike resolves an attack against target and applies the damage:
// max(1, Atk - floor(target.Defense*0.3) + jitter).
//
// Precondition: target and src must be non-nil.
// Postcondition: Damage >= 1 and target has taken Damage.
func (c *Creature) Strike(target *Creature, src dice.Source) Hit {
	roll := dice.Roll(jitter, src)
	dmg := c.Atk - target.Defense*3/10 + roll.Total()
	if dmg < 1 {
		dmg = 1
	}
	target.TakeDamage(dmg)
	return Hit{Damage: dmg, Jitter: roll}
}

// Attack resolves an attack against target and returns the damage dealt.
func (c *Creature) Attack(target *Creature, src dice.Source) int {
	return c.Strike(target, src).Damage
}

// Relevel recomputes stats from sp at newLevel and fully heals the creature.
// The level is clamped to [1, MaxLevel].
func (c *Creature) Relevel(sp species.Species, newLevel int) {
	newLevel = clampLevel(newLevel)
	c.Level = newLevel
	c.Attribute = sp.Attribute
	c.apply(DeriveStats(sp, newLevel))
}

// LevelUp raises the level by levels, stopping at MaxLevel, and relevels.
func (c *Creature) LevelUp(sp species.Species, levels int) {
	c.Relevel(sp, c.Level+min(levels, MaxLevel))
}

// Rename sets a new nickname. Blank names are rejected.
func (c *Creature) Rename(nickname string) bool {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false
	}
	c.Nickname = nickname
	return true
}

// HPFraction returns HP/MaxHP in [0, 1], or 0 when MaxHP is 0.
func (c *Creature) HPFraction() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// Clone returns an independent copy.
func (c *Creature) Clone() *Creature {
	cp := *c
	return &cp
}
