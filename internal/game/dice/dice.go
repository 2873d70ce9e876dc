// Package dice provides the randomness seam and roll-result types used by the
// battle and encounter engines.
package dice

import "fmt"

// RollResult holds the audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d7-4"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string such as "1d7-4 → [5] -4 = 1".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the single randomness provider for every draw the engine makes:
// damage jitter, encounter rolls, capture rolls and flee rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Between returns a uniformly drawn int in the inclusive range [lo, hi].
// When hi < lo the bounds are swapped.
//
// Postcondition: lo <= result <= hi.
func Between(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports whether a single uniform draw in [0, 1) lands below p.
//
// Postcondition: always false for p <= 0, always true for p >= 1.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
