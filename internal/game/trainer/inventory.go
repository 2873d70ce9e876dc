package trainer

import (
	"fmt"
	"sort"
)

// Item names understood by the engine.
const (
	ItemPotion   = "Potion"
	ItemPokeball = "Pokeball"
)

// Inventory maps item name to count.
//
// Invariant: every present key has a count > 0.
type Inventory map[string]int

// StartingItems returns the inventory a fresh trainer begins with.
func StartingItems() Inventory {
	return Inventory{ItemPotion: 3, ItemPokeball: 5}
}

// Count returns how many of name are held.
func (inv Inventory) Count(name string) int { return inv[name] }

// Add adds qty units of name.
//
// Precondition: qty > 0 and name is non-empty.
// Postcondition: on error the inventory is unchanged.
func (inv Inventory) Add(name string, qty int) error {
	if name == "" {
		return fmt.Errorf("%w: item name must not be empty", ErrInvalidQuantity)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	inv[name] += qty
	return nil
}

// Remove takes up to qty units of name away and returns how many were removed.
// The entry is deleted when its count reaches zero.
func (inv Inventory) Remove(name string, qty int) int {
	have := inv[name]
	if have == 0 || qty <= 0 {
		return 0
	}
	if qty >= have {
		delete(inv, name)
		return have
	}
	inv[name] = have - qty
	return qty
}

// Consume uses one unit of name. It reports false, leaving the inventory
// untouched, when none are held.
func (inv Inventory) Consume(name string) bool {
	return inv.Remove(name, 1) == 1
}

// Names returns the held item names in sorted order.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for n := range inv {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}
