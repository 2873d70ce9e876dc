package trainer

import "sort"

// Pokedex is the set of species a trainer has discovered. It only grows.
type Pokedex map[string]struct{}

// NewPokedex returns a Pokedex holding names.
func NewPokedex(names ...string) Pokedex {
	d := make(Pokedex, len(names))
	for _, n := range names {
		d.Add(n)
	}
	return d
}

// Add records name as discovered. Empty names are ignored.
func (d Pokedex) Add(name string) {
	if name == "" {
		return
	}
	d[name] = struct{}{}
}

// Has reports whether name has been discovered.
func (d Pokedex) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// Len returns the number of discovered species.
func (d Pokedex) Len() int { return len(d) }

// Species returns discovered names in sorted order.
func (d Pokedex) Species() []string {
	out := make([]string, 0, len(d))
	for n := range d {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
