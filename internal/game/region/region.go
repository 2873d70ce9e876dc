// Package region defines the explorable areas where wild creatures appear.
package region

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultEncounterRate is the chance that exploring a region triggers an encounter.
const DefaultEncounterRate = 0.7

//go:embed regions.yaml
var seedYAML []byte

// Region is a static explorable area.
//
// Invariant (after Validate): Name non-empty, 1 <= MinLevel <= MaxLevel,
// 0 <= EncounterRate <= 1.
type Region struct {
	Name          string
	Species       []string
	MinLevel      int
	MaxLevel      int
	EncounterRate float64
}

// clone returns r with its own copy of Species.
func (r Region) clone() Region {
	r.Species = slices.Clone(r.Species)
	return r
}

// Validate checks the region invariants.
func (r Region) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("region: name must not be empty")
	}
	if r.MinLevel < 1 {
		return fmt.Errorf("region %q: min_level must be >= 1", r.Name)
	}
	if r.MaxLevel < r.MinLevel {
		return fmt.Errorf("region %q: max_level %d is below min_level %d", r.Name, r.MaxLevel, r.MinLevel)
	}
	if r.EncounterRate < 0 || r.EncounterRate > 1 {
		return fmt.Errorf("region %q: encounter_rate must be within [0, 1], got %v", r.Name, r.EncounterRate)
	}
	return nil
}

// DisplayName returns the name with its level range, e.g. "Route 1 (Lv 3-6)".
func (r Region) DisplayName() string {
	return fmt.Sprintf("%s (Lv %d-%d)", r.Name, r.MinLevel, r.MaxLevel)
}

// Table is an ordered, read-only set of regions.
type Table struct {
	regions []Region
	byName  map[string]int
}

// NewTable builds a Table from copies of regions. Rates are kept as given;
// a zero EncounterRate is a region without encounters.
func NewTable(regions []Region) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(regions))}
	for _, r := range regions {
		r = r.clone()
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("region %q: duplicate name", r.Name)
		}
		t.byName[r.Name] = len(t.regions)
		t.regions = append(t.regions, r)
	}
	return t, nil
}

// regionEntry is the YAML shape of a region. A nil EncounterRate means the
// key was absent.
type regionEntry struct {
	Name          string   `yaml:"name"`
	Species       []string `yaml:"species"`
	MinLevel      int      `yaml:"min_level"`
	MaxLevel      int      `yaml:"max_level"`
	EncounterRate *float64 `yaml:"encounter_rate"`
}

type tableFile struct {
	Regions []regionEntry `yaml:"regions"`
}

// LoadTableFromBytes parses a Table from YAML of the form `regions: [...]`.
// A region without an encounter_rate key gets DefaultEncounterRate; an
// explicit 0 disables encounters there.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing region YAML: %w", err)
	}
	regions := make([]Region, 0, len(f.Regions))
	for _, e := range f.Regions {
		rate := DefaultEncounterRate
		if e.EncounterRate != nil {
			rate = *e.EncounterRate
		}
		regions = append(regions, Region{
			Name:          e.Name,
			Species:       e.Species,
			MinLevel:      e.MinLevel,
			MaxLevel:      e.MaxLevel,
			EncounterRate: rate,
		})
	}
	return NewTable(regions)
}

// LoadTable reads a region YAML file from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTableFromBytes(seedYAML)
	if err != nil {
		panic("region: embedded seed table is invalid: " + err.Error())
	}
	return t
})

// Default returns the built-in region table.
func Default() *Table { return defaultTable() }

// Get returns a copy of the region called name.
func (t *Table) Get(name string) (Region, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Region{}, false
	}
	return t.regions[i].clone(), true
}

// At returns a copy of the region at position i in table order.
func (t *Table) At(i int) (Region, bool) {
	if i < 0 || i >= len(t.regions) {
		return Region{}, false
	}
	return t.regions[i].clone(), true
}

// All returns copies of the regions in table order.
func (t *Table) All() []Region {
	out := make([]Region, len(t.regions))
	for i, r := range t.regions {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of regions.
func (t *Table) Len() int { return len(t.regions) }
