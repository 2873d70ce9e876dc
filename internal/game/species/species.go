// Package species provides the read-only species catalog that creature stats
// are derived from.
package species

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Fallback base values for species missing from the catalog.
const (
	DefaultAttribute   = "Normal"
	DefaultBaseHP      = 50
	DefaultBaseAttack  = 10
	DefaultBaseDefense = 8
)

//go:embed species.yaml
var seedYAML []byte

// Species is the immutable reference record for one species.
type Species struct {
	Name        string `yaml:"name"`
	Attribute   string `yaml:"attribute"`
	BaseHP      int    `yaml:"base_hp"`
	BaseAttack  int    `yaml:"base_attack"`
	BaseDefense int    `yaml:"base_defense"`
}

// Validate checks that the record can derive sensible stats.
//
// Postcondition: Returns nil iff Name is non-empty and every base stat is >= 1.
func (s Species) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("species: name must not be empty")
	}
	if s.BaseHP < 1 {
		return fmt.Errorf("species %q: base_hp must be >= 1", s.Name)
	}
	if s.BaseAttack < 1 {
		return fmt.Errorf("species %q: base_attack must be >= 1", s.Name)
	}
	if s.BaseDefense < 1 {
		return fmt.Errorf("species %q: base_defense must be >= 1", s.Name)
	}
	return nil
}

// Fallback returns the default record used for a species the catalog does not know.
func Fallback(name string) Species {
	return Species{
		Name:        name,
		Attribute:   DefaultAttribute,
		BaseHP:      DefaultBaseHP,
		BaseAttack:  DefaultBaseAttack,
		BaseDefense: DefaultBaseDefense,
	}
}

// Catalog is an immutable name-keyed lookup table of species.
// It is safe for concurrent reads because nothing mutates it after construction.
type Catalog struct {
	byName map[string]Species
	names  []string
}

// NewCatalog builds a Catalog from list.
//
// Postcondition: Returns an error if any record is invalid or a name repeats.
func NewCatalog(list []Species) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Species, len(list))}
	for _, s := range list {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("species %q: duplicate name", s.Name)
		}
		if s.Attribute == "" {
			s.Attribute = DefaultAttribute
		}
		c.byName[s.Name] = s
		c.names = append(c.names, s.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

type catalogFile struct {
	Species []Species `yaml:"species"`
}

// LoadCatalogFromBytes parses a catalog from YAML of the form `species: [...]`.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing species YAML: %w", err)
	}
	return NewCatalog(f.Species)
}

// LoadCatalog reads a catalog YAML file from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	c, err := LoadCatalogFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := LoadCatalogFromBytes(seedYAML)
	if err != nil {
		panic("species: embedded seed catalog is invalid: " + err.Error())
	}
	return c
})

// Default returns the process-wide catalog built from the embedded seed data.
func Default() *Catalog {
	return defaultCatalog()
}

// Lookup returns the record for name, or Fallback(name) when it is unknown.
// It never fails.
func (c *Catalog) Lookup(name string) Species {
	if s, ok := c.byName[name]; ok {
		return s
	}
	return Fallback(name)
}

// Has reports whether name is a known species.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns all known species names in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of known species.
func (c *Catalog) Len() int { return len(c.names) }
