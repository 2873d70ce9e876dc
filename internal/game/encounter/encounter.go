// Package encounter rolls wild creature encounters for a region.
package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/region"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// Generator produces wild creatures.
type Generator struct {
	src     dice.Source
	catalog *species.Catalog
	logger  *zap.Logger
}

// NewGenerator creates a Generator. A nil logger is replaced by a no-op logger.
//
// Precondition: src and catalog must be non-nil.
func NewGenerator(src dice.Source, catalog *species.Catalog, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{src: src, catalog: catalog, logger: logger}
}

// Generate rolls once against r.EncounterRate. On a hit it draws a species
// uniformly from r.Species and a level uniformly from [r.MinLevel, r.MaxLevel],
// records the species in dex and returns the wild creature.
//
// Draw order: encounter roll, species, level.
// Postcondition: returns (nil, false) on a miss or when r has no species;
// dex is only modified on a hit.
func (g *Generator) Generate(r region.Region, dex trainer.Pokedex) (*creature.Creature, bool) {
	if len(r.Species) == 0 {
		g.logger.Warn("region has no species", zap.String("region", r.Name))
		return nil, false
	}
	if !dice.Chance(g.src, r.EncounterRate) {
		g.logger.Debug("no encounter", zap.String("region", r.Name))
		return nil, false
	}
	name := r.Species[g.src.Intn(len(r.Species))]
	level := dice.Between(g.src, r.MinLevel, r.MaxLevel)
	wild := creature.New(g.catalog.Lookup(name), level, "")
	if dex != nil {
		dex.Add(name)
	}
	g.logger.Debug("wild encounter",
		zap.String("region", r.Name),
		zap.String("species", name),
		zap.Int("level", level),
	)
	return wild, true
}
