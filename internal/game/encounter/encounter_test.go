package encounter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/encounter"
	"github.com/cory-johannsen/creatures/internal/game/region"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// scriptSrc replays scripted draws in order.
type scriptSrc struct {
	ints   []int
	floats []float64
}

func (s *scriptSrc) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptSrc) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func forest(t *testing.T) region.Region {
	r, ok := region.Default().Get("Forest")
	require.True(t, ok)
	return r
}

func TestGenerate_Hit(t *testing.T) {
	src := &scriptSrc{floats: []float64{0.69}, ints: []int{2, 4}}
	g := encounter.NewGenerator(src, species.Default(), zaptest.NewLogger(t))
	dex := trainer.NewPokedex()

	wild, ok := g.Generate(forest(t), dex)
	require.True(t, ok)
	assert.Equal(t, "Squirtle", wild.Species)
	assert.Equal(t, 8, wild.Level)
	assert.Equal(t, wild.MaxHP, wild.HP)
	assert.True(t, dex.Has("Squirtle"))
}

func TestGenerate_Miss(t *testing.T) {
	src := &scriptSrc{floats: []float64{0.7}}
	g := encounter.NewGenerator(src, species.Default(), nil)
	dex := trainer.NewPokedex()

	wild, ok := g.Generate(forest(t), dex)
	assert.False(t, ok)
	assert.Nil(t, wild)
	assert.Equal(t, 0, dex.Len())
}

func TestGenerate_EmptyRegion(t *testing.T) {
	g := encounter.NewGenerator(&scriptSrc{}, species.Default(), nil)
	_, ok := g.Generate(region.Region{Name: "Void", MinLevel: 1, MaxLevel: 1, EncounterRate: 1}, nil)
	assert.False(t, ok)
}

func TestGenerate_Property_WithinRegion(t *testing.T) {
	src := dice.NewSeededSource(99)
	g := encounter.NewGenerator(src, species.Default(), nil)
	regions := region.Default().All()
	rapid.Check(t, func(rt *rapid.T) {
		r := rapid.SampledFrom(regions).Draw(rt, "region")
		dex := trainer.NewPokedex()
		wild, ok := g.Generate(r, dex)
		if !ok {
			assert.Equal(rt, 0, dex.Len())
			return
		}
		assert.Contains(rt, r.Species, wild.Species)
		assert.GreaterOrEqual(rt, wild.Level, r.MinLevel)
		assert.LessOrEqual(rt, wild.Level, r.MaxLevel)
		assert.True(rt, dex.Has(wild.Species))
	})
}

func TestGenerate_RateRoughlyMatches(t *testing.T) {
	g := encounter.NewGenerator(dice.NewSeededSource(5), species.Default(), nil)
	r, _ := region.Default().Get("Route 1")
	hits := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if _, ok := g.Generate(r, nil); ok {
			hits++
		}
	}
	rate := float64(hits) / n
	assert.InDelta(t, 0.7, rate, 0.05)
}
