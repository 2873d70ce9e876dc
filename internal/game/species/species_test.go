package species_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creatures/internal/game/species"
)

func TestDefault_SeedSpecies(t *testing.T) {
	c := species.Default()
	assert.Equal(t, 6, c.Len())
	assert.Equal(t, []string{"Bulbasaur", "Charmander", "Pidgey", "Pikachu", "Rattata", "Squirtle"}, c.Names())

	ch := c.Lookup("Charmander")
	assert.Equal(t, species.Species{Name: "Charmander", Attribute: "Fire", BaseHP: 55, BaseAttack: 20, BaseDefense: 6}, ch)
	assert.True(t, c.Has("Pikachu"))
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, species.Default(), species.Default())
}

func TestLookup_UnknownFallsBack(t *testing.T) {
	s := species.Default().Lookup("Missingno")
	assert.Equal(t, "Missingno", s.Name)
	assert.Equal(t, "Normal", s.Attribute)
	assert.Equal(t, 50, s.BaseHP)
	assert.Equal(t, 10, s.BaseAttack)
	assert.Equal(t, 8, s.BaseDefense)
	assert.False(t, species.Default().Has("Missingno"))
}

func TestLookup_Property_NeverEmpty(t *testing.T) {
	c := species.Default()
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.String().Draw(rt, "name")
		s := c.Lookup(name)
		assert.GreaterOrEqual(rt, s.BaseHP, 1)
		assert.NotEmpty(rt, s.Attribute)
	})
}

func TestNewCatalog_RejectsInvalid(t *testing.T) {
	_, err := species.NewCatalog([]species.Species{{Name: "", BaseHP: 1, BaseAttack: 1, BaseDefense: 1}})
	assert.Error(t, err)

	_, err = species.NewCatalog([]species.Species{{Name: "A", BaseHP: 0, BaseAttack: 1, BaseDefense: 1}})
	assert.Error(t, err)

	dup := species.Species{Name: "A", BaseHP: 1, BaseAttack: 1, BaseDefense: 1}
	_, err = species.NewCatalog([]species.Species{dup, dup})
	assert.Error(t, err)
}

func TestNewCatalog_DefaultsAttribute(t *testing.T) {
	c, err := species.NewCatalog([]species.Species{{Name: "Blob", BaseHP: 5, BaseAttack: 5, BaseDefense: 5}})
	require.NoError(t, err)
	assert.Equal(t, "Normal", c.Lookup("Blob").Attribute)
}

func TestNames_ReturnsCopy(t *testing.T) {
	c := species.Default()
	names := c.Names()
	names[0] = "Mutated"
	assert.NotEqual(t, "Mutated", c.Names()[0])
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
species:
  - name: Eevee
    attribute: Normal
    base_hp: 55
    base_attack: 14
    base_defense: 9
`), 0o644))

	c, err := species.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 14, c.Lookup("Eevee").BaseAttack)

	_, err = species.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalogFromBytes_BadYAML(t *testing.T) {
	_, err := species.LoadCatalogFromBytes([]byte("species: [this is: not: valid"))
	assert.Error(t, err)
}
