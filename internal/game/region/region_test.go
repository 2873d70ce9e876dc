package region_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/creatures/internal/game/region"
)

func TestDefault_Table(t *testing.T) {
	tbl := region.Default()
	require.Equal(t, 3, tbl.Len())

	r, ok := tbl.At(0)
	require.True(t, ok)
	assert.Equal(t, "Route 1", r.Name)
	assert.Equal(t, []string{"Rattata", "Pidgey"}, r.Species)
	assert.Equal(t, 3, r.MinLevel)
	assert.Equal(t, 6, r.MaxLevel)

	for _, r := range tbl.All() {
		assert.Equal(t, 0.7, r.EncounterRate, r.Name)
	}

	v, ok := tbl.Get("Volcano")
	require.True(t, ok)
	assert.Equal(t, "Volcano (Lv 6-12)", v.DisplayName())

	_, ok = tbl.Get("Moon")
	assert.False(t, ok)
	_, ok = tbl.At(3)
	assert.False(t, ok)
}

func TestNewTable_Validation(t *testing.T) {
	cases := []region.Region{
		{Name: "", MinLevel: 1, MaxLevel: 2},
		{Name: "A", MinLevel: 0, MaxLevel: 2},
		{Name: "A", MinLevel: 3, MaxLevel: 2},
		{Name: "A", MinLevel: 1, MaxLevel: 2, EncounterRate: 1.5},
	}
	for _, c := range cases {
		_, err := region.NewTable([]region.Region{c})
		assert.Error(t, err, "%+v", c)
	}

	ok := region.Region{Name: "A", MinLevel: 1, MaxLevel: 1}
	_, err := region.NewTable([]region.Region{ok, ok})
	assert.Error(t, err)
}

func TestLoadTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - name: Cave
    species: [Zubat]
    min_level: 2
    max_level: 4
    encounter_rate: 0.5
`), 0o644))
	tbl, err := region.LoadTable(path)
	require.NoError(t, err)
	r, ok := tbl.Get("Cave")
	require.True(t, ok)
	assert.Equal(t, 0.5, r.EncounterRate)

	_, err = region.LoadTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTable_EncounterRateDefaults(t *testing.T) {
	tbl, err := region.LoadTableFromBytes([]byte(`
regions:
  - name: Quiet
    species: [Pidgey]
    min_level: 1
    max_level: 2
    encounter_rate: 0
  - name: Busy
    species: [Pidgey]
    min_level: 1
    max_level: 2
`))
	require.NoError(t, err)

	quiet, ok := tbl.Get("Quiet")
	require.True(t, ok)
	assert.Zero(t, quiet.EncounterRate, "an explicit zero disables encounters")

	busy, ok := tbl.Get("Busy")
	require.True(t, ok)
	assert.Equal(t, region.DefaultEncounterRate, busy.EncounterRate)
}

func TestNewTable_KeepsZeroRate(t *testing.T) {
	tbl, err := region.NewTable([]region.Region{{Name: "A", Species: []string{"Pidgey"}, MinLevel: 1, MaxLevel: 1}})
	require.NoError(t, err)
	r, ok := tbl.At(0)
	require.True(t, ok)
	assert.Zero(t, r.EncounterRate)
}

func TestTable_ReturnsCopies(t *testing.T) {
	input := []region.Region{{Name: "A", Species: []string{"Pidgey", "Rattata"}, MinLevel: 1, MaxLevel: 1, EncounterRate: 0.5}}
	tbl, err := region.NewTable(input)
	require.NoError(t, err)

	input[0].Species[0] = "Mew"
	r, _ := tbl.Get("A")
	r.Species[1] = "Mew"
	at, _ := tbl.At(0)
	at.Species[0] = "Mew"
	all := tbl.All()
	all[0].Species[0] = "Mew"

	r, _ = tbl.Get("A")
	assert.Equal(t, []string{"Pidgey", "Rattata"}, r.Species)
	assert.Equal(t, []string{"Pidgey", "Rattata"}, tbl.All()[0].Species)
}

func TestProperty_DisplayName_ContainsName(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(rt, "name")
		lo := rapid.IntRange(1, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, 100).Draw(rt, "hi")
		r := region.Region{Name: name, MinLevel: lo, MaxLevel: hi}
		assert.Contains(rt, r.DisplayName(), name)
	})
}
