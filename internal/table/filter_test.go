package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hull struct {
	name     string
	race     string
	category string
	licenses []string
}

func classifyHull(h hull, d Dimension) []string {
	switch d {
	case Race:
		return []string{h.race}
	case Category:
		return []string{h.category}
	case License:
		return h.licenses
	}
	return nil
}

var hulls = []hull{
	{name: "Shuttle", race: "human", category: "Transport"},
	{name: "Falcon", race: "human", category: "Heavy Warship", licenses: []string{"Navy"}},
	{name: "Corvette", race: "pirate", category: "Light Warship", licenses: []string{"Pirate", "Navy"}},
	{name: "Arfecta", race: "hai", category: "Light Warship", licenses: []string{"Unfettered Militia"}},
}

func hullNames(rows []hull) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestFilter_DefaultAcceptsEverything(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Dimensions...)
	assert.Equal(t, hullNames(hulls), hullNames(Apply(f, hulls, classifyHull)))
}

func TestFilter_KeysMatchObservedValues(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Dimensions...)

	assert.Equal(t, []FilterEntry{
		{Value: "hai", Included: true},
		{Value: "human", Included: true},
		{Value: "pirate", Included: true},
	}, f.Entries(Race))
	assert.Len(t, f.Entries(License), 3)
	assert.Len(t, f.Entries(Category), 3)
}

func TestFilter_ToggleFlipsOnlyOneValue(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Dimensions...)

	included, err := f.Toggle(Race, "human")
	require.NoError(t, err)
	assert.False(t, included)
	assert.False(t, f.Included(Race, "human"))
	assert.True(t, f.Included(Race, "hai"))
	assert.True(t, f.Included(Race, "pirate"))

	assert.Equal(t, []string{"Corvette", "Arfecta"}, hullNames(Apply(f, hulls, classifyHull)))

	included, err = f.Toggle(Race, "human")
	require.NoError(t, err)
	assert.True(t, included)
	assert.Len(t, Apply(f, hulls, classifyHull), len(hulls))
}

func TestFilter_LicenseAnyOf(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Dimensions...)

	_, err := f.Toggle(License, "Pirate")
	require.NoError(t, err)
	// Corvette still holds Navy
	assert.Contains(t, hullNames(Apply(f, hulls, classifyHull)), "Corvette")

	_, err = f.Toggle(License, "Navy")
	require.NoError(t, err)
	got := hullNames(Apply(f, hulls, classifyHull))
	assert.NotContains(t, got, "Corvette")
	assert.NotContains(t, got, "Falcon")
	// no licenses always passes
	assert.Contains(t, got, "Shuttle")
}

func TestFilter_Idempotent(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Dimensions...)
	_, err := f.Toggle(Category, "Light Warship")
	require.NoError(t, err)

	once := Apply(f, hulls, classifyHull)
	twice := Apply(f, once, classifyHull)
	assert.Equal(t, hullNames(once), hullNames(twice))
}

func TestFilter_UnknownKeysLeaveStateUntouched(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Race)
	before := f.Clone()

	_, err := f.Toggle(Race, "quarg")
	assert.True(t, errors.Is(err, ErrUnknownValue))

	_, err = f.Toggle(License, "Navy")
	assert.True(t, errors.Is(err, ErrUnknownDimension))

	assert.Equal(t, before, f)
}

func TestFilter_CloneIsIndependent(t *testing.T) {
	f := NewFilterState(hulls, classifyHull, Race)
	c := f.Clone()

	_, err := c.Toggle(Race, "hai")
	require.NoError(t, err)
	assert.True(t, f.Included(Race, "hai"))
	assert.False(t, c.Included(Race, "hai"))
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("license")
	require.NoError(t, err)
	assert.Equal(t, License, d)

	_, err = ParseDimension("faction")
	assert.ErrorIs(t, err, ErrUnknownDimension)
}
