package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/table"
)

func dataset() *models.Dataset {
	return &models.Dataset{
		Ships: []models.Ship{
			{Name: "Shuttle", Race: "human", Category: "Transport", Cost: 180000},
			{Name: "Corvette", Race: "human", Category: "Light Warship", Cost: 1900000, Licenses: []string{"Pirate", "Navy"}},
			{Name: "Arfecta", Race: "hai", Category: "Light Warship", Cost: 1400000},
		},
		Outfits: []models.Outfit{
			{Name: "Water Cooling", Category: "Systems", OutfitSpace: 10},
		},
	}
}

func TestState_OrderingsAreIndependentPerTable(t *testing.T) {
	s := New(dataset())

	assert.Equal(t, table.OrderBy("Cost", table.Ascending), s.ToggleOrdering(catalog.ShipsTable, "Cost"))
	assert.Equal(t, table.OrderBy("Cooling", table.Ascending), s.ToggleOrdering(catalog.CoolersTable, "Cooling"))
	assert.Equal(t, table.OrderBy("Cost", table.Descending), s.ToggleOrdering(catalog.ShipsTable, "Cost"))

	assert.Equal(t, table.OrderBy("Cooling", table.Ascending), s.Ordering(catalog.CoolersTable))
	assert.True(t, s.ToggleOrdering(catalog.ShipsTable, "Cost").IsCleared())
	assert.True(t, s.Ordering(catalog.ShipsTable).IsCleared())
}

func TestState_ListAppliesFilterThenOrdering(t *testing.T) {
	d := dataset()
	s := New(d)
	s.ToggleOrdering(catalog.ShipsTable, "Cost")

	_, err := s.ToggleFilter(table.Race, "hai")
	require.NoError(t, err)

	res := s.List(catalog.Ships, d)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Shuttle", res.Rows[0].(catalog.ShipRow).Name)
	assert.Equal(t, "Corvette", res.Rows[1].(catalog.ShipRow).Name)
	assert.Equal(t, 3, res.Total)
}

func TestState_FilterSnapshotIsACopy(t *testing.T) {
	s := New(dataset())
	snap := s.ShipFilter()
	_, err := snap.Toggle(table.License, "Navy")
	require.NoError(t, err)

	assert.True(t, s.ShipFilter().Included(table.License, "Navy"))
}

func TestState_Filters(t *testing.T) {
	s := New(dataset())
	f := s.Filters()
	assert.True(t, f.Collapsed)
	assert.Equal(t, []table.FilterEntry{{Value: "hai", Included: true}, {Value: "human", Included: true}}, f.Dimensions[table.Race])
	assert.Len(t, f.Dimensions[table.License], 2)

	assert.False(t, s.ToggleFiltersVisibility())
	assert.False(t, s.FiltersCollapsed())

	_, err := s.ToggleFilter(table.Category, "Battleship")
	assert.ErrorIs(t, err, table.ErrUnknownValue)
}

func TestManager_GetCreatesAndReuses(t *testing.T) {
	m := NewManager(time.Hour)
	d := dataset()

	id, s := m.Get("", d)
	require.NotEmpty(t, id)

	again, s2 := m.Get(id, d)
	assert.Equal(t, id, again)
	assert.Same(t, s, s2)

	other, s3 := m.Get("unknown", d)
	assert.NotEqual(t, id, other)
	assert.NotSame(t, s, s3)
	assert.Equal(t, 2, m.Len())
}

func TestManager_Expiry(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	d := dataset()

	id, _ := m.Get("", d)
	now = now.Add(2 * time.Minute)

	fresh, _ := m.Get(id, d)
	assert.NotEqual(t, id, fresh)
	assert.Equal(t, 1, m.Len())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := New(dataset())
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
