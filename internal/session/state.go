// Package session holds the UI state of one client: the ordering of every
// table it has viewed, the ship filter and whether the filter panel is open.
package session

import (
	"sync"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/table"
)

// State is mutated only through its toggle methods. Transitions are
// serialized, so each one completes before the next is observed.
type State struct {
	mu               sync.Mutex
	orderings        map[string]table.Ordering
	shipFilter       *table.FilterState
	filtersCollapsed bool
}

// New creates the default state for a dataset: no table sorted, every filter value included
func New(d *models.Dataset) *State {
	return &State{
		orderings:        make(map[string]table.Ordering),
		shipFilter:       table.NewFilterState(d.Ships, catalog.ClassifyShip, table.Dimensions...),
		filtersCollapsed: true,
	}
}

// Ordering returns the ordering of one table
func (s *State) Ordering(tableID string) table.Ordering {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderings[tableID]
}

// ToggleOrdering advances the ordering of one table; other tables are unaffected
func (s *State) ToggleOrdering(tableID, column string) table.Ordering {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.orderings[tableID].Toggle(column)
	if next.IsCleared() {
		delete(s.orderings, tableID)
	} else {
		s.orderings[tableID] = next
	}
	return next
}

// ToggleFilter flips one ship filter value
func (s *State) ToggleFilter(dim table.Dimension, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipFilter.Toggle(dim, value)
}

// ShipFilter returns a copy of the ship filter, safe to use after the lock is released
func (s *State) ShipFilter() *table.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipFilter.Clone()
}

// ToggleFiltersVisibility opens or collapses the filter panel and returns the new collapsed flag
func (s *State) ToggleFiltersVisibility() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtersCollapsed = !s.filtersCollapsed
	return s.filtersCollapsed
}

// FiltersCollapsed reports whether the filter panel is collapsed
func (s *State) FiltersCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtersCollapsed
}

// List renders a table under this state's ordering and, for filterable tables, its filter
func (s *State) List(l catalog.Listing, d *models.Dataset) catalog.Result {
	s.mu.Lock()
	ordering := s.orderings[l.ID()]
	var filter *table.FilterState
	if l.Filterable() {
		filter = s.shipFilter.Clone()
	}
	s.mu.Unlock()
	return l.List(d, filter, ordering)
}

// Filters is the filter panel as shown to the client
type Filters struct {
	Collapsed  bool                                    `json:"collapsed"`
	Dimensions map[table.Dimension][]table.FilterEntry `json:"dimensions"`
}

// Filters snapshots the filter panel
func (s *State) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Filters{
		Collapsed:  s.filtersCollapsed,
		Dimensions: make(map[table.Dimension][]table.FilterEntry, len(table.Dimensions)),
	}
	for _, d := range table.Dimensions {
		f.Dimensions[d] = s.shipFilter.Entries(d)
	}
	return f
}
