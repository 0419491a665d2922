package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/table"
)

type filterRequest struct {
	Value string `json:"value"`
}

// handleGetShip returns a ship page, optionally for one of its modifications
func (s *Server) handleGetShip(w http.ResponseWriter, r *http.Request) {
	page, err := indexFrom(r).ShipPage(chi.URLParam(r, "slug"), chi.URLParam(r, "modification"))
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Ship not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch ship")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// handleGetOutfit returns a single outfit by slug
func (s *Server) handleGetOutfit(w http.ResponseWriter, r *http.Request) {
	outfit, err := indexFrom(r).Outfit(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Outfit not found")
		return
	}

	respondJSON(w, http.StatusOK, outfit)
}

// handleGetFilters returns the session's ship filter panel
func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, stateFrom(r).Filters())
}

// handleToggleFilter flips one value of a filter dimension
func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	dim, err := table.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Filter dimension not found")
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	included, err := stateFrom(r).ToggleFilter(dim, req.Value)
	if errors.Is(err, table.ErrUnknownValue) {
		respondError(w, http.StatusBadRequest, "Unknown filter value")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to toggle filter")
		return
	}

	respondJSON(w, http.StatusOK, table.FilterEntry{Value: req.Value, Included: included})
}

// handleToggleFiltersVisibility opens or collapses the filter panel
func (s *Server) handleToggleFiltersVisibility(w http.ResponseWriter, r *http.Request) {
	collapsed := stateFrom(r).ToggleFiltersVisibility()
	respondJSON(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}
