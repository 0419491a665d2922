package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/table"
)

type tableSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Columns    []string `json:"columns"`
	Filterable bool     `json:"filterable"`
}

type orderingRequest struct {
	Column string `json:"column"`
}

// handleGetStatus reports the dataset load state
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	state := s.loader.State()
	resp := map[string]string{"state": state.String()}
	if state == dataset.Failed {
		if _, err := s.loader.Dataset(); err != nil {
			resp["error"] = err.Error()
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleGetTables lists the available tables
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	tables := catalog.Tables()
	out := make([]tableSummary, len(tables))
	for i, t := range tables {
		out[i] = tableSummary{ID: t.ID(), Title: t.Title(), Columns: t.Labels(), Filterable: t.Filterable()}
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetTable renders a table under the session's ordering and filter
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	listing, ok := catalog.TableByID(chi.URLParam(r, "tableID"))
	if !ok {
		respondError(w, http.StatusNotFound, "Table not found")
		return
	}

	respondJSON(w, http.StatusOK, stateFrom(r).List(listing, indexFrom(r).Dataset()))
}

// handleToggleOrdering advances the ordering of one table
func (s *Server) handleToggleOrdering(w http.ResponseWriter, r *http.Request) {
	listing, ok := catalog.TableByID(chi.URLParam(r, "tableID"))
	if !ok {
		respondError(w, http.StatusNotFound, "Table not found")
		return
	}

	var req orderingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !hasColumn(listing, req.Column) {
		respondError(w, http.StatusBadRequest, "Unknown column")
		return
	}

	ordering := stateFrom(r).ToggleOrdering(listing.ID(), req.Column)
	respondJSON(w, http.StatusOK, map[string]table.Ordering{"ordering": ordering})
}

func hasColumn(l catalog.Listing, column string) bool {
	for _, label := range l.Labels() {
		if label == column {
			return true
		}
	}
	return false
}
