// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ResultsHandler serves the read-only presentation endpoints: standings,
// per-activity results and the MVP.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleStandings handles GET /competitions/{id}/standings requests.
func (h *ResultsHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Standings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleResults handles GET /competitions/{id}/results requests.
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.deps.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// mvpResponse wraps the MVP, which may legitimately be absent.
type mvpResponse struct {
	MVP any `json:"mvp"`
}

// HandleMVP handles GET /competitions/{id}/mvp requests. A null MVP is a
// valid answer: nobody was scored in every individual activity.
func (h *ResultsHandler) HandleMVP(w http.ResponseWriter, r *http.Request) {
	view, ok, err := h.deps.MVP(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, mvpResponse{MVP: nil})
		return
	}
	writeJSON(w, http.StatusOK, mvpResponse{MVP: view})
}
