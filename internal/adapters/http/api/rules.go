// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/fieldday/internal/domain/rules"
)

// RulesHandler serves and updates a competition's scoring rules.
type RulesHandler struct {
	deps Dependencies
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps Dependencies) *RulesHandler {
	return &RulesHandler{deps: deps}
}

// HandleGet handles GET /competitions/{id}/rules requests.
func (h *RulesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rs, err := h.deps.Rules(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// HandlePut handles PUT /competitions/{id}/rules requests. All five values
// must be whole numbers (the decoder rejects fractions); zero and negative
// values are valid. The update schedules a full recomputation of every
// completed activity.
func (h *RulesHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_rules"
	var rs rules.ScoringRules
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.UpdateRules(r.Context(), r.PathValue("id"), rs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}
