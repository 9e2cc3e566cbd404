// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/fieldday/internal/domain/model"
)

// ActivitiesHandler handles activity creation, listing and deletion.
type ActivitiesHandler struct {
	deps Dependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

type createActivityRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Unit string `json:"unit,omitempty"`
}

func (r createActivityRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(r.Type) == "":
		return errors.New("missing type")
	}
	return nil
}

// HandleCreate handles POST /competitions/{id}/activities requests.
func (h *ActivitiesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_activity"
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	typ, err := model.ParseActivityType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	a, err := h.deps.CreateActivity(r.Context(), r.PathValue("id"), req.Name, typ, req.Unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleList handles GET /competitions/{id}/activities requests.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	activities, err := h.deps.Activities(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// HandleDelete handles DELETE /competitions/{id}/activities/{activityID}
// requests. Deleting an activity drops its point records and totals are
// rebuilt from what remains.
func (h *ActivitiesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteActivity(r.Context(), r.PathValue("id"), r.PathValue("activityID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
