// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/fieldday/internal/app"
	"github.com/okian/fieldday/internal/domain/rules"
)

// CompetitionsHandler handles competition bootstrap and lookup.
type CompetitionsHandler struct {
	deps Dependencies
}

// NewCompetitionsHandler creates a new competitions handler.
func NewCompetitionsHandler(deps Dependencies) *CompetitionsHandler {
	return &CompetitionsHandler{deps: deps}
}

type teamSetupRequest struct {
	Name         string   `json:"name"`
	Captain      string   `json:"captain"`
	Participants []string `json:"participants"`
}

type createCompetitionRequest struct {
	Name  string              `json:"name"`
	Rules *rules.ScoringRules `json:"rules,omitempty"`
	Teams []teamSetupRequest  `json:"teams"`
}

func (r createCompetitionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("missing name")
	case len(r.Teams) < 2:
		return errors.New("at least two teams required")
	}
	for _, t := range r.Teams {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("missing team name")
		}
	}
	return nil
}

// HandleCreate handles POST /competitions requests: the draft outcome
// imported in one call.
func (h *CompetitionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_competition"
	var req createCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	setup := app.CompetitionSetup{Name: req.Name, Rules: req.Rules}
	for _, t := range req.Teams {
		setup.Teams = append(setup.Teams, app.TeamSetup{
			Name:         t.Name,
			Captain:      t.Captain,
			Participants: t.Participants,
		})
	}
	view, err := h.deps.CreateCompetition(r.Context(), setup)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /competitions/{id} requests.
func (h *CompetitionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Competition(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
