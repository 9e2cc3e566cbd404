// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fieldday/internal/app"
	"github.com/okian/fieldday/internal/domain/scoring"
)

// ScoresHandler handles score entry for activities.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// saveScoresRequest mirrors one score-entry submission. Mode is the explicit
// win_loss/team_score toggle for team activities; individual activities only
// read participant_scores.
type saveScoresRequest struct {
	Mode              string             `json:"mode,omitempty"`
	WinningTeamID     string             `json:"winning_team_id,omitempty"`
	TeamScores        map[string]float64 `json:"team_scores,omitempty"`
	ParticipantScores map[string]float64 `json:"participant_scores,omitempty"`
}

func (r saveScoresRequest) validate() error {
	if r.Mode == "win_loss" && len(r.TeamScores) > 0 {
		return errors.New("team_scores not allowed in win_loss mode")
	}
	if r.Mode == "team_score" && r.WinningTeamID != "" {
		return errors.New("winning_team_id not allowed in team_score mode")
	}
	return nil
}

// HandleSave handles PUT .../activities/{activityID}/scores requests. A save
// replaces the activity's previous raw scores and point records wholesale.
func (h *ScoresHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_scores"
	var req saveScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sub := app.ScoreSubmission{
		WinningTeamID:     req.WinningTeamID,
		TeamScores:        req.TeamScores,
		ParticipantScores: req.ParticipantScores,
	}
	if req.Mode != "" {
		mode, err := scoring.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		sub.Mode = mode
	}

	result, err := h.deps.SaveScores(r.Context(), r.PathValue("id"), r.PathValue("activityID"), sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
