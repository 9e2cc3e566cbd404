// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fieldday/internal/adapters/repository"
	"github.com/okian/fieldday/internal/app"
	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/rules"
	"github.com/okian/fieldday/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	CreateCompetition(ctx context.Context, setup app.CompetitionSetup) (app.CompetitionView, error)
	Competition(ctx context.Context, id string) (app.CompetitionView, error)

	CreateActivity(ctx context.Context, competitionID, name string, typ model.ActivityType, unit string) (model.Activity, error)
	Activities(ctx context.Context, competitionID string) ([]model.Activity, error)
	DeleteActivity(ctx context.Context, competitionID, activityID string) error

	SaveScores(ctx context.Context, competitionID, activityID string, sub app.ScoreSubmission) (app.ScoreResult, error)

	Rules(ctx context.Context, competitionID string) (rules.ScoringRules, error)
	UpdateRules(ctx context.Context, competitionID string, r rules.ScoringRules) error

	Standings(ctx context.Context, competitionID string) ([]app.StandingsEntry, error)
	Results(ctx context.Context, competitionID string) ([]app.ActivityResult, error)
	MVP(ctx context.Context, competitionID string) (app.MVPView, bool, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	competitionsHandler *CompetitionsHandler
	activitiesHandler   *ActivitiesHandler
	scoresHandler       *ScoresHandler
	resultsHandler      *ResultsHandler
	rulesHandler        *RulesHandler
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		competitionsHandler: NewCompetitionsHandler(deps),
		activitiesHandler:   NewActivitiesHandler(deps),
		scoresHandler:       NewScoresHandler(deps),
		resultsHandler:      NewResultsHandler(deps),
		rulesHandler:        NewRulesHandler(deps),
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /competitions", MetricsMiddleware(s.competitionsHandler.HandleCreate, "competitions"))
	mux.HandleFunc("GET /competitions/{id}", MetricsMiddleware(s.competitionsHandler.HandleGet, "competitions"))

	mux.HandleFunc("POST /competitions/{id}/activities", MetricsMiddleware(s.activitiesHandler.HandleCreate, "activities"))
	mux.HandleFunc("GET /competitions/{id}/activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("DELETE /competitions/{id}/activities/{activityID}", MetricsMiddleware(s.activitiesHandler.HandleDelete, "activities"))

	mux.HandleFunc("PUT /competitions/{id}/activities/{activityID}/scores", MetricsMiddleware(s.scoresHandler.HandleSave, "scores"))

	mux.HandleFunc("GET /competitions/{id}/standings", MetricsMiddleware(s.resultsHandler.HandleStandings, "standings"))
	mux.HandleFunc("GET /competitions/{id}/results", MetricsMiddleware(s.resultsHandler.HandleResults, "results"))
	mux.HandleFunc("GET /competitions/{id}/mvp", MetricsMiddleware(s.resultsHandler.HandleMVP, "mvp"))

	mux.HandleFunc("GET /competitions/{id}/rules", MetricsMiddleware(s.rulesHandler.HandleGet, "rules"))
	mux.HandleFunc("PUT /competitions/{id}/rules", MetricsMiddleware(s.rulesHandler.HandlePut, "rules"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCompetitionNotFound),
		errors.Is(err, repository.ErrActivityNotFound),
		errors.Is(err, repository.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, scoring.ErrNoWinnerSelected),
		errors.Is(err, scoring.ErrUnknownMode),
		errors.Is(err, scoring.ErrUnknownTeam),
		errors.Is(err, scoring.ErrUnknownParticipant),
		errors.Is(err, model.ErrUnknownActivityType),
		errors.Is(err, app.ErrTwoTeams):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
