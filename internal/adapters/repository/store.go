// Package repository defines the competition store interface and errors.
//
// The store is a keyed entity container: the engine derives everything else
// (totals, rankings, winners) from what is read out of it. Writes that the
// application treats as one atomic sequence are expressed as single store
// calls where possible (ReplacePointRecords is delete-all-then-insert).
package repository

import (
	"context"

	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/rules"
)

// Store provides keyed access to competition state.
type Store interface {
	// CreateCompetition persists a new competition with its rule set and
	// returns it with an assigned ID.
	CreateCompetition(ctx context.Context, name string, r rules.ScoringRules) (model.Competition, error)

	// Competition returns a competition by ID.
	// Returns ErrCompetitionNotFound if unknown.
	Competition(ctx context.Context, id string) (model.Competition, error)

	// Rules returns the competition's current rule set.
	Rules(ctx context.Context, competitionID string) (rules.ScoringRules, error)

	// SetRules replaces the competition's rule set.
	SetRules(ctx context.Context, competitionID string, r rules.ScoringRules) error

	// CreateTeam adds a team to a competition and returns it with an ID.
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)

	// Teams lists a competition's teams in creation order.
	Teams(ctx context.Context, competitionID string) ([]model.Team, error)

	// CreateParticipant adds a participant and returns it with an ID.
	CreateParticipant(ctx context.Context, p model.Participant) (model.Participant, error)

	// Participants lists a competition's participants in creation order.
	Participants(ctx context.Context, competitionID string) ([]model.Participant, error)

	// CreateActivity adds an activity and returns it with an ID.
	CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error)

	// Activity returns an activity by ID.
	// Returns ErrActivityNotFound if unknown.
	Activity(ctx context.Context, id string) (model.Activity, error)

	// Activities lists a competition's activities in creation order.
	Activities(ctx context.Context, competitionID string) ([]model.Activity, error)

	// UpdateActivity overwrites an activity's mutable state (completion and
	// winner name).
	UpdateActivity(ctx context.Context, a model.Activity) error

	// DeleteActivity removes an activity and all of its point records.
	DeleteActivity(ctx context.Context, id string) error

	// ReplacePointRecords atomically deletes all point records of an
	// activity and inserts the given set, assigning record IDs.
	ReplacePointRecords(ctx context.Context, activityID string, records []model.PointRecord) ([]model.PointRecord, error)

	// PointRecordsByActivity lists an activity's records.
	PointRecordsByActivity(ctx context.Context, activityID string) ([]model.PointRecord, error)

	// PointRecords lists every record of a competition across all
	// activities.
	PointRecords(ctx context.Context, competitionID string) ([]model.PointRecord, error)

	// SetTeamTotals writes the recomputed cached totals.
	SetTeamTotals(ctx context.Context, competitionID string, totals map[string]int) error

	// Counts returns stored entity counts for monitoring.
	Counts(ctx context.Context) (competitions, activities, records int)
}
