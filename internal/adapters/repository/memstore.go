package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/rules"
)

// MemStore implements Store with mutex-guarded maps. Listing methods return
// entities in creation order so results render stably without extra sorting
// at the call sites.
type MemStore struct {
	mu sync.RWMutex

	competitions map[string]model.Competition
	rules        map[string]rules.ScoringRules
	teams        map[string]model.Team
	participants map[string]model.Participant
	activities   map[string]model.Activity
	records      map[string][]model.PointRecord // activityID -> records

	// Creation-order indexes, keyed by competition ID.
	teamOrder        map[string][]string
	participantOrder map[string][]string
	activityOrder    map[string][]string

	idFn func() string
}

// NewMemStore creates an empty in-memory store with configuration options.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		competitions:     make(map[string]model.Competition),
		rules:            make(map[string]rules.ScoringRules),
		teams:            make(map[string]model.Team),
		participants:     make(map[string]model.Participant),
		activities:       make(map[string]model.Activity),
		records:          make(map[string][]model.PointRecord),
		teamOrder:        make(map[string][]string),
		participantOrder: make(map[string][]string),
		activityOrder:    make(map[string][]string),
		idFn:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCompetition persists a new competition with its rule set.
func (s *MemStore) CreateCompetition(_ context.Context, name string, r rules.ScoringRules) (model.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Competition{ID: s.idFn(), Name: name}
	s.competitions[c.ID] = c
	s.rules[c.ID] = r
	return c, nil
}

// Competition returns a competition by ID.
func (s *MemStore) Competition(_ context.Context, id string) (model.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.competitions[id]
	if !ok {
		return model.Competition{}, fmt.Errorf("%s: %w", id, ErrCompetitionNotFound)
	}
	return c, nil
}

// Rules returns the competition's current rule set.
func (s *MemStore) Rules(_ context.Context, competitionID string) (rules.ScoringRules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[competitionID]
	if !ok {
		return rules.ScoringRules{}, fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	return r, nil
}

// SetRules replaces the competition's rule set.
func (s *MemStore) SetRules(_ context.Context, competitionID string, r rules.ScoringRules) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	s.rules[competitionID] = r
	return nil
}

// CreateTeam adds a team to its competition.
func (s *MemStore) CreateTeam(_ context.Context, t model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.competitions[t.CompetitionID]; !ok {
		return model.Team{}, fmt.Errorf("%s: %w", t.CompetitionID, ErrCompetitionNotFound)
	}
	t.ID = s.idFn()
	s.teams[t.ID] = t
	s.teamOrder[t.CompetitionID] = append(s.teamOrder[t.CompetitionID], t.ID)
	return t, nil
}

// Teams lists a competition's teams in creation order.
func (s *MemStore) Teams(_ context.Context, competitionID string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	out := make([]model.Team, 0, len(s.teamOrder[competitionID]))
	for _, id := range s.teamOrder[competitionID] {
		out = append(out, s.teams[id])
	}
	return out, nil
}

// CreateParticipant adds a participant to its team and competition.
func (s *MemStore) CreateParticipant(_ context.Context, p model.Participant) (model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.competitions[p.CompetitionID]; !ok {
		return model.Participant{}, fmt.Errorf("%s: %w", p.CompetitionID, ErrCompetitionNotFound)
	}
	if _, ok := s.teams[p.TeamID]; !ok {
		return model.Participant{}, fmt.Errorf("%s: %w", p.TeamID, ErrTeamNotFound)
	}
	p.ID = s.idFn()
	s.participants[p.ID] = p
	s.participantOrder[p.CompetitionID] = append(s.participantOrder[p.CompetitionID], p.ID)
	return p, nil
}

// Participants lists a competition's participants in creation order.
func (s *MemStore) Participants(_ context.Context, competitionID string) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	out := make([]model.Participant, 0, len(s.participantOrder[competitionID]))
	for _, id := range s.participantOrder[competitionID] {
		out = append(out, s.participants[id])
	}
	return out, nil
}

// CreateActivity adds an activity to its competition.
func (s *MemStore) CreateActivity(_ context.Context, a model.Activity) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.competitions[a.CompetitionID]; !ok {
		return model.Activity{}, fmt.Errorf("%s: %w", a.CompetitionID, ErrCompetitionNotFound)
	}
	a.ID = s.idFn()
	s.activities[a.ID] = a
	s.activityOrder[a.CompetitionID] = append(s.activityOrder[a.CompetitionID], a.ID)
	return a, nil
}

// Activity returns an activity by ID.
func (s *MemStore) Activity(_ context.Context, id string) (model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return model.Activity{}, fmt.Errorf("%s: %w", id, ErrActivityNotFound)
	}
	return a, nil
}

// Activities lists a competition's activities in creation order.
func (s *MemStore) Activities(_ context.Context, competitionID string) ([]model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	out := make([]model.Activity, 0, len(s.activityOrder[competitionID]))
	for _, id := range s.activityOrder[competitionID] {
		out = append(out, s.activities[id])
	}
	return out, nil
}

// UpdateActivity overwrites an activity's stored state.
func (s *MemStore) UpdateActivity(_ context.Context, a model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[a.ID]; !ok {
		return fmt.Errorf("%s: %w", a.ID, ErrActivityNotFound)
	}
	s.activities[a.ID] = a
	return nil
}

// DeleteActivity removes an activity and all of its point records.
func (s *MemStore) DeleteActivity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrActivityNotFound)
	}
	delete(s.activities, id)
	delete(s.records, id)
	order := s.activityOrder[a.CompetitionID]
	for i, v := range order {
		if v == id {
			s.activityOrder[a.CompetitionID] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return nil
}

// ReplacePointRecords swaps an activity's record set wholesale, assigning
// IDs to the inserted records.
func (s *MemStore) ReplacePointRecords(_ context.Context, activityID string, records []model.PointRecord) ([]model.PointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[activityID]; !ok {
		return nil, fmt.Errorf("%s: %w", activityID, ErrActivityNotFound)
	}
	inserted := make([]model.PointRecord, len(records))
	for i, r := range records {
		r.ID = s.idFn()
		r.ActivityID = activityID
		inserted[i] = r
	}
	s.records[activityID] = inserted
	return append([]model.PointRecord(nil), inserted...), nil
}

// PointRecordsByActivity lists an activity's records.
func (s *MemStore) PointRecordsByActivity(_ context.Context, activityID string) ([]model.PointRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.activities[activityID]; !ok {
		return nil, fmt.Errorf("%s: %w", activityID, ErrActivityNotFound)
	}
	return append([]model.PointRecord(nil), s.records[activityID]...), nil
}

// PointRecords lists every record of a competition across all activities,
// in activity creation order.
func (s *MemStore) PointRecords(_ context.Context, competitionID string) ([]model.PointRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	var out []model.PointRecord
	for _, activityID := range s.activityOrder[competitionID] {
		out = append(out, s.records[activityID]...)
	}
	return out, nil
}

// SetTeamTotals writes the recomputed cached totals onto the teams.
func (s *MemStore) SetTeamTotals(_ context.Context, competitionID string, totals map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return fmt.Errorf("%s: %w", competitionID, ErrCompetitionNotFound)
	}
	for _, id := range s.teamOrder[competitionID] {
		t := s.teams[id]
		t.TotalScore = totals[id]
		s.teams[id] = t
	}
	return nil
}

// Counts returns stored entity counts for monitoring.
func (s *MemStore) Counts(_ context.Context) (competitions, activities, records int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rs := range s.records {
		records += len(rs)
	}
	return len(s.competitions), len(s.activities), records
}
