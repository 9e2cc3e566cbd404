// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/fieldday/internal/adapters/mq/queue"
	"github.com/okian/fieldday/internal/adapters/mq/worker"
	"github.com/okian/fieldday/internal/adapters/repository"
	"github.com/okian/fieldday/internal/domain/dedupe"
	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/ranking"
	"github.com/okian/fieldday/internal/domain/rules"
	"github.com/okian/fieldday/internal/domain/scoring"
	"github.com/okian/fieldday/internal/domain/standings"
	"github.com/okian/fieldday/pkg/logger"
	"github.com/okian/fieldday/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrBackpressure = errors.New("recompute queue full")
	ErrTwoTeams     = errors.New("a competition needs at least two teams")
)

// TeamSetup describes one team in a competition bootstrap request.
type TeamSetup struct {
	Name         string
	Captain      string
	Participants []string
}

// CompetitionSetup is the draft outcome imported in one call: the
// competition, its two teams and their rosters.
type CompetitionSetup struct {
	Name  string
	Rules *rules.ScoringRules
	Teams []TeamSetup
}

// CompetitionView bundles a competition with its teams and participants.
type CompetitionView struct {
	Competition  model.Competition   `json:"competition"`
	Teams        []model.Team        `json:"teams"`
	Participants []model.Participant `json:"participants"`
}

// ScoreSubmission carries one activity's raw results. The mode is an
// explicit toggle for team activities; individual activities ignore it.
type ScoreSubmission struct {
	Mode              scoring.Mode
	WinningTeamID     string
	TeamScores        map[string]float64
	ParticipantScores map[string]float64
}

// ScoreResult reports what one save produced.
type ScoreResult struct {
	Activity   model.Activity      `json:"activity"`
	Records    []model.PointRecord `json:"records"`
	WinnerName string              `json:"winner_name,omitempty"`
}

// StandingsEntry is one row of the team standings.
type StandingsEntry struct {
	Rank       int    `json:"rank"`
	TeamID     string `json:"team_id"`
	Name       string `json:"name"`
	Captain    string `json:"captain"`
	TotalScore int    `json:"total_score"`
}

// ActivityResult summarizes one activity for the results view.
type ActivityResult struct {
	Activity   model.Activity `json:"activity"`
	WinnerName string         `json:"winner_name,omitempty"`
}

// MVPView names the most valuable participant.
type MVPView struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	TeamID        string  `json:"team_id"`
	AverageRank   float64 `json:"average_rank"`
	Activities    int     `json:"activities"`
}

// Service orchestrates the scoring engine over the store and the recompute
// pipeline. Writes are serialized by a single mutex: the engine assumes one
// writer at a time and gets exactly that.
type Service struct {
	writeMu sync.Mutex

	store      repository.Store
	deduper    dedupe.Deduper
	jobQueue   queue.Queue
	workerPool *worker.Pool

	queueSize    int
	workerCount  int
	dedupeSize   int
	defaultRules rules.ScoringRules

	mu      sync.RWMutex
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of recompute workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the recompute job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the pending-recompute cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDefaultRules sets the rule set used when a competition is created
// without one.
func WithDefaultRules(r rules.ScoringRules) Option {
	return func(s *Service) {
		s.defaultRules = r
	}
}

// WithStore sets a custom store implementation.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:    1024,
		workerCount:  1,
		dedupeSize:   10_000,
		defaultRules: rules.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workerPool = worker.NewPool(s.workerCount, s.jobQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// CreateCompetition imports a draft outcome: the competition, its teams and
// their rosters, created in one write.
func (s *Service) CreateCompetition(ctx context.Context, setup CompetitionSetup) (CompetitionView, error) {
	if len(setup.Teams) < 2 {
		return CompetitionView{}, ErrTwoTeams
	}
	r := s.defaultRules
	if setup.Rules != nil {
		r = *setup.Rules
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	comp, err := s.store.CreateCompetition(ctx, setup.Name, r)
	if err != nil {
		return CompetitionView{}, fmt.Errorf("create competition: %w", err)
	}
	view := CompetitionView{Competition: comp}
	for _, ts := range setup.Teams {
		team, err := s.store.CreateTeam(ctx, model.Team{
			CompetitionID: comp.ID,
			Name:          ts.Name,
			Captain:       ts.Captain,
		})
		if err != nil {
			return CompetitionView{}, fmt.Errorf("create team %q: %w", ts.Name, err)
		}
		view.Teams = append(view.Teams, team)
		for _, name := range ts.Participants {
			p, err := s.store.CreateParticipant(ctx, model.Participant{
				CompetitionID: comp.ID,
				TeamID:        team.ID,
				Name:          name,
			})
			if err != nil {
				return CompetitionView{}, fmt.Errorf("create participant %q: %w", name, err)
			}
			view.Participants = append(view.Participants, p)
		}
	}
	s.updateStoredCounts(ctx)
	return view, nil
}

// Competition returns the full competition view.
func (s *Service) Competition(ctx context.Context, id string) (CompetitionView, error) {
	comp, err := s.store.Competition(ctx, id)
	if err != nil {
		return CompetitionView{}, err
	}
	teams, err := s.store.Teams(ctx, id)
	if err != nil {
		return CompetitionView{}, err
	}
	participants, err := s.store.Participants(ctx, id)
	if err != nil {
		return CompetitionView{}, err
	}
	return CompetitionView{Competition: comp, Teams: teams, Participants: participants}, nil
}

// CreateActivity adds an activity to a competition. The type is fixed for
// the activity's lifetime.
func (s *Service) CreateActivity(ctx context.Context, competitionID, name string, typ model.ActivityType, unit string) (model.Activity, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	a, err := s.store.CreateActivity(ctx, model.Activity{
		CompetitionID: competitionID,
		Name:          name,
		Type:          typ,
		Unit:          unit,
	})
	if err != nil {
		return model.Activity{}, err
	}
	s.updateStoredCounts(ctx)
	return a, nil
}

// Activities lists a competition's activities.
func (s *Service) Activities(ctx context.Context, competitionID string) ([]model.Activity, error) {
	return s.store.Activities(ctx, competitionID)
}

// DeleteActivity removes an activity, cascades its point records away and
// recomputes totals from what remains.
func (s *Service) DeleteActivity(ctx context.Context, competitionID, activityID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	a, err := s.store.Activity(ctx, activityID)
	if err != nil {
		return err
	}
	if a.CompetitionID != competitionID {
		return fmt.Errorf("%s: %w", activityID, repository.ErrActivityNotFound)
	}
	if err := s.store.DeleteActivity(ctx, activityID); err != nil {
		return err
	}
	if err := s.recomputeTotalsLocked(ctx, competitionID); err != nil {
		return err
	}
	metrics.RecordActivityDeleted()
	s.updateStoredCounts(ctx)
	return nil
}

// SaveScores overwrites an activity's raw results: prior point records are
// replaced wholesale, the activity's completion flag and winner follow the
// new outcome, and team totals are recomputed from the full record set. The
// whole sequence runs under the write lock so readers never observe totals
// inconsistent with records.
func (s *Service) SaveScores(ctx context.Context, competitionID, activityID string, sub ScoreSubmission) (ScoreResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	result, err := s.saveScoresLocked(ctx, competitionID, activityID, sub)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoreSaveError()
		return ScoreResult{}, err
	}
	metrics.RecordScoreSave()
	return result, nil
}

func (s *Service) saveScoresLocked(ctx context.Context, competitionID, activityID string, sub ScoreSubmission) (ScoreResult, error) {
	a, err := s.store.Activity(ctx, activityID)
	if err != nil {
		return ScoreResult{}, err
	}
	if a.CompetitionID != competitionID {
		return ScoreResult{}, fmt.Errorf("%s: %w", activityID, repository.ErrActivityNotFound)
	}
	teams, err := s.store.Teams(ctx, competitionID)
	if err != nil {
		return ScoreResult{}, err
	}
	participants, err := s.store.Participants(ctx, competitionID)
	if err != nil {
		return ScoreResult{}, err
	}
	r, err := s.store.Rules(ctx, competitionID)
	if err != nil {
		return ScoreResult{}, err
	}

	outcome, err := scoring.Score(scoring.Input{
		Activity:          a,
		Teams:             teams,
		Participants:      participants,
		Rules:             r,
		Mode:              sub.Mode,
		WinningTeamID:     sub.WinningTeamID,
		TeamScores:        sub.TeamScores,
		ParticipantScores: sub.ParticipantScores,
	})
	if err != nil {
		return ScoreResult{}, err
	}

	inserted, err := s.store.ReplacePointRecords(ctx, activityID, outcome.Records)
	if err != nil {
		return ScoreResult{}, err
	}
	a.Completed = len(inserted) > 0
	a.WinnerName = outcome.WinnerName
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return ScoreResult{}, err
	}
	if err := s.recomputeTotalsLocked(ctx, competitionID); err != nil {
		return ScoreResult{}, err
	}
	s.updateStoredCounts(ctx)
	return ScoreResult{Activity: a, Records: inserted, WinnerName: outcome.WinnerName}, nil
}

// Rules returns a competition's current rule set.
func (s *Service) Rules(ctx context.Context, competitionID string) (rules.ScoringRules, error) {
	return s.store.Rules(ctx, competitionID)
}

// UpdateRules stores the new rule set and schedules a full recomputation of
// every completed activity under it. Duplicate pending jobs for the same
// competition are collapsed; when the queue is saturated the recomputation
// runs synchronously instead, so totals never stay inconsistent with the
// stored rules.
func (s *Service) UpdateRules(ctx context.Context, competitionID string, r rules.ScoringRules) error {
	s.writeMu.Lock()
	if err := s.store.SetRules(ctx, competitionID, r); err != nil {
		s.writeMu.Unlock()
		return err
	}
	s.writeMu.Unlock()

	if s.deduper.SeenAndRecord(ctx, competitionID) {
		// A recompute for this competition is already queued; it will read
		// the rules we just stored.
		return nil
	}
	if s.jobQueue.Enqueue(ctx, queue.Job{CompetitionID: competitionID, Reason: "rules_change"}) {
		return nil
	}
	s.deduper.Unrecord(ctx, competitionID)
	s.logger.Warn(ctx, "recompute queue full, recomputing synchronously",
		logger.String("competitionID", competitionID),
	)
	return s.Recompute(ctx, competitionID)
}

// Recompute re-derives every completed activity's point records under the
// competition's current rules and then rebuilds team totals. It implements
// worker.Recomputer and is safe to re-run at any time.
func (s *Service) Recompute(ctx context.Context, competitionID string) error {
	s.deduper.Unrecord(ctx, competitionID)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	teams, err := s.store.Teams(ctx, competitionID)
	if err != nil {
		return err
	}
	participants, err := s.store.Participants(ctx, competitionID)
	if err != nil {
		return err
	}
	activities, err := s.store.Activities(ctx, competitionID)
	if err != nil {
		return err
	}
	r, err := s.store.Rules(ctx, competitionID)
	if err != nil {
		return err
	}
	recordsByActivity := make(map[string][]model.PointRecord, len(activities))
	for _, a := range activities {
		records, err := s.store.PointRecordsByActivity(ctx, a.ID)
		if err != nil {
			return err
		}
		recordsByActivity[a.ID] = records
	}

	outcomes, err := standings.RecomputeForRules(standings.RecomputeInput{
		Teams:             teams,
		Participants:      participants,
		Activities:        activities,
		RecordsByActivity: recordsByActivity,
		Rules:             r,
	})
	if err != nil {
		return fmt.Errorf("recompute competition %s: %w", competitionID, err)
	}

	for _, a := range activities {
		outcome, ok := outcomes[a.ID]
		if !ok {
			continue
		}
		if _, err := s.store.ReplacePointRecords(ctx, a.ID, outcome.Records); err != nil {
			return err
		}
		if a.WinnerName != outcome.WinnerName {
			a.WinnerName = outcome.WinnerName
			if err := s.store.UpdateActivity(ctx, a); err != nil {
				return err
			}
		}
	}
	return s.recomputeTotalsLocked(ctx, competitionID)
}

// recomputeTotalsLocked rebuilds cached team totals from the full record
// set. Callers must hold writeMu.
func (s *Service) recomputeTotalsLocked(ctx context.Context, competitionID string) error {
	teams, err := s.store.Teams(ctx, competitionID)
	if err != nil {
		return err
	}
	records, err := s.store.PointRecords(ctx, competitionID)
	if err != nil {
		return err
	}
	totals := standings.RecomputeTotals(teams, records)
	return s.store.SetTeamTotals(ctx, competitionID, totals)
}

// Standings returns teams ranked by total score under competition ranking.
// Totals are derived from the record set on every call; the cached
// Team.TotalScore is a display convenience, never the source of truth.
func (s *Service) Standings(ctx context.Context, competitionID string) ([]StandingsEntry, error) {
	teams, err := s.store.Teams(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.PointRecords(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	totals := standings.RecomputeTotals(teams, records)

	entries := make([]ranking.Entry, 0, len(teams))
	for _, t := range teams {
		entries = append(entries, ranking.Entry{ID: t.ID, Score: float64(totals[t.ID])})
	}
	byID := make(map[string]model.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	out := make([]StandingsEntry, 0, len(entries))
	for _, r := range ranking.Rank(entries) {
		t := byID[r.ID]
		out = append(out, StandingsEntry{
			Rank:       r.Rank,
			TeamID:     t.ID,
			Name:       t.Name,
			Captain:    t.Captain,
			TotalScore: totals[t.ID],
		})
	}
	return out, nil
}

// Results summarizes each activity with its winner, derived from the stored
// records rather than the cached winner name.
func (s *Service) Results(ctx context.Context, competitionID string) ([]ActivityResult, error) {
	teams, err := s.store.Teams(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.Activities(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	out := make([]ActivityResult, 0, len(activities))
	for _, a := range activities {
		res := ActivityResult{Activity: a}
		if a.Completed {
			records, err := s.store.PointRecordsByActivity(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			if winner, ok := standings.ActivityWinner(teams, records); ok {
				res.WinnerName = winner.Name
			}
		}
		out = append(out, res)
	}
	return out, nil
}

// MVP returns the participant with the best average competition rank across
// all completed individual activities, or false when no participant was
// scored in every one of them.
func (s *Service) MVP(ctx context.Context, competitionID string) (MVPView, bool, error) {
	participants, err := s.store.Participants(ctx, competitionID)
	if err != nil {
		return MVPView{}, false, err
	}
	activities, err := s.store.Activities(ctx, competitionID)
	if err != nil {
		return MVPView{}, false, err
	}

	names := make(map[string]string, len(participants))
	byID := make(map[string]model.Participant, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
		byID[p.ID] = p
	}

	var perActivity []ranking.ActivityRanks
	for _, a := range activities {
		if a.Type != model.TypeIndividual || !a.Completed {
			continue
		}
		records, err := s.store.PointRecordsByActivity(ctx, a.ID)
		if err != nil {
			return MVPView{}, false, err
		}
		entries := make([]ranking.Entry, 0, len(records))
		for _, r := range records {
			if r.Kind == model.KindIndividual && r.HasRawValue() {
				entries = append(entries, ranking.Entry{ID: r.ParticipantID, Score: *r.RawValue})
			}
		}
		if len(entries) == 0 {
			continue
		}
		ranks := make(map[string]int, len(entries))
		for _, r := range ranking.Rank(entries) {
			ranks[r.ID] = r.Rank
		}
		perActivity = append(perActivity, ranking.ActivityRanks{ActivityID: a.ID, Ranks: ranks})
	}

	result, ok := ranking.MVP(perActivity, names)
	if !ok {
		return MVPView{}, false, nil
	}
	p := byID[result.ParticipantID]
	return MVPView{
		ParticipantID: result.ParticipantID,
		Name:          p.Name,
		TeamID:        p.TeamID,
		AverageRank:   result.AverageRank,
		Activities:    result.Activities,
	}, true, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		stats["queueLength"] = s.jobQueue.Len(ctx)
		stats["pendingRecomputes"] = s.deduper.Size()
		competitions, activities, records := s.store.Counts(ctx)
		stats["competitions"] = competitions
		stats["activities"] = activities
		stats["pointRecords"] = records
	}
	return stats
}

func (s *Service) updateStoredCounts(ctx context.Context) {
	competitions, activities, records := s.store.Counts(ctx)
	metrics.UpdateStoredCounts(competitions, activities, records)
}
