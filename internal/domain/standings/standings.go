// Package standings derives team totals and re-derives point records when
// scoring rules change.
//
// Totals are always recomputed from scratch over the full point-record set.
// Incremental delta updates drift the moment an activity is re-saved or
// deleted, so none exist here; re-running RecomputeTotals after a partial
// failure is always safe because it only reads current records.
package standings

import (
	"fmt"

	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/ranking"
	"github.com/okian/fieldday/internal/domain/rules"
	"github.com/okian/fieldday/internal/domain/scoring"
)

// RecomputeTotals sums team-kind point records per team across all
// activities. Every supplied team appears in the result, including teams
// with no records (total zero), so a missing entry always means a team the
// caller never supplied.
func RecomputeTotals(teams []model.Team, records []model.PointRecord) map[string]int {
	totals := make(map[string]int, len(teams))
	for _, t := range teams {
		totals[t.ID] = 0
	}
	for _, r := range records {
		if r.Kind != model.KindTeam {
			continue
		}
		if _, ok := totals[r.TeamID]; !ok {
			continue
		}
		totals[r.TeamID] += r.Points
	}
	return totals
}

// RecomputeInput carries everything a rules-change recomputation reads.
type RecomputeInput struct {
	Teams             []model.Team
	Participants      []model.Participant
	Activities        []model.Activity
	RecordsByActivity map[string][]model.PointRecord
	Rules             rules.ScoringRules
}

// RecomputeForRules re-scores every completed activity under the new rules,
// reconstructing each activity's raw inputs from its stored records: the
// winner of a win/loss save is recovered through the activity's winner name,
// custom team saves and individual saves through the records' raw values.
// Activities that are not completed or have no records are left untouched
// (absent from the result).
func RecomputeForRules(in RecomputeInput) (map[string]scoring.Outcome, error) {
	out := make(map[string]scoring.Outcome, len(in.Activities))
	for _, a := range in.Activities {
		records := in.RecordsByActivity[a.ID]
		if !a.Completed || len(records) == 0 {
			continue
		}
		input, err := reconstructInput(a, records, in)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		outcome, err := scoring.Score(input)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		out[a.ID] = outcome
	}
	return out, nil
}

// reconstructInput rebuilds the scoring input for one completed activity
// from its persisted records.
func reconstructInput(a model.Activity, records []model.PointRecord, in RecomputeInput) (scoring.Input, error) {
	base := scoring.Input{
		Activity:     a,
		Teams:        in.Teams,
		Participants: in.Participants,
		Rules:        in.Rules,
	}

	if a.Type == model.TypeIndividual {
		base.ParticipantScores = make(map[string]float64)
		for _, r := range records {
			if r.Kind == model.KindIndividual && r.HasRawValue() {
				base.ParticipantScores[r.ParticipantID] = *r.RawValue
			}
		}
		return base, nil
	}

	// Team activity: raw values on the records mean a custom-score save,
	// otherwise the save was win/loss and the stored winner name identifies
	// the winning team.
	custom := false
	for _, r := range records {
		if r.Kind == model.KindTeam && r.HasRawValue() {
			custom = true
			break
		}
	}
	if custom {
		base.Mode = scoring.ModeTeamScore
		base.TeamScores = make(map[string]float64)
		for _, r := range records {
			if r.Kind == model.KindTeam && r.HasRawValue() {
				base.TeamScores[r.TeamID] = *r.RawValue
			}
		}
		return base, nil
	}

	base.Mode = scoring.ModeWinLoss
	for _, t := range in.Teams {
		if t.Name == a.WinnerName {
			base.WinningTeamID = t.ID
			return base, nil
		}
	}
	return scoring.Input{}, fmt.Errorf("winner %q: %w", a.WinnerName, ErrWinnerUnresolved)
}

// ActivityWinner determines the winner of a team activity from its records:
// the team whose team-kind record holds the strictly greatest points. Ties
// yield no declared winner.
func ActivityWinner(teams []model.Team, records []model.PointRecord) (model.Team, bool) {
	entries := make([]ranking.Entry, 0, len(records))
	for _, r := range records {
		if r.Kind != model.KindTeam {
			continue
		}
		entries = append(entries, ranking.Entry{ID: r.TeamID, Score: float64(r.Points)})
	}
	id, ok := ranking.Winner(entries)
	if !ok {
		return model.Team{}, false
	}
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return model.Team{}, false
}
