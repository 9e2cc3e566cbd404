// Package scoring converts raw activity results into point records.
//
// Score is a pure function: records and the winner name are derived entirely
// from the supplied activity, raw inputs and rule set, so calling it twice
// with identical inputs yields identical outcomes. Persistence, completion
// flags and total recomputation belong to the caller.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/ranking"
	"github.com/okian/fieldday/internal/domain/rules"
)

// Mode selects which team-activity algorithm applies for one save. The caller
// toggles this explicitly; it is never inferred from the shape of the data.
type Mode int

// Closed set of team score-entry modes.
const (
	// ModeWinLoss awards TeamWin/TeamLoss based on a single selected winner.
	ModeWinLoss Mode = iota
	// ModeTeamScore stores entered numeric values directly as points.
	ModeTeamScore
)

// String returns the wire representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeWinLoss:
		return "win_loss"
	case ModeTeamScore:
		return "team_score"
	default:
		return "unknown"
	}
}

// ParseMode converts a wire string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "win_loss":
		return ModeWinLoss, nil
	case "team_score":
		return ModeTeamScore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Input bundles everything one scoring pass needs.
type Input struct {
	Activity     model.Activity
	Teams        []model.Team
	Participants []model.Participant
	Rules        rules.ScoringRules

	// Mode applies to team activities only.
	Mode Mode

	// WinningTeamID is read in ModeWinLoss. Empty means undecided.
	WinningTeamID string

	// TeamScores is read in ModeTeamScore, keyed by team ID. Teams without
	// an entry receive no record.
	TeamScores map[string]float64

	// ParticipantScores is read for individual activities, keyed by
	// participant ID. Participants without an entry are excluded from both
	// records and ranking.
	ParticipantScores map[string]float64
}

// Outcome is the result of scoring one activity. Record IDs are left empty
// for the repository to assign on persist.
type Outcome struct {
	Records []model.PointRecord
	// WinnerName is empty when no winner can be declared.
	WinnerName string
}

// Score computes the point records for one activity under the given rules.
//
// An empty raw input set is not an error: it yields an empty outcome and the
// caller must not mark the activity completed. A raw input referencing a team
// or participant missing from the supplied sets is a caller bug and fails
// loudly instead of being dropped.
func Score(in Input) (Outcome, error) {
	if in.Activity.Type == model.TypeIndividual {
		return scoreIndividual(in)
	}
	switch in.Mode {
	case ModeWinLoss:
		return scoreWinLoss(in)
	case ModeTeamScore:
		return scoreTeamValues(in)
	default:
		return Outcome{}, fmt.Errorf("%w: %d", ErrUnknownMode, in.Mode)
	}
}

// scoreWinLoss awards TeamWin to the selected team and TeamLoss to every
// other team.
func scoreWinLoss(in Input) (Outcome, error) {
	if in.WinningTeamID == "" {
		return Outcome{}, fmt.Errorf("activity %s: %w", in.Activity.ID, ErrNoWinnerSelected)
	}
	winner, ok := teamByID(in.Teams, in.WinningTeamID)
	if !ok {
		return Outcome{}, fmt.Errorf("winning team %s: %w", in.WinningTeamID, ErrUnknownTeam)
	}

	out := Outcome{WinnerName: winner.Name}
	for _, t := range in.Teams {
		points := in.Rules.TeamLoss
		if t.ID == winner.ID {
			points = in.Rules.TeamWin
		}
		out.Records = append(out.Records, model.PointRecord{
			ActivityID: in.Activity.ID,
			TeamID:     t.ID,
			Points:     points,
			Kind:       model.KindTeam,
		})
	}
	return out, nil
}

// scoreTeamValues stores entered numeric values directly as points, with no
// win/loss transformation. The winner is the team with the strictly highest
// points, declared only when that value is positive.
func scoreTeamValues(in Input) (Outcome, error) {
	if len(in.TeamScores) == 0 {
		return Outcome{}, nil
	}
	if err := ensureKnownTeams(in.Teams, in.TeamScores); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	entries := make([]ranking.Entry, 0, len(in.TeamScores))
	for _, t := range in.Teams {
		raw, entered := in.TeamScores[t.ID]
		if !entered {
			continue
		}
		points := roundToPoints(raw)
		out.Records = append(out.Records, model.PointRecord{
			ActivityID: in.Activity.ID,
			TeamID:     t.ID,
			RawValue:   model.Float64Ptr(raw),
			Points:     points,
			Kind:       model.KindTeam,
		})
		entries = append(entries, ranking.Entry{ID: t.ID, Score: float64(points)})
	}

	if id, ok := ranking.Winner(entries); ok {
		for _, r := range out.Records {
			if r.TeamID == id && r.Points > 0 {
				winner, _ := teamByID(in.Teams, id)
				out.WinnerName = winner.Name
			}
		}
	}
	return out, nil
}

// scoreIndividual implements the team-with-individual-bonus algorithm:
// individual records store the raw value with zero points, while placement
// bonuses (team placement plus each member's first/second/last bonus) are
// folded into a single team-kind record per scored team. That asymmetry is
// required for total-score correctness; individual bonuses must never be
// attributed to the participant's own record.
func scoreIndividual(in Input) (Outcome, error) {
	if len(in.ParticipantScores) == 0 {
		return Outcome{}, nil
	}

	participantsByID := make(map[string]model.Participant, len(in.Participants))
	for _, p := range in.Participants {
		participantsByID[p.ID] = p
	}
	teamTotals := make(map[string]float64)
	for id := range in.ParticipantScores {
		p, ok := participantsByID[id]
		if !ok {
			return Outcome{}, fmt.Errorf("participant %s: %w", id, ErrUnknownParticipant)
		}
		if _, ok := teamByID(in.Teams, p.TeamID); !ok {
			return Outcome{}, fmt.Errorf("team %s of participant %s: %w", p.TeamID, id, ErrUnknownTeam)
		}
		teamTotals[p.TeamID] += in.ParticipantScores[id]
	}

	placementBonus := teamPlacementBonuses(teamTotals, in.Rules)
	individualBonus := individualBonuses(in.ParticipantScores, in.Rules)

	var out Outcome

	// One individual record per scored participant, in stable roster order.
	teamBonusSums := make(map[string]int, len(teamTotals))
	for _, p := range in.Participants {
		raw, scored := in.ParticipantScores[p.ID]
		if !scored {
			continue
		}
		teamBonusSums[p.TeamID] += individualBonus[p.ID]
		out.Records = append(out.Records, model.PointRecord{
			ActivityID:    in.Activity.ID,
			TeamID:        p.TeamID,
			ParticipantID: p.ID,
			RawValue:      model.Float64Ptr(raw),
			Points:        0,
			Kind:          model.KindIndividual,
		})
	}

	// One team record per scored team carrying the folded bonuses.
	teamEntries := make([]ranking.Entry, 0, len(teamTotals))
	for _, t := range in.Teams {
		if _, scored := teamTotals[t.ID]; !scored {
			continue
		}
		points := placementBonus[t.ID] + teamBonusSums[t.ID]
		out.Records = append(out.Records, model.PointRecord{
			ActivityID: in.Activity.ID,
			TeamID:     t.ID,
			Points:     points,
			Kind:       model.KindTeam,
		})
		teamEntries = append(teamEntries, ranking.Entry{ID: t.ID, Score: float64(points)})
	}

	if id, ok := ranking.Winner(teamEntries); ok {
		for _, e := range teamEntries {
			if e.ID == id && e.Score > 0 {
				winner, _ := teamByID(in.Teams, id)
				out.WinnerName = winner.Name
			}
		}
	}
	return out, nil
}

// teamPlacementBonuses awards TeamWin to the uniquely highest team total and
// TeamLoss to the uniquely lowest. Placement needs at least two scored teams
// and at least one positive total; teams tied for an extreme get nothing.
func teamPlacementBonuses(totals map[string]float64, r rules.ScoringRules) map[string]int {
	bonuses := make(map[string]int, len(totals))
	if len(totals) < 2 {
		return bonuses
	}
	anyPositive := false
	for _, v := range totals {
		if v > 0 {
			anyPositive = true
			break
		}
	}
	if !anyPositive {
		return bonuses
	}

	entries := make([]ranking.Entry, 0, len(totals))
	for id, v := range totals {
		entries = append(entries, ranking.Entry{ID: id, Score: v})
	}
	if top, ok := ranking.Winner(entries); ok {
		bonuses[top] = r.TeamWin
	}
	inverted := make([]ranking.Entry, len(entries))
	for i, e := range entries {
		inverted[i] = ranking.Entry{ID: e.ID, Score: -e.Score}
	}
	if bottom, ok := ranking.Winner(inverted); ok {
		bonuses[bottom] += r.TeamLoss
	}
	return bonuses
}

// individualBonuses assigns first/second/last bonuses using effective
// placements. The first-place bonus goes to everyone tied at placement 1
// (two or more scored participants required); the second-place bonus to the
// runner-up tie group and the last-place penalty to the lowest tie group
// (three or more required). A participant can sit in both a top group and
// the lowest group when the field is tiny and tied; the amounts stack.
func individualBonuses(scores map[string]float64, r rules.ScoringRules) map[string]int {
	entries := make([]ranking.Entry, 0, len(scores))
	for id, v := range scores {
		entries = append(entries, ranking.Entry{ID: id, Score: v})
	}
	placements := ranking.EffectivePlacements(entries)
	distinct := ranking.DistinctPlacements(placements)
	n := len(entries)

	bonuses := make(map[string]int, n)
	for id, p := range placements {
		bonus := 0
		if p == 1 && n > 1 {
			bonus += r.FirstPlace
		}
		if len(distinct) > 1 && p == distinct[1] && n > 2 {
			bonus += r.SecondPlace
		}
		if p == distinct[len(distinct)-1] && n > 2 {
			bonus += r.LastPlace
		}
		bonuses[id] = bonus
	}
	return bonuses
}

func teamByID(teams []model.Team, id string) (model.Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return model.Team{}, false
}

// ensureKnownTeams rejects raw scores referencing teams outside the supplied
// set; silently dropping a score update is never acceptable.
func ensureKnownTeams(teams []model.Team, scores map[string]float64) error {
	for id := range scores {
		if _, ok := teamByID(teams, id); !ok {
			return fmt.Errorf("team %s: %w", id, ErrUnknownTeam)
		}
	}
	return nil
}

// roundToPoints converts an entered raw value to whole points.
func roundToPoints(v float64) int {
	return int(math.Round(v))
}
