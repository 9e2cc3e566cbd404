package ranking

import "sort"

// ActivityRanks carries the competition ranks computed for one individual
// activity, keyed by participant ID.
type ActivityRanks struct {
	ActivityID string
	Ranks      map[string]int
}

// MVPResult names the participant with the best average rank.
type MVPResult struct {
	ParticipantID string  `json:"participant_id"`
	AverageRank   float64 `json:"average_rank"`
	Activities    int     `json:"activities"`
}

// MVP selects the participant with the numerically lowest average competition
// rank across all supplied individual activities. Only participants present
// in every activity are eligible; a participant missing from even one is
// excluded regardless of how well they ranked elsewhere. Ties for the lowest
// average are broken lexicographically by participant name (falling back to
// ID when names collide or are absent), so the result is deterministic.
//
// The second return value is false when no activity has ranks or no
// participant appears in every activity.
func MVP(activities []ActivityRanks, names map[string]string) (MVPResult, bool) {
	scored := make([]ActivityRanks, 0, len(activities))
	for _, a := range activities {
		if len(a.Ranks) > 0 {
			scored = append(scored, a)
		}
	}
	if len(scored) == 0 {
		return MVPResult{}, false
	}

	// Candidates are participants present in the first activity; each later
	// activity can only narrow the set.
	totals := make(map[string]int)
	for id, rank := range scored[0].Ranks {
		totals[id] = rank
	}
	for _, a := range scored[1:] {
		for id := range totals {
			rank, ok := a.Ranks[id]
			if !ok {
				delete(totals, id)
				continue
			}
			totals[id] += rank
		}
	}
	if len(totals) == 0 {
		return MVPResult{}, false
	}

	candidates := make([]string, 0, len(totals))
	for id := range totals {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if names[a] != names[b] {
			return names[a] < names[b]
		}
		return a < b
	})

	best := MVPResult{}
	found := false
	for _, id := range candidates {
		avg := float64(totals[id]) / float64(len(scored))
		if !found || avg < best.AverageRank {
			best = MVPResult{ParticipantID: id, AverageRank: avg, Activities: len(scored)}
			found = true
		}
	}
	return best, found
}
