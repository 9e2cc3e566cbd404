// Package ranking provides tie-aware ordinal rankings over scored entries.
//
// Two schemes live here and both are used by the application:
//
//   - Rank implements competition ranking: entries are sorted descending by
//     score, the first gets rank 1, and each later entry takes its 1-based
//     position unless it ties the entry directly above it, in which case it
//     inherits that rank. Used for standings display and MVP averaging.
//
//   - EffectivePlacements maps each entry to 1 + the number of entries with a
//     strictly greater score. Tied entries share a placement and the next
//     distinct score skips ahead by the tie-group size. Used only for the
//     first/second/last bonus thresholds in individual activities.
//
// The surrounding code treats the two schemes as distinct on purpose; do not
// collapse them into one implementation.
package ranking

import "sort"

// Entry is a scored entity (team or participant) to be ranked.
type Entry struct {
	ID    string
	Score float64
}

// Ranked pairs an entry with its computed rank.
type Ranked struct {
	ID    string
	Score float64
	Rank  int
}

// Rank orders entries by score descending and assigns competition ranks.
// The input slice is not modified. Entries with equal scores keep a stable
// order relative to each other.
func Rank(entries []Entry) []Ranked {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	out := make([]Ranked, len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && e.Score == sorted[i-1].Score {
			rank = out[i-1].Rank
		}
		out[i] = Ranked{ID: e.ID, Score: e.Score, Rank: rank}
	}
	return out
}

// EffectivePlacements returns each entry's placement in the tie-group-skip
// scheme: 1 plus the count of entries scoring strictly higher. Every entry
// appears in the result.
func EffectivePlacements(entries []Entry) map[string]int {
	placements := make(map[string]int, len(entries))
	for _, e := range entries {
		greater := 0
		for _, other := range entries {
			if other.Score > e.Score {
				greater++
			}
		}
		placements[e.ID] = 1 + greater
	}
	return placements
}

// DistinctPlacements returns the sorted distinct placement values present in
// the given placement map, ascending. The second element, when present, is
// the placement of the runner-up tie group; the last element is the placement
// of the lowest-scoring group.
func DistinctPlacements(placements map[string]int) []int {
	seen := make(map[int]struct{}, len(placements))
	for _, p := range placements {
		seen[p] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Winner returns the ID of the entry with the strictly greatest score. Ties
// for the top score yield no winner.
func Winner(entries []Entry) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	best := entries[0]
	unique := true
	for _, e := range entries[1:] {
		switch {
		case e.Score > best.Score:
			best = e
			unique = true
		case e.Score == best.Score:
			unique = false
		}
	}
	if !unique {
		return "", false
	}
	return best.ID, true
}
