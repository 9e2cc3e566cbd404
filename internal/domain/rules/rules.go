// Package rules holds the per-competition scoring configuration.
//
// A ScoringRules value is plain data: every field may be zero or negative
// (penalties and no-ops are meaningful), and changing any field invalidates
// every previously computed point record, which the application answers with
// a full recomputation of completed activities.
package rules

// ScoringRules carries the five point values a competition scores with.
type ScoringRules struct {
	// TeamWin and TeamLoss apply to team win/loss results and to the team
	// placement bonus in individual activities.
	TeamWin  int `json:"team_win" koanf:"team_win"`
	TeamLoss int `json:"team_loss" koanf:"team_loss"`

	// FirstPlace, SecondPlace and LastPlace apply to individual placements.
	FirstPlace  int `json:"first_place" koanf:"first_place"`
	SecondPlace int `json:"second_place" koanf:"second_place"`
	LastPlace   int `json:"last_place" koanf:"last_place"`
}

// Default returns the stock rule set used when a competition does not
// configure its own.
func Default() ScoringRules {
	return ScoringRules{
		TeamWin:     50,
		TeamLoss:    0,
		FirstPlace:  10,
		SecondPlace: 5,
		LastPlace:   -5,
	}
}
