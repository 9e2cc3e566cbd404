package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrActivityNotFound    = errors.New("activity not found")
)
