package scoring

import "errors"

// Sentinel kinds for scoring errors. ErrNoWinnerSelected marks invalid input
// the caller should reject; ErrUnknownTeam and ErrUnknownParticipant mark
// inconsistent state and always indicate a caller bug.
var (
	ErrNoWinnerSelected   = errors.New("no winning team selected")
	ErrUnknownTeam        = errors.New("team not found in supplied set")
	ErrUnknownParticipant = errors.New("participant not found in supplied set")
	ErrUnknownMode        = errors.New("unknown score entry mode")
)
