package standings

import "errors"

// Sentinel kinds for recomputation errors.
var (
	ErrWinnerUnresolved = errors.New("stored winner name matches no team")
)
