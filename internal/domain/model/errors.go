package model

import "errors"

// Sentinel kinds for model parsing errors.
var (
	ErrUnknownActivityType = errors.New("unknown activity type")
	ErrUnknownRecordKind   = errors.New("unknown record kind")
)
