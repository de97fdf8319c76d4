package draw

import "errors"

var (
	// ErrEmptyPool is returned when no lead is eligible to win.
	ErrEmptyPool = errors.New("no eligible leads")
	// ErrInvalidPhase is returned when an operation is not allowed in the current phase.
	ErrInvalidPhase = errors.New("invalid draw phase")
)
