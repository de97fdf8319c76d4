package engagement

import "errors"

// Sentinel kinds for engagement errors.
var (
	ErrInvalidAmount    = errors.New("point amount must be positive")
	ErrNoActiveUser     = errors.New("no active user")
	ErrInvalidCategory  = errors.New("category cannot be completed directly")
	ErrInvalidActivity  = errors.New("invalid activity id")
	ErrInvalidChallenge = errors.New("invalid challenge")
	ErrInvalidUser      = errors.New("invalid user")
	ErrInvalidEvent     = errors.New("invalid event config")
)
