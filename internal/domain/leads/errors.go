package leads

import "errors"

var (
	// ErrNotFound is returned when an update references an unknown lead id.
	ErrNotFound = errors.New("lead not found")
	// ErrInvalidLead is returned when a capture has no badge code.
	ErrInvalidLead = errors.New("invalid lead")
	// ErrInvalidPriority is returned for a priority other than hot, warm or cold.
	ErrInvalidPriority = errors.New("invalid priority")
)
