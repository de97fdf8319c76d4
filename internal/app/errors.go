package service

import (
	"errors"
	"fmt"

	"github.com/okian/engage/internal/domain/engagement"
)

// Sentinel errors returned by the Service.
var (
	ErrNotStarted = errors.New("service not started")
	// ErrSessionNotFound also matches engagement.ErrNoActiveUser.
	ErrSessionNotFound = fmt.Errorf("session not found: %w", engagement.ErrNoActiveUser)
	ErrSessionExists   = errors.New("session already open")
	ErrNotSponsor      = errors.New("operation requires the sponsor role")
	ErrModuleDisabled  = errors.New("module disabled for the active event")
)
