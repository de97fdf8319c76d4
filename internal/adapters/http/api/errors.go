package api

import (
	"errors"
	"net/http"

	service "github.com/okian/engage/internal/app"
	"github.com/okian/engage/internal/domain/catalog"
	"github.com/okian/engage/internal/domain/draw"
	"github.com/okian/engage/internal/domain/engagement"
	"github.com/okian/engage/internal/domain/leads"
	"github.com/okian/engage/internal/domain/ledger"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("service unavailable")
)

// Error tags a failure with the operation that produced it and a sentinel
// kind. Both Kind and Err are visible to errors.Is.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind wraps err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op, keeping err's own kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

type errorMapping struct {
	kind   error
	status int
	code   string
}

// Checked in order; the first kind matched by errors.Is wins.
var errorMappings = []errorMapping{
	{engagement.ErrNoActiveUser, http.StatusNotFound, "no_active_user"},
	{catalog.ErrNotFound, http.StatusNotFound, "not_found"},
	{leads.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrNotSponsor, http.StatusForbidden, "not_sponsor"},
	{service.ErrModuleDisabled, http.StatusForbidden, "module_disabled"},
	{service.ErrSessionExists, http.StatusConflict, "session_exists"},
	{draw.ErrEmptyPool, http.StatusConflict, "empty_pool"},
	{draw.ErrInvalidPhase, http.StatusConflict, "invalid_phase"},
	{engagement.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{engagement.ErrInvalidCategory, http.StatusBadRequest, "invalid_category"},
	{ledger.ErrUnknownCategory, http.StatusBadRequest, "invalid_category"},
	{engagement.ErrInvalidActivity, http.StatusBadRequest, "invalid_activity"},
	{engagement.ErrInvalidChallenge, http.StatusBadRequest, "invalid_challenge"},
	{engagement.ErrInvalidUser, http.StatusBadRequest, "invalid_user"},
	{engagement.ErrInvalidEvent, http.StatusBadRequest, "invalid_event"},
	{leads.ErrInvalidLead, http.StatusBadRequest, "invalid_lead"},
	{leads.ErrInvalidPriority, http.StatusBadRequest, "invalid_priority"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
	{ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
}

// statusFor maps err to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
