package api

import (
	"net/http"
	"strings"

	"github.com/okian/engage/internal/domain/model"
)

// openSessionRequest is the user supplied by the identity boundary.
type openSessionRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Points    int      `json:"points"`
	Interests []string `json:"interests"`
}

func (r openSessionRequest) user() model.User {
	role := model.Role(strings.ToLower(strings.TrimSpace(r.Role)))
	if role == "" {
		role = model.RoleAttendee
	}
	return model.User{
		ID:        strings.TrimSpace(r.ID),
		Name:      r.Name,
		Role:      role,
		Points:    r.Points,
		Interests: r.Interests,
	}
}

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleOpen handles POST /sessions requests.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	var req openSessionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.OpenSession(r.Context(), req.user())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleState handles GET /sessions/{user} requests.
func (h *SessionsHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.State(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.get_session", err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleClose handles DELETE /sessions/{user} requests.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseSession(r.Context(), r.PathValue("user")); err != nil {
		writeFailure(w, Wrap("api.close_session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNotifications handles GET /sessions/{user}/notifications requests.
func (h *SessionsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Notifications(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.notifications", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}
