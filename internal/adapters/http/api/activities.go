package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/engage/internal/domain/ledger"
)

type awardRequest struct {
	Amount int    `json:"amount"`
	Label  string `json:"label"`
}

type switchEventRequest struct {
	EventID string `json:"event_id"`
}

// ActivitiesHandler handles points, completions, bookmarks, challenges and
// event switching for a signed-in user.
type ActivitiesHandler struct {
	deps ActivityDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivityDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleAwardPoints handles POST /sessions/{user}/points requests.
func (h *ActivitiesHandler) HandleAwardPoints(w http.ResponseWriter, r *http.Request) {
	const op = "api.award_points"
	var req awardRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pe, err := h.deps.AwardPoints(r.Context(), r.PathValue("user"), req.Amount, req.Label)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, pe)
}

// HandleComplete handles POST /sessions/{user}/activities/{category}/{id}.
// Repeats answer 200 with awarded=false.
func (h *ActivitiesHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_activity"
	category, err := ledger.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	res, err := h.deps.CompleteActivity(r.Context(), r.PathValue("user"), category, r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleToggleBookmark handles POST /sessions/{user}/bookmarks/{session}.
func (h *ActivitiesHandler) HandleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ToggleBookmark(r.Context(), r.PathValue("user"), r.PathValue("session"))
	if err != nil {
		writeFailure(w, Wrap("api.toggle_bookmark", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleListChallenges handles GET /sessions/{user}/challenges.
func (h *ActivitiesHandler) HandleListChallenges(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Challenges(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.list_challenges", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleClaimChallenge handles POST /sessions/{user}/challenges/{id}/claim.
func (h *ActivitiesHandler) HandleClaimChallenge(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ClaimChallenge(r.Context(), r.PathValue("user"), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap("api.claim_challenge", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSwitchEvent handles PUT /sessions/{user}/event.
func (h *ActivitiesHandler) HandleSwitchEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.switch_event"
	var req switchEventRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing event_id")))
		return
	}
	st, err := h.deps.SwitchEvent(r.Context(), r.PathValue("user"), req.EventID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
