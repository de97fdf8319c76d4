package api

import (
	"net/http"
	"strconv"
)

type startDrawRequest struct {
	PrizeName              string `json:"prize_name"`
	ExcludePreviousWinners bool   `json:"exclude_previous_winners"`
}

// DrawsHandler handles a sponsor's prize draw.
type DrawsHandler struct {
	deps DrawDependencies
}

// NewDrawsHandler creates a new draws handler.
func NewDrawsHandler(deps DrawDependencies) *DrawsHandler {
	return &DrawsHandler{deps: deps}
}

// HandleStatus handles GET /sessions/{user}/draws?exclude_previous_winners=.
func (h *DrawsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.draw_status"
	exclude := false
	if raw := r.URL.Query().Get("exclude_previous_winners"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		exclude = v
	}
	st, err := h.deps.DrawStatus(r.Context(), r.PathValue("user"), exclude)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleStart handles POST /sessions/{user}/draws. The body is optional.
func (h *DrawsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_draw"
	var req startDrawRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	spin, err := h.deps.StartDraw(r.Context(), r.PathValue("user"), req.PrizeName, req.ExcludePreviousWinners)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, spin)
}

// HandleReveal handles POST /sessions/{user}/draws/reveal.
func (h *DrawsHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.RevealDraw(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.reveal_draw", err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleAgain handles POST /sessions/{user}/draws/again.
func (h *DrawsHandler) HandleAgain(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DrawAgain(r.Context(), r.PathValue("user")); err != nil {
		writeFailure(w, Wrap("api.draw_again", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory handles GET /sessions/{user}/draws/history.
func (h *DrawsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.DrawHistory(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.draw_history", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleOpenHistory handles POST /sessions/{user}/draws/history/open.
func (h *DrawsHandler) HandleOpenHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.OpenDrawHistory(r.Context(), r.PathValue("user"))
	if err != nil {
		writeFailure(w, Wrap("api.open_draw_history", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCloseHistory handles POST /sessions/{user}/draws/history/close.
func (h *DrawsHandler) HandleCloseHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseDrawHistory(r.Context(), r.PathValue("user")); err != nil {
		writeFailure(w, Wrap("api.close_draw_history", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
