package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/engage/internal/domain/leads"
	"github.com/okian/engage/internal/domain/model"
)

type captureRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Company string  `json:"company"`
	Avatar  string  `json:"avatar"`
	Notes   *string `json:"notes"`
}

type updateLeadRequest struct {
	Notes    *string   `json:"notes"`
	Tags     *[]string `json:"tags"`
	Priority *string   `json:"priority"`
}

func (r updateLeadRequest) patch() leads.Patch {
	p := leads.Patch{Notes: r.Notes, Tags: r.Tags}
	if r.Priority != nil {
		// Unknown values are passed through so the store rejects them.
		prio, _ := model.ParsePriority(*r.Priority)
		p.Priority = &prio
	}
	return p
}

// LeadsHandler handles a sponsor's lead capture and search.
type LeadsHandler struct {
	deps LeadDependencies
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(deps LeadDependencies) *LeadsHandler {
	return &LeadsHandler{deps: deps}
}

// HandleCapture handles POST /sessions/{user}/leads. A new lead answers 201,
// a recaptured badge 200.
func (h *LeadsHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	const op = "api.capture_lead"
	var req captureRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.CaptureLead(r.Context(), r.PathValue("user"), leads.CaptureInput{
		Code:    req.Code,
		Name:    req.Name,
		Title:   req.Title,
		Company: req.Company,
		Avatar:  req.Avatar,
		Notes:   req.Notes,
	})
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// HandleQuery handles GET /sessions/{user}/leads?q=&priority=.
func (h *LeadsHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	const op = "api.query_leads"
	q := r.URL.Query()
	f := leads.Filter{Text: q.Get("q")}
	if raw := strings.TrimSpace(q.Get("priority")); raw != "" {
		p, ok := model.ParsePriority(raw)
		if !ok {
			writeFailure(w, WrapKind(op, leads.ErrInvalidPriority, fmt.Errorf("%q", raw)))
			return
		}
		f.Priority = p
	}
	list, err := h.deps.QueryLeads(r.Context(), r.PathValue("user"), f)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /sessions/{user}/leads/{id}.
func (h *LeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	l, err := h.deps.GetLead(r.Context(), r.PathValue("user"), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap("api.get_lead", err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HandleUpdate handles PATCH /sessions/{user}/leads/{id}.
func (h *LeadsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_lead"
	var req updateLeadRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	l, err := h.deps.UpdateLead(r.Context(), r.PathValue("user"), r.PathValue("id"), req.patch())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}
