// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/engage/internal/domain/catalog"
	"github.com/okian/engage/internal/domain/draw"
	"github.com/okian/engage/internal/domain/engagement"
	"github.com/okian/engage/internal/domain/leads"
	"github.com/okian/engage/internal/domain/ledger"
	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/internal/domain/types"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// SessionDependencies opens, reads and closes user sessions.
type SessionDependencies interface {
	OpenSession(ctx context.Context, user model.User) (engagement.State, error)
	CloseSession(ctx context.Context, userID string) error
	State(ctx context.Context, userID string) (engagement.State, error)
	Notifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// ActivityDependencies mutates a user's engagement state.
type ActivityDependencies interface {
	AwardPoints(ctx context.Context, userID string, delta int, label string) (model.PointEvent, error)
	CompleteActivity(ctx context.Context, userID string, category ledger.Category, activityID string) (types.ActivityResult, error)
	ToggleBookmark(ctx context.Context, userID, sessionID string) (types.BookmarkResult, error)
	Challenges(ctx context.Context, userID string) ([]types.ChallengeStatus, error)
	ClaimChallenge(ctx context.Context, userID, challengeID string) (types.ActivityResult, error)
	SwitchEvent(ctx context.Context, userID, eventID string) (engagement.State, error)
}

// LeadDependencies serves a sponsor's captured leads.
type LeadDependencies interface {
	CaptureLead(ctx context.Context, userID string, in leads.CaptureInput) (types.LeadResult, error)
	UpdateLead(ctx context.Context, userID, leadID string, p leads.Patch) (model.Lead, error)
	QueryLeads(ctx context.Context, userID string, f leads.Filter) ([]model.Lead, error)
	GetLead(ctx context.Context, userID, leadID string) (model.Lead, error)
}

// DrawDependencies runs a sponsor's prize draws.
type DrawDependencies interface {
	StartDraw(ctx context.Context, userID, prizeName string, excludePreviousWinners bool) (draw.Spin, error)
	RevealDraw(ctx context.Context, userID string) (model.DrawEntry, error)
	DrawAgain(ctx context.Context, userID string) error
	OpenDrawHistory(ctx context.Context, userID string) ([]model.DrawEntry, error)
	CloseDrawHistory(ctx context.Context, userID string) error
	DrawHistory(ctx context.Context, userID string) ([]model.DrawEntry, error)
	DrawStatus(ctx context.Context, userID string, excludePreviousWinners bool) (types.DrawStatus, error)
}

// CatalogDependencies exposes the reference data.
type CatalogDependencies interface {
	Catalog() catalog.Provider
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	ActivityDependencies
	LeadDependencies
	DrawDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	catalogHandler    *CatalogHandler
	sessionsHandler   *SessionsHandler
	activitiesHandler *ActivitiesHandler
	leadsHandler      *LeadsHandler
	drawsHandler      *DrawsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		catalogHandler:    NewCatalogHandler(deps),
		sessionsHandler:   NewSessionsHandler(deps),
		activitiesHandler: NewActivitiesHandler(deps),
		leadsHandler:      NewLeadsHandler(deps),
		drawsHandler:      NewDrawsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	handle("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	handle("GET /stats", "stats", s.statsHandler.HandleStats)
	handle("GET /catalog", "catalog", s.catalogHandler.HandleGetCatalog)

	sh := s.sessionsHandler
	handle("POST /sessions", "sessions", sh.HandleOpen)
	handle("GET /sessions/{user}", "session", sh.HandleState)
	handle("DELETE /sessions/{user}", "session", sh.HandleClose)
	handle("GET /sessions/{user}/notifications", "notifications", sh.HandleNotifications)

	ah := s.activitiesHandler
	handle("POST /sessions/{user}/points", "points", ah.HandleAwardPoints)
	handle("POST /sessions/{user}/activities/{category}/{id}", "activities", ah.HandleComplete)
	handle("POST /sessions/{user}/bookmarks/{session}", "bookmarks", ah.HandleToggleBookmark)
	handle("GET /sessions/{user}/challenges", "challenges", ah.HandleListChallenges)
	handle("POST /sessions/{user}/challenges/{id}/claim", "challenges", ah.HandleClaimChallenge)
	handle("PUT /sessions/{user}/event", "event", ah.HandleSwitchEvent)

	lh := s.leadsHandler
	handle("POST /sessions/{user}/leads", "leads", lh.HandleCapture)
	handle("GET /sessions/{user}/leads", "leads", lh.HandleQuery)
	handle("GET /sessions/{user}/leads/{id}", "lead", lh.HandleGet)
	handle("PATCH /sessions/{user}/leads/{id}", "lead", lh.HandleUpdate)

	dh := s.drawsHandler
	handle("GET /sessions/{user}/draws", "draws", dh.HandleStatus)
	handle("POST /sessions/{user}/draws", "draws", dh.HandleStart)
	handle("POST /sessions/{user}/draws/reveal", "draws", dh.HandleReveal)
	handle("POST /sessions/{user}/draws/again", "draws", dh.HandleAgain)
	handle("GET /sessions/{user}/draws/history", "draw_history", dh.HandleHistory)
	handle("POST /sessions/{user}/draws/history/open", "draw_history", dh.HandleOpenHistory)
	handle("POST /sessions/{user}/draws/history/close", "draw_history", dh.HandleCloseHistory)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a domain error to its status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// decodeJSON reads a JSON body into v. An empty body is accepted when
// optional is set and leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
