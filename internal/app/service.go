// Package service owns one engagement session per signed-in user and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/engage/internal/adapters/mq/worker"
	"github.com/okian/engage/internal/domain/catalog"
	"github.com/okian/engage/internal/domain/draw"
	"github.com/okian/engage/internal/domain/engagement"
	"github.com/okian/engage/internal/domain/leads"
	"github.com/okian/engage/internal/domain/ledger"
	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/internal/domain/tier"
	"github.com/okian/engage/internal/domain/types"
	"github.com/okian/engage/pkg/logger"
	"github.com/okian/engage/pkg/metrics"
)

// Feature module names checked against model.EventConfig.Modules.
const (
	ModuleLeads      = "leads"
	ModuleDraws      = "draws"
	ModuleChallenges = "challenges"
)

const stopTimeout = 10 * time.Second

// Session is the state held for one signed-in user. Leads and draws exist
// only for sponsors. The catalog, its session ids and the inbox are the ones
// in place when the session was opened; Stop closes every session, so they
// never outlive the Start that built them.
type Session struct {
	UserID string
	Role   model.Role
	Opened time.Time

	engine     *engagement.Engine
	leads      *leads.Store
	draw       *draw.Engine
	catalog    catalog.Provider
	sessionIDs map[string]struct{}
	inbox      *Inbox
}

// Service implements the API dependencies for the engagement backend.
type Service struct {
	mu sync.RWMutex

	sessions   map[string]*Session
	catalog    catalog.Provider
	sessionIDs map[string]struct{}
	dispatcher *worker.Dispatcher
	inbox      *Inbox

	// Configuration
	tiers     tier.Table
	policy    engagement.PointsPolicy
	queueSize int
	inboxSize int
	picker    draw.Picker
	now       func() time.Time

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the reference data. The embedded catalog is used otherwise.
func WithCatalog(c catalog.Provider) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithTiers sets the tier table for every session.
func WithTiers(t tier.Table) Option {
	return func(s *Service) {
		if len(t.Tiers()) > 0 {
			s.tiers = t
		}
	}
}

// WithPointsPolicy sets what happens to points on event switch.
func WithPointsPolicy(p engagement.PointsPolicy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithQueueSize sets the capacity of each notification sink queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithInboxSize sets how many notifications each user's inbox keeps.
func WithInboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inboxSize = size
		}
	}
}

// WithPicker sets the random source for prize draws.
func WithPicker(p draw.Picker) Option {
	return func(s *Service) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:  make(map[string]*Session),
		tiers:     tier.Default(),
		policy:    engagement.ResetPoints,
		queueSize: 1024,
		inboxSize: 50,
		now:       time.Now,
		logger:    nil, // resolved in Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog and starts notification delivery.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting engagement service...")

	if s.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("load default catalog: %w", err)
		}
		s.catalog = c
	}
	if len(s.catalog.Events()) == 0 {
		return fmt.Errorf("%w: no events", catalog.ErrInvalidCatalog)
	}
	s.sessionIDs = make(map[string]struct{})
	for _, sess := range s.catalog.Sessions() {
		s.sessionIDs[sess.ID] = struct{}{}
	}

	s.inbox = NewInbox(s.inboxSize)
	s.dispatcher = worker.NewDispatcher(
		[]worker.Sink{worker.NewLogSink(s.logger.Named("notifications")), s.inbox},
		worker.WithQueueCapacity(s.queueSize),
		worker.WithDispatcherLogger(s.logger.Named("dispatcher")),
	)
	// Delivery outlives the start-up context; Stop drains it.
	s.dispatcher.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "engagement service started",
		logger.Int("events", len(s.catalog.Events())),
		logger.Int("challenges", len(s.catalog.Challenges())),
		logger.Int("queueSize", s.queueSize),
		logger.Int("inboxSize", s.inboxSize),
	)
	return nil
}

// Stop drains pending notifications and drops every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping engagement service...")

	for id, sess := range s.sessions {
		sess.engine.SignOut(ctx)
		delete(s.sessions, id)
	}
	metrics.UpdateActiveSessions(0)

	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := s.dispatcher.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "notification dispatcher did not drain", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "engagement service stopped")
}

// Catalog returns the reference data in use.
func (s *Service) Catalog() catalog.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// OpenSession signs user in, in the catalog's first event.
func (s *Service) OpenSession(ctx context.Context, user model.User) (engagement.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return engagement.State{}, ErrNotStarted
	}
	if _, ok := s.sessions[user.ID]; ok {
		return engagement.State{}, fmt.Errorf("%w: %s", ErrSessionExists, user.ID)
	}

	opened := s.now()
	eng := engagement.New(
		engagement.WithEvent(s.catalog.Events()[0]),
		engagement.WithTiers(s.tiers),
		engagement.WithPointsPolicy(s.policy),
		engagement.WithNotifier(s.dispatcher),
		engagement.WithClock(s.now),
		engagement.WithLogger(s.logger.Named("engagement")),
	)
	if err := eng.SignIn(ctx, user); err != nil {
		return engagement.State{}, err
	}

	sess := &Session{
		UserID:     user.ID,
		Role:       user.Role,
		Opened:     opened,
		engine:     eng,
		catalog:    s.catalog,
		sessionIDs: s.sessionIDs,
		inbox:      s.inbox,
	}
	if user.Role == model.RoleSponsor {
		sess.leads = leads.New(
			leads.WithClock(s.now),
			leads.WithLogger(s.logger.Named("leads")),
		)
		drawOpts := []draw.Option{
			draw.WithClock(s.now),
			draw.WithLogger(s.logger.Named("draw")),
		}
		if s.picker != nil {
			drawOpts = append(drawOpts, draw.WithPicker(s.picker))
		}
		sess.draw = draw.New(sess.leads, drawOpts...)
	}
	s.sessions[user.ID] = sess
	// A previous session's notifications may still be queued; the inbox
	// only shows what arrives for this one.
	s.inbox.Drop(user.ID)
	metrics.UpdateActiveSessions(len(s.sessions))

	return eng.Snapshot(), nil
}

// CloseSession signs the user out and forgets their session.
func (s *Service) CloseSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.engine.SignOut(ctx)
	delete(s.sessions, userID)
	s.inbox.Drop(userID)
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

func (s *Service) session(userID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// sponsor returns the session if it belongs to a sponsor and module is
// enabled for the active event.
func (s *Service) sponsor(userID, module string) (*Session, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	if sess.Role != model.RoleSponsor {
		return nil, ErrNotSponsor
	}
	if !sess.engine.Event().ModuleEnabled(module) {
		return nil, fmt.Errorf("%w: %s", ErrModuleDisabled, module)
	}
	return sess, nil
}

// State returns a consistent snapshot of the user's engagement.
func (s *Service) State(_ context.Context, userID string) (engagement.State, error) {
	sess, err := s.session(userID)
	if err != nil {
		return engagement.State{}, err
	}
	return sess.engine.Snapshot(), nil
}

// AwardPoints grants points directly, outside any catalog activity.
func (s *Service) AwardPoints(ctx context.Context, userID string, delta int, label string) (model.PointEvent, error) {
	sess, err := s.session(userID)
	if err != nil {
		return model.PointEvent{}, err
	}
	return sess.engine.AwardPoints(ctx, delta, label)
}

// CompleteActivity records a survey, poll or sponsor visit at its catalog reward.
func (s *Service) CompleteActivity(ctx context.Context, userID string, category ledger.Category, activityID string) (types.ActivityResult, error) {
	sess, err := s.session(userID)
	if err != nil {
		return types.ActivityResult{}, err
	}
	switch category {
	case ledger.Surveys, ledger.Polls, ledger.Sponsors:
	default:
		return types.ActivityResult{}, fmt.Errorf("%w: %s", engagement.ErrInvalidCategory, category)
	}

	reward, err := sess.catalog.Reward(category, activityID)
	if err != nil {
		return types.ActivityResult{}, err
	}
	awarded, err := sess.engine.MarkComplete(ctx, category, activityID, reward.Points, reward.Label)
	if err != nil {
		return types.ActivityResult{}, err
	}
	return s.result(sess, awarded), nil
}

// ToggleBookmark flips a catalog session bookmark.
func (s *Service) ToggleBookmark(ctx context.Context, userID, sessionID string) (types.BookmarkResult, error) {
	sess, err := s.session(userID)
	if err != nil {
		return types.BookmarkResult{}, err
	}
	if _, ok := sess.sessionIDs[sessionID]; !ok {
		return types.BookmarkResult{}, fmt.Errorf("%w: session %q", catalog.ErrNotFound, sessionID)
	}
	on, err := sess.engine.ToggleBookmark(ctx, sessionID)
	if err != nil {
		return types.BookmarkResult{}, err
	}
	return types.BookmarkResult{SessionID: sessionID, Bookmarked: on}, nil
}

// Challenges lists every catalog challenge with the user's derived progress.
func (s *Service) Challenges(_ context.Context, userID string) ([]types.ChallengeStatus, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	all := sess.catalog.Challenges()
	out := make([]types.ChallengeStatus, len(all))
	for i, ch := range all {
		out[i] = types.ChallengeStatus{
			Challenge: ch,
			Progress:  sess.engine.Progress(ch),
			Claimable: sess.engine.Claimable(ch),
			Claimed:   sess.engine.Claimed(ch),
		}
	}
	return out, nil
}

// ClaimChallenge converts a reached challenge into points.
func (s *Service) ClaimChallenge(ctx context.Context, userID, challengeID string) (types.ActivityResult, error) {
	sess, err := s.session(userID)
	if err != nil {
		return types.ActivityResult{}, err
	}
	if !sess.engine.Event().ModuleEnabled(ModuleChallenges) {
		return types.ActivityResult{}, fmt.Errorf("%w: %s", ErrModuleDisabled, ModuleChallenges)
	}
	ch, err := sess.catalog.Challenge(challengeID)
	if err != nil {
		return types.ActivityResult{}, err
	}
	awarded, err := sess.engine.ClaimChallenge(ctx, ch)
	if err != nil {
		return types.ActivityResult{}, err
	}
	return s.result(sess, awarded), nil
}

func (s *Service) result(sess *Session, awarded bool) types.ActivityResult {
	u, _ := sess.engine.User()
	return types.ActivityResult{Awarded: awarded, Points: u.Points, Tier: u.Tier}
}

// SwitchEvent moves the user to another catalog event with fresh progress.
func (s *Service) SwitchEvent(ctx context.Context, userID, eventID string) (engagement.State, error) {
	sess, err := s.session(userID)
	if err != nil {
		return engagement.State{}, err
	}
	cfg, err := sess.catalog.Event(eventID)
	if err != nil {
		return engagement.State{}, err
	}
	if err := sess.engine.SwitchEvent(ctx, cfg); err != nil {
		return engagement.State{}, err
	}
	return sess.engine.Snapshot(), nil
}

// Notifications returns the user's recent notifications, newest first.
func (s *Service) Notifications(_ context.Context, userID string) ([]model.Notification, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}
	return sess.inbox.ListSince(userID, sess.Opened), nil
}

// CaptureLead records a badge scan or manual entry for a sponsor.
func (s *Service) CaptureLead(ctx context.Context, userID string, in leads.CaptureInput) (types.LeadResult, error) {
	sess, err := s.sponsor(userID, ModuleLeads)
	if err != nil {
		return types.LeadResult{}, err
	}
	l, created, err := sess.leads.Capture(ctx, in)
	if err != nil {
		return types.LeadResult{}, err
	}
	return types.LeadResult{Lead: l, Created: created}, nil
}

// UpdateLead merges notes, tags or priority into a lead.
func (s *Service) UpdateLead(ctx context.Context, userID, leadID string, p leads.Patch) (model.Lead, error) {
	sess, err := s.sponsor(userID, ModuleLeads)
	if err != nil {
		return model.Lead{}, err
	}
	return sess.leads.Update(ctx, leadID, p)
}

// QueryLeads searches a sponsor's leads, newest first.
func (s *Service) QueryLeads(ctx context.Context, userID string, f leads.Filter) ([]model.Lead, error) {
	sess, err := s.sponsor(userID, ModuleLeads)
	if err != nil {
		return nil, err
	}
	return sess.leads.Query(ctx, f), nil
}

// GetLead returns one of a sponsor's leads.
func (s *Service) GetLead(ctx context.Context, userID, leadID string) (model.Lead, error) {
	sess, err := s.sponsor(userID, ModuleLeads)
	if err != nil {
		return model.Lead{}, err
	}
	return sess.leads.Get(ctx, leadID)
}

// StartDraw picks a winner among the sponsor's eligible leads.
func (s *Service) StartDraw(ctx context.Context, userID, prizeName string, excludePreviousWinners bool) (draw.Spin, error) {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return draw.Spin{}, err
	}
	return sess.draw.Start(ctx, prizeName, excludePreviousWinners)
}

// RevealDraw commits the pending winner to the draw history.
func (s *Service) RevealDraw(ctx context.Context, userID string) (model.DrawEntry, error) {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return model.DrawEntry{}, err
	}
	return sess.draw.Reveal(ctx)
}

// DrawAgain returns the draw to setup, keeping history.
func (s *Service) DrawAgain(ctx context.Context, userID string) error {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return err
	}
	return sess.draw.DrawAgain(ctx)
}

// OpenDrawHistory enters the history view and returns past draws.
func (s *Service) OpenDrawHistory(ctx context.Context, userID string) ([]model.DrawEntry, error) {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return nil, err
	}
	return sess.draw.OpenHistory(ctx), nil
}

// CloseDrawHistory leaves the history view.
func (s *Service) CloseDrawHistory(ctx context.Context, userID string) error {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return err
	}
	return sess.draw.CloseHistory(ctx)
}

// DrawHistory returns past draws, newest first, without changing phase.
func (s *Service) DrawHistory(ctx context.Context, userID string) ([]model.DrawEntry, error) {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return nil, err
	}
	return sess.draw.History(ctx), nil
}

// DrawStatus summarizes the sponsor's draw.
func (s *Service) DrawStatus(ctx context.Context, userID string, excludePreviousWinners bool) (types.DrawStatus, error) {
	sess, err := s.sponsor(userID, ModuleDraws)
	if err != nil {
		return types.DrawStatus{}, err
	}
	st := types.DrawStatus{
		Phase:    string(sess.draw.Phase()),
		Eligible: len(sess.draw.Eligible(ctx, excludePreviousWinners)),
		Draws:    len(sess.draw.History(ctx)),
	}
	if w, ok := sess.draw.Winner(); ok && st.Phase == string(draw.PhaseWinnerAnnounced) {
		st.Winner = &w
	}
	return st, nil
}

// GetStats returns service statistics for monitoring and refreshes the
// session and lead gauges.
func (s *Service) GetStats() types.ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.ServiceStats{
		Started:   s.started,
		QueueSize: s.queueSize,
		InboxSize: s.inboxSize,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	for _, sess := range s.sessions {
		if sess.Role != model.RoleSponsor {
			continue
		}
		stats.Sponsors++
		stats.Leads += sess.leads.Count(ctx)
		stats.Draws += len(sess.draw.History(ctx))
	}
	stats.Sessions = len(s.sessions)
	stats.Events = len(s.catalog.Events())

	metrics.UpdateActiveSessions(stats.Sessions)
	metrics.UpdateLeadsTotal(stats.Leads)
	return stats
}
