// Package engagement implements the points, tiers and challenge state engine
// for a single signed-in user.
//
// All mutations go through the Engine's methods and are serialized by one
// mutex, so the check-insert-award sequence of a completion is atomic and a
// concurrent duplicate observes the activity as already present.
package engagement

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/engage/internal/domain/ledger"
	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/internal/domain/tier"
	"github.com/okian/engage/pkg/logger"
	"github.com/okian/engage/pkg/metrics"
)

// Engine owns one user's engagement state for the active event.
type Engine struct {
	mu sync.Mutex

	user    *model.User
	event   model.EventConfig
	ledger  *ledger.Ledger
	history []model.PointEvent // oldest first; read back newest first
	saved   map[string]int     // points held when last leaving each event

	tiers    tier.Table
	notifier Notifier
	policy   PointsPolicy
	now      func() time.Time
	newID    func() string
	logger   logger.Logger
}

// New constructs an Engine with no signed-in user.
func New(opts ...Option) *Engine {
	e := &Engine{
		ledger:   ledger.New(),
		saved:    make(map[string]int),
		tiers:    tier.Default(),
		notifier: nopNotifier{},
		policy:   ResetPoints,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SignIn installs the user supplied by the identity boundary. The tier is
// recomputed from the supplied points.
func (e *Engine) SignIn(ctx context.Context, u model.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidUser)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	if u.Points < 0 {
		return fmt.Errorf("%w: negative points", ErrInvalidUser)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	user := u.Clone()
	user.Tier = e.tiers.Name(user.Points)
	e.user = &user
	e.logger.Info(ctx, "user signed in",
		logger.String("user", user.ID),
		logger.String("role", string(user.Role)),
		logger.String("event", e.event.ID),
	)
	return nil
}

// SignOut drops the active user. Later mutations fail with ErrNoActiveUser.
func (e *Engine) SignOut(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user != nil {
		e.logger.Info(ctx, "user signed out", logger.String("user", e.user.ID))
	}
	e.user = nil
}

// AwardPoints adds delta points to the active user. It is the only path by
// which points grow.
func (e *Engine) AwardPoints(ctx context.Context, delta int, label string) (model.PointEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.awardLocked(ctx, delta, label)
}

func (e *Engine) awardLocked(ctx context.Context, delta int, label string) (model.PointEvent, error) {
	if delta <= 0 {
		metrics.RecordEngagementError("invalid_amount")
		return model.PointEvent{}, fmt.Errorf("%w: %d", ErrInvalidAmount, delta)
	}
	if e.user == nil {
		metrics.RecordEngagementError("no_active_user")
		return model.PointEvent{}, ErrNoActiveUser
	}
	if e.user.Points > math.MaxInt-delta {
		metrics.RecordEngagementError("invalid_amount")
		return model.PointEvent{}, fmt.Errorf("%w: total would overflow", ErrInvalidAmount)
	}

	prevTier := e.user.Tier
	e.user.Points += delta
	e.user.Tier = e.tiers.Name(e.user.Points)

	pe := model.PointEvent{ID: e.newID(), Label: label, Points: delta, At: e.now()}
	e.history = append(e.history, pe)
	metrics.RecordPointsAwarded(delta)

	e.logger.Debug(ctx, "points awarded",
		logger.String("user", e.user.ID),
		logger.String("label", label),
		logger.Int("amount", delta),
		logger.Int("total", e.user.Points),
	)

	e.notifier.Notify(ctx, model.Notification{
		Kind:   model.NotificationPointsAwarded,
		UserID: e.user.ID,
		Label:  label,
		Amount: delta,
		At:     pe.At,
	})
	if e.user.Tier != prevTier {
		metrics.RecordTierPromotion(e.user.Tier)
		e.logger.Info(ctx, "tier promoted",
			logger.String("user", e.user.ID),
			logger.String("from", prevTier),
			logger.String("to", e.user.Tier),
		)
		e.notifier.Notify(ctx, model.Notification{
			Kind:   model.NotificationTierPromoted,
			UserID: e.user.ID,
			Tier:   e.user.Tier,
			At:     pe.At,
		})
	}
	return pe, nil
}

// MarkComplete records a survey, poll or sponsor visit and awards reward
// points. A repeat for the same activity returns false and changes nothing.
func (e *Engine) MarkComplete(ctx context.Context, category ledger.Category, activityID string, reward int, label string) (bool, error) {
	switch category {
	case ledger.Surveys, ledger.Polls, ledger.Sponsors:
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	if strings.TrimSpace(activityID) == "" {
		return false, ErrInvalidActivity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// validate before touching the ledger so an insert is never left without its award
	if e.user == nil {
		metrics.RecordEngagementError("no_active_user")
		return false, ErrNoActiveUser
	}
	if reward <= 0 {
		metrics.RecordEngagementError("invalid_amount")
		return false, fmt.Errorf("%w: %d", ErrInvalidAmount, reward)
	}
	return e.completeLocked(ctx, category, activityID, reward, label)
}

func (e *Engine) completeLocked(ctx context.Context, category ledger.Category, activityID string, reward int, label string) (bool, error) {
	inserted, err := e.ledger.Record(category, activityID)
	if err != nil {
		return false, err
	}
	if !inserted {
		metrics.RecordCompletion(string(category), "duplicate")
		return false, nil
	}
	if label == "" {
		label = fmt.Sprintf("%s: %s", category, activityID)
	}
	if _, err := e.awardLocked(ctx, reward, label); err != nil {
		return false, err
	}
	metrics.RecordCompletion(string(category), "awarded")
	return true, nil
}

// ToggleBookmark flips a session bookmark. It awards nothing. Returns whether
// the session is bookmarked afterwards.
func (e *Engine) ToggleBookmark(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, ErrInvalidActivity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.user == nil {
		return false, ErrNoActiveUser
	}
	if e.ledger.Has(ledger.Bookmarks, sessionID) {
		if _, err := e.ledger.Remove(ledger.Bookmarks, sessionID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := e.ledger.Record(ledger.Bookmarks, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

// ClaimChallenge converts reached challenge progress into points. It returns
// false without mutating anything when progress is short of the target or
// the challenge was already claimed.
func (e *Engine) ClaimChallenge(ctx context.Context, ch model.Challenge) (bool, error) {
	if strings.TrimSpace(ch.ID) == "" || ch.Target <= 0 || ch.RewardPoints <= 0 {
		return false, fmt.Errorf("%w: %q", ErrInvalidChallenge, ch.ID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.user == nil {
		metrics.RecordEngagementError("no_active_user")
		return false, ErrNoActiveUser
	}
	if e.progressLocked(ch) < ch.Target {
		metrics.RecordChallengeClaim("not_reached")
		return false, nil
	}
	if e.ledger.Has(ledger.Challenges, ch.ID) {
		metrics.RecordChallengeClaim("already_claimed")
		return false, nil
	}

	label := ch.Title
	if label == "" {
		label = ch.ID
	}
	awarded, err := e.completeLocked(ctx, ledger.Challenges, ch.ID, ch.RewardPoints, "Challenge: "+label)
	if err != nil {
		return false, err
	}
	if awarded {
		metrics.RecordChallengeClaim("awarded")
	}
	return awarded, nil
}

// Progress derives how far the ledger is toward ch's target, capped at the target.
func (e *Engine) Progress(ch model.Challenge) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked(ch)
}

// Claimable reports whether ch has reached its target and is not yet claimed.
func (e *Engine) Claimable(ch model.Challenge) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ch.Target > 0 && e.progressLocked(ch) >= ch.Target && !e.ledger.Has(ledger.Challenges, ch.ID)
}

// Claimed reports whether ch has been claimed in the active event.
func (e *Engine) Claimed(ch model.Challenge) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Has(ledger.Challenges, ch.ID)
}

func (e *Engine) progressLocked(ch model.Challenge) int {
	return min(e.countFor(ch.Type), max(ch.Target, 0))
}

// countFor maps a challenge type to the ledger count that drives it.
// Networking counts sponsors met, the only networking signal the ledger holds.
func (e *Engine) countFor(t model.ChallengeType) int {
	switch t {
	case model.ChallengeSponsorVisits, model.ChallengeNetworking:
		return e.ledger.Count(ledger.Sponsors)
	case model.ChallengeSurveyCompletion:
		return e.ledger.Count(ledger.Surveys)
	case model.ChallengePollVotes:
		return e.ledger.Count(ledger.Polls)
	case model.ChallengeSessionAttendance:
		return e.ledger.Count(ledger.Bookmarks)
	}
	return 0
}

// SwitchEvent makes cfg the active event. The config, a fresh ledger, an
// empty history and the policy-derived point total are installed together,
// also when cfg names the already active event.
func (e *Engine) SwitchEvent(ctx context.Context, cfg model.EventConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	from := e.event
	e.event = cfg
	e.ledger = ledger.New()
	e.history = nil

	userID := ""
	if e.user != nil {
		userID = e.user.ID
		if from.ID != "" {
			e.saved[from.ID] = e.user.Points
		}
		points := e.policy(e.saved, e.user.Clone(), cfg)
		if points < 0 {
			points = 0
		}
		e.user.Points = points
		e.user.Tier = e.tiers.Name(points)
	}
	metrics.RecordEventSwitch()

	e.logger.Info(ctx, "event switched",
		logger.String("user", userID),
		logger.String("from", from.ID),
		logger.String("to", cfg.ID),
	)
	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}
	e.notifier.Notify(ctx, model.Notification{
		Kind:      model.NotificationEventSwitched,
		UserID:    userID,
		EventName: name,
		At:        e.now(),
	})
	return nil
}

// User returns a copy of the active user.
func (e *Engine) User() (model.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return model.User{}, false
	}
	return e.user.Clone(), true
}

// Event returns the active event config.
func (e *Engine) Event() model.EventConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.event
}

// History returns point events, most recent first.
func (e *Engine) History() []model.PointEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.historyLocked()
}

func (e *Engine) historyLocked() []model.PointEvent {
	out := make([]model.PointEvent, len(e.history))
	for i, pe := range e.history {
		out[len(e.history)-1-i] = pe
	}
	return out
}

// Count returns the size of a ledger category in the active event.
func (e *Engine) Count(c ledger.Category) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Count(c)
}

// Completed reports whether id is in category c.
func (e *Engine) Completed(c ledger.Category, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Has(c, id)
}

// State is a consistent copy of the engine for display.
type State struct {
	User         *model.User        `json:"user,omitempty"`
	Event        model.EventConfig  `json:"event"`
	Ledger       ledger.Snapshot    `json:"ledger"`
	History      []model.PointEvent `json:"history"`
	NextTier     string             `json:"next_tier,omitempty"`
	PointsToNext int                `json:"points_to_next,omitempty"`
}

// Snapshot copies the whole state under one lock so it is never observed
// mid-switch. With no user the User field is nil; reading never fails.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Event:   e.event,
		Ledger:  e.ledger.Snapshot(),
		History: e.historyLocked(),
	}
	if e.user != nil {
		u := e.user.Clone()
		st.User = &u
		if next, ok := e.tiers.Next(u.Points); ok {
			st.NextTier = next.Name
			st.PointsToNext = next.Min - u.Points
		}
	}
	return st
}
