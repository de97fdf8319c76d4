package engagement

import (
	"time"

	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/internal/domain/tier"
	"github.com/okian/engage/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTiers sets the tier table used to derive the user's tier.
func WithTiers(t tier.Table) Option {
	return func(e *Engine) {
		if len(t.Tiers()) > 0 {
			e.tiers = t
		}
	}
}

// WithNotifier sets where notifications are sent.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithPointsPolicy sets what happens to points on SwitchEvent.
func WithPointsPolicy(p PointsPolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithEvent sets the initially active event.
func WithEvent(cfg model.EventConfig) Option {
	return func(e *Engine) {
		e.event = cfg
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides point event id generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
