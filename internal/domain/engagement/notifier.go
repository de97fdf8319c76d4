package engagement

import (
	"context"

	"github.com/okian/engage/internal/domain/model"
)

// Notifier receives engine notifications in emission order. Implementations
// must not block and must not call back into the engine.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n model.Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n model.Notification) { f(ctx, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Notification) {}
