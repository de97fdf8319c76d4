package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/engage/internal/domain/model"
)

// Inbox is a notification sink that keeps the most recent notifications per
// user so a client can poll them.
type Inbox struct {
	mu    sync.RWMutex
	size  int
	boxes map[string][]model.Notification // oldest first
}

// NewInbox returns an inbox holding up to size notifications per user.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 50
	}
	return &Inbox{size: size, boxes: make(map[string][]model.Notification)}
}

// Name implements worker.Sink.
func (i *Inbox) Name() string { return "inbox" }

// Deliver implements worker.Sink.
func (i *Inbox) Deliver(_ context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	if n.UserID == "" {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	box := append(i.boxes[n.UserID], n)
	if over := len(box) - i.size; over > 0 {
		box = append(box[:0:0], box[over:]...)
	}
	i.boxes[n.UserID] = box
	return nil
}

// List returns a user's notifications, most recent first.
func (i *Inbox) List(userID string) []model.Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()

	box := i.boxes[userID]
	out := make([]model.Notification, len(box))
	for j, n := range box {
		out[len(box)-1-j] = n
	}
	return out
}

// ListSince is List restricted to notifications emitted at or after since.
func (i *Inbox) ListSince(userID string, since time.Time) []model.Notification {
	all := i.List(userID)
	out := all[:0]
	for _, n := range all {
		if !n.At.Before(since) {
			out = append(out, n)
		}
	}
	return out
}

// Drop forgets a user's notifications.
func (i *Inbox) Drop(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.boxes, userID)
}
