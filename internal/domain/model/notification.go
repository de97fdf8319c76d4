package model

import "time"

// NotificationKind enumerates what the presentation layer is told about.
type NotificationKind string

// Notification kinds.
const (
	NotificationPointsAwarded NotificationKind = "points_awarded"
	NotificationTierPromoted  NotificationKind = "tier_promoted"
	NotificationEventSwitched NotificationKind = "event_switched"
)

// Notification is emitted by the engagement engine after a state change.
// Only the fields relevant to Kind are set.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	UserID    string           `json:"user_id"`
	Label     string           `json:"label,omitempty"`
	Amount    int              `json:"amount,omitempty"`
	Tier      string           `json:"tier,omitempty"`
	EventName string           `json:"event_name,omitempty"`
	At        time.Time        `json:"at"`
}
