// Package types contains response shapes shared by the service and the HTTP API.
package types

import "github.com/okian/engage/internal/domain/model"

// ChallengeStatus is a catalog challenge with progress derived from the ledger.
type ChallengeStatus struct {
	model.Challenge
	Progress  int  `json:"progress"`
	Claimable bool `json:"claimable"`
	Claimed   bool `json:"claimed"`
}

// Percent returns progress as a whole percentage of the target.
func (c ChallengeStatus) Percent() int {
	if c.Target <= 0 {
		return 0
	}
	return c.Progress * 100 / c.Target
}

// ActivityResult reports the outcome of a completion or claim.
type ActivityResult struct {
	Awarded bool   `json:"awarded"`
	Points  int    `json:"points"`
	Tier    string `json:"tier"`
}

// BookmarkResult reports a session bookmark after a toggle.
type BookmarkResult struct {
	SessionID  string `json:"session_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// LeadResult reports a capture. Created is false when an existing code was updated.
type LeadResult struct {
	Lead    model.Lead `json:"lead"`
	Created bool       `json:"created"`
}

// DrawStatus summarizes a sponsor's draw.
type DrawStatus struct {
	Phase    string           `json:"phase"`
	Winner   *model.DrawEntry `json:"winner,omitempty"`
	Eligible int              `json:"eligible"`
	Draws    int              `json:"draws"`
}

// ServiceStats is the /stats payload. Session counts are only filled in
// while the service is started.
type ServiceStats struct {
	Started   bool `json:"started"`
	QueueSize int  `json:"queueSize"`
	InboxSize int  `json:"inboxSize"`
	Events    int  `json:"events"`
	Sessions  int  `json:"sessions"`
	Sponsors  int  `json:"sponsors"`
	Leads     int  `json:"leads"`
	Draws     int  `json:"draws"`
}
