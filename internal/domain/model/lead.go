package model

import (
	"strings"
	"time"
)

// Priority ranks how promising a lead is.
type Priority string

// Lead priorities.
const (
	PriorityHot  Priority = "hot"
	PriorityWarm Priority = "warm"
	PriorityCold Priority = "cold"
)

// ParsePriority accepts hot, warm or cold in any case.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHot || p == PriorityWarm || p == PriorityCold
}

// Lead is an attendee captured by a sponsor, by badge scan or manual entry.
type Lead struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Avatar     string    `json:"avatar,omitempty"`
	Notes      string    `json:"notes"`
	Tags       []string  `json:"tags"`
	Priority   Priority  `json:"priority"`
	CapturedAt time.Time `json:"captured_at"`
}

// Clone returns a copy that shares no slices with l.
func (l Lead) Clone() Lead {
	l.Tags = append([]string{}, l.Tags...)
	return l
}

// DrawEntry records one prize draw winner. Append-only.
type DrawEntry struct {
	ID           string    `json:"id"`
	PrizeName    string    `json:"prize_name"`
	WinnerLeadID string    `json:"winner_lead_id"`
	WinnerName   string    `json:"winner_name"`
	At           time.Time `json:"at"`
}
