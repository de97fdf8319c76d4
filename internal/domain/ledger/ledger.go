// Package ledger tracks which gamified activities a user has completed in
// the active event.
package ledger

import (
	"fmt"
	"strings"
)

// Category names one of the ledger's id sets.
type Category string

// Ledger categories.
const (
	Surveys    Category = "surveys"
	Polls      Category = "polls"
	Sponsors   Category = "sponsors"
	Challenges Category = "challenges"
	Bookmarks  Category = "bookmarks"
)

// Categories lists every category in a stable order.
var Categories = []Category{Surveys, Polls, Sponsors, Challenges, Bookmarks}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Reversible reports whether members of c may be removed. Only bookmarks are.
func (c Category) Reversible() bool {
	return c == Bookmarks
}

// Ledger holds the five per-event sets. Compound operations (check, insert,
// award) are serialized by the owning engine; each set is also safe on its own.
type Ledger struct {
	sets map[Category]Set
}

// New returns an empty ledger.
func New() *Ledger {
	l := &Ledger{sets: make(map[Category]Set, len(Categories))}
	for _, c := range Categories {
		l.sets[c] = NewSet()
	}
	return l
}

func (l *Ledger) set(c Category) (Set, error) {
	s, ok := l.sets[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return s, nil
}

// Record inserts id into c. Returns true if id was newly inserted.
func (l *Ledger) Record(c Category, id string) (bool, error) {
	s, err := l.set(c)
	if err != nil {
		return false, err
	}
	return !s.SeenAndRecord(id), nil
}

// Remove deletes id from a reversible category.
func (l *Ledger) Remove(c Category, id string) (bool, error) {
	if !c.Reversible() {
		return false, fmt.Errorf("%w: %s", ErrIrreversible, c)
	}
	s, err := l.set(c)
	if err != nil {
		return false, err
	}
	return s.Unrecord(id), nil
}

// Has reports membership. Unknown categories contain nothing.
func (l *Ledger) Has(c Category, id string) bool {
	s, err := l.set(c)
	if err != nil {
		return false
	}
	return s.Has(id)
}

// Count returns the size of c.
func (l *Ledger) Count(c Category) int {
	s, err := l.set(c)
	if err != nil {
		return 0
	}
	return int(s.Size())
}

// Snapshot is a point-in-time copy of every set.
type Snapshot struct {
	CompletedSurveys    []string `json:"completed_surveys"`
	VotedPolls          []string `json:"voted_polls"`
	MetSponsors         []string `json:"met_sponsors"`
	CompletedChallenges []string `json:"completed_challenges"`
	BookmarkedSessions  []string `json:"bookmarked_sessions"`
}

// Snapshot copies the ledger contents.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		CompletedSurveys:    l.sets[Surveys].IDs(),
		VotedPolls:          l.sets[Polls].IDs(),
		MetSponsors:         l.sets[Sponsors].IDs(),
		CompletedChallenges: l.sets[Challenges].IDs(),
		BookmarkedSessions:  l.sets[Bookmarks].IDs(),
	}
}

// Empty reports whether all five sets are empty.
func (l *Ledger) Empty() bool {
	for _, s := range l.sets {
		if s.Size() != 0 {
			return false
		}
	}
	return true
}
