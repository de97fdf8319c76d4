// Package leads holds the attendee leads captured during one sponsor session.
//
// A badge code identifies a lead: capturing the same code twice updates the
// existing record instead of adding a second one.
package leads

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/pkg/logger"
	"github.com/okian/engage/pkg/metrics"
	"golang.org/x/text/cases"
)

// CaptureInput is what a badge scan or manual entry supplies.
// Notes is only applied when non-nil.
type CaptureInput struct {
	Code    string
	Name    string
	Title   string
	Company string
	Avatar  string
	Notes   *string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Notes    *string
	Tags     *[]string
	Priority *model.Priority
}

// Filter selects leads in Query. Zero values match everything.
type Filter struct {
	Text     string
	Priority model.Priority
}

type record struct {
	lead model.Lead
	seq  uint64 // bumped on every capture; higher is more recent
}

// Store is a concurrency-safe lead collection.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*record
	byCode map[string]string
	seq    uint64

	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:   make(map[string]*record),
		byCode: make(map[string]string),
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture inserts a lead or, when the code is already present, overwrites its
// name, title and company (and notes when supplied), refreshes the capture
// time and moves it to the front. created reports whether a new lead was added.
func (s *Store) Capture(ctx context.Context, in CaptureInput) (model.Lead, bool, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		metrics.RecordLeadCaptured("invalid")
		return model.Lead{}, false, fmt.Errorf("%w: missing code", ErrInvalidLead)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := s.now()

	if id, ok := s.byCode[code]; ok {
		r := s.byID[id]
		r.lead.Name = in.Name
		r.lead.Title = in.Title
		r.lead.Company = in.Company
		if in.Avatar != "" {
			r.lead.Avatar = in.Avatar
		}
		if in.Notes != nil {
			r.lead.Notes = *in.Notes
		}
		r.lead.CapturedAt = now
		r.seq = s.seq
		metrics.RecordLeadCaptured("updated")
		s.logger.Debug(ctx, "lead recaptured", logger.String("id", id), logger.String("code", code))
		return r.lead.Clone(), false, nil
	}

	l := model.Lead{
		ID:         s.newID(),
		Code:       code,
		Name:       in.Name,
		Title:      in.Title,
		Company:    in.Company,
		Avatar:     in.Avatar,
		Tags:       []string{},
		Priority:   model.PriorityWarm,
		CapturedAt: now,
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	s.byID[l.ID] = &record{lead: l, seq: s.seq}
	s.byCode[code] = l.ID

	metrics.RecordLeadCaptured("created")
	metrics.UpdateLeadsTotal(len(s.byID))
	s.logger.Info(ctx, "lead captured", logger.String("id", l.ID), logger.String("code", code))
	return l.Clone(), true, nil
}

// Update merges p into the lead with the given id.
func (s *Store) Update(ctx context.Context, id string, p Patch) (model.Lead, error) {
	if p.Priority != nil && !p.Priority.Valid() {
		return model.Lead{}, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return model.Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Notes != nil {
		r.lead.Notes = *p.Notes
	}
	if p.Tags != nil {
		r.lead.Tags = normalizeTags(*p.Tags)
	}
	if p.Priority != nil {
		r.lead.Priority = *p.Priority
	}

	metrics.RecordLeadUpdate()
	s.logger.Debug(ctx, "lead updated", logger.String("id", id))
	return r.lead.Clone(), nil
}

// Get returns a copy of one lead.
func (s *Store) Get(_ context.Context, id string) (model.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.lead.Clone(), nil
}

// All returns every lead, most recently captured first.
func (s *Store) All(ctx context.Context) []model.Lead {
	return s.Query(ctx, Filter{})
}

// Count returns the number of leads.
func (s *Store) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Query returns leads matching f, most recently captured first. Text matches
// case-insensitively as a substring of name, company, title, notes or any tag.
func (s *Store) Query(_ context.Context, f Filter) []model.Lead {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Text))

	s.mu.RLock()
	matched := make([]*record, 0, len(s.byID))
	for _, r := range s.byID {
		if f.Priority != "" && r.lead.Priority != f.Priority {
			continue
		}
		if needle != "" && !matches(fold, r.lead, needle) {
			continue
		}
		matched = append(matched, r)
	}
	slices.SortFunc(matched, func(a, b *record) int {
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})
	out := make([]model.Lead, len(matched))
	for i, r := range matched {
		out[i] = r.lead.Clone()
	}
	s.mu.RUnlock()
	return out
}

func matches(fold cases.Caser, l model.Lead, needle string) bool {
	for _, field := range []string{l.Name, l.Company, l.Title, l.Notes} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	for _, tag := range l.Tags {
		if strings.Contains(fold.String(tag), needle) {
			return true
		}
	}
	return false
}

// normalizeTags trims, drops empties and duplicates, and sorts.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
