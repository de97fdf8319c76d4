// Package draw runs randomized prize draws over a sponsor's captured leads.
//
// The winner is chosen once, in Start, with a single uniform pick over the
// eligible pool. Any shuffle animation a client shows before Reveal is
// cosmetic and has no influence on the result.
package draw

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/okian/engage/internal/domain/model"
	"github.com/okian/engage/pkg/logger"
	"github.com/okian/engage/pkg/metrics"
)

// DefaultPrizeName is used when Start is given an empty prize name.
const DefaultPrizeName = "Prize Draw"

// Phase is the state of the draw flow.
type Phase string

// Draw phases.
const (
	PhaseSetup           Phase = "setup"
	PhaseSpinning        Phase = "spinning"
	PhaseWinnerAnnounced Phase = "winner_announced"
	PhaseHistoryView     Phase = "history_view"
)

// Picker returns a uniform random integer in [0, n).
type Picker interface {
	IntN(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

// IntN calls f(n).
func (f PickerFunc) IntN(n int) int { return f(n) }

// LeadSource supplies the current lead pool.
type LeadSource interface {
	All(ctx context.Context) []model.Lead
}

// Spin is the outcome of Start. Candidates is the eligible pool the client
// may cycle through; Winner is already decided.
type Spin struct {
	PrizeName  string       `json:"prize_name"`
	Candidates []model.Lead `json:"candidates"`
	Winner     model.Lead   `json:"winner"`
	Excluded   bool         `json:"exclude_previous_winners"`
}

// Engine is the draw state machine for one sponsor session.
type Engine struct {
	mu      sync.Mutex
	source  LeadSource
	phase   Phase
	prev    Phase // phase to return to when leaving HistoryView
	pending *Spin
	last    *model.DrawEntry
	history []model.DrawEntry

	picker Picker
	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// New returns an engine in the Setup phase drawing from source.
func New(source LeadSource, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		phase:  PhaseSetup,
		picker: PickerFunc(rand.IntN),
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start computes the eligible pool and picks the winner. Only valid in Setup.
func (e *Engine) Start(ctx context.Context, prizeName string, excludePreviousWinners bool) (Spin, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseSetup {
		metrics.RecordDraw("invalid_phase")
		return Spin{}, fmt.Errorf("%w: start from %s", ErrInvalidPhase, e.phase)
	}

	pool := e.eligibleLocked(ctx, excludePreviousWinners)
	if len(pool) == 0 {
		metrics.RecordDraw("empty_pool")
		return Spin{}, ErrEmptyPool
	}

	idx := e.picker.IntN(len(pool))
	if idx < 0 || idx >= len(pool) {
		return Spin{}, fmt.Errorf("picker returned %d for pool of %d", idx, len(pool))
	}

	name := strings.TrimSpace(prizeName)
	if name == "" {
		name = DefaultPrizeName
	}
	spin := Spin{
		PrizeName:  name,
		Candidates: pool,
		Winner:     pool[idx],
		Excluded:   excludePreviousWinners,
	}
	e.pending = &spin
	e.phase = PhaseSpinning
	metrics.RecordDraw("started")

	e.logger.Info(ctx, "draw started",
		logger.String("prize", name),
		logger.Int("pool", len(pool)),
		logger.Bool("exclude_previous", excludePreviousWinners),
	)
	return cloneSpin(spin), nil
}

// Reveal commits the pending winner to history. Only valid while Spinning.
func (e *Engine) Reveal(ctx context.Context) (model.DrawEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseSpinning || e.pending == nil {
		return model.DrawEntry{}, fmt.Errorf("%w: reveal from %s", ErrInvalidPhase, e.phase)
	}

	entry := model.DrawEntry{
		ID:           e.newID(),
		PrizeName:    e.pending.PrizeName,
		WinnerLeadID: e.pending.Winner.ID,
		WinnerName:   e.pending.Winner.Name,
		At:           e.now(),
	}
	e.history = append(e.history, entry)
	e.last = &entry
	e.pending = nil
	e.phase = PhaseWinnerAnnounced
	metrics.RecordDraw("revealed")

	e.logger.Info(ctx, "draw winner announced",
		logger.String("prize", entry.PrizeName),
		logger.String("lead", entry.WinnerLeadID),
	)
	return entry, nil
}

// DrawAgain returns to Setup keeping history, so the last winner is
// excluded from the next draw when exclusion is on.
func (e *Engine) DrawAgain(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseWinnerAnnounced {
		return fmt.Errorf("%w: draw again from %s", ErrInvalidPhase, e.phase)
	}
	e.phase = PhaseSetup
	e.last = nil
	return nil
}

// OpenHistory enters HistoryView from any phase and returns the history.
func (e *Engine) OpenHistory(_ context.Context) []model.DrawEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseHistoryView {
		e.prev = e.phase
		e.phase = PhaseHistoryView
	}
	return e.historyLocked()
}

// CloseHistory leaves HistoryView for the phase it was opened from.
func (e *Engine) CloseHistory(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseHistoryView {
		return fmt.Errorf("%w: close history from %s", ErrInvalidPhase, e.phase)
	}
	e.phase = e.prev
	return nil
}

// History returns every draw, most recent first.
func (e *Engine) History(_ context.Context) []model.DrawEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.historyLocked()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Pending returns the spin awaiting Reveal, if any.
func (e *Engine) Pending() (Spin, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return Spin{}, false
	}
	return cloneSpin(*e.pending), true
}

// Winner returns the entry shown while WinnerAnnounced.
func (e *Engine) Winner() (model.DrawEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return model.DrawEntry{}, false
	}
	return *e.last, true
}

// Eligible returns the pool a draw would pick from right now.
func (e *Engine) Eligible(ctx context.Context, excludePreviousWinners bool) []model.Lead {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eligibleLocked(ctx, excludePreviousWinners)
}

// eligibleLocked filters the live lead pool. Exclusion is recomputed from
// history each time, so turning it off restores previous winners at once.
func (e *Engine) eligibleLocked(ctx context.Context, exclude bool) []model.Lead {
	all := e.source.All(ctx)
	if !exclude || len(e.history) == 0 {
		return all
	}
	won := make(map[string]struct{}, len(e.history))
	for _, d := range e.history {
		won[d.WinnerLeadID] = struct{}{}
	}
	pool := all[:0:0]
	for _, l := range all {
		if _, ok := won[l.ID]; !ok {
			pool = append(pool, l)
		}
	}
	return pool
}

func (e *Engine) historyLocked() []model.DrawEntry {
	out := make([]model.DrawEntry, len(e.history))
	for i, d := range e.history {
		out[len(e.history)-1-i] = d
	}
	return out
}

func cloneSpin(s Spin) Spin {
	c := make([]model.Lead, len(s.Candidates))
	for i, l := range s.Candidates {
		c[i] = l.Clone()
	}
	s.Candidates = c
	s.Winner = s.Winner.Clone()
	return s
}
