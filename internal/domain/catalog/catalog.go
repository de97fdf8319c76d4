// Package catalog provides the read-only reference data of a conference:
// events, sessions, sponsors, surveys, polls and challenges.
//
// Reward values are validated once at load and served from a typed
// RewardTable, so the engine never sees a missing or non-positive reward.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/engage/internal/domain/ledger"
	"github.com/okian/engage/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Provider serves catalog lookups.
type Provider interface {
	Reward(category ledger.Category, id string) (Reward, error)
	Challenge(id string) (model.Challenge, error)
	Challenges() []model.Challenge
	Event(id string) (model.EventConfig, error)
	Events() []model.EventConfig
	Sessions() []Session
	Surveys() []Survey
	Polls() []Poll
	Sponsors() []Sponsor
}

// Survey is a questionnaire that awards points once completed.
type Survey struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Reward int    `yaml:"reward" json:"reward"`
}

// Poll is a single question that awards points once voted on.
type Poll struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
	Reward   int      `yaml:"reward" json:"reward"`
}

// Sponsor is an exhibitor whose booth awards points when visited.
type Sponsor struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Booth  string `yaml:"booth" json:"booth"`
	Reward int    `yaml:"reward" json:"reward"`
}

// Session is a talk attendees can bookmark.
type Session struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Speaker  string `yaml:"speaker" json:"speaker"`
	Room     string `yaml:"room" json:"room"`
	Track    string `yaml:"track" json:"track"`
	StartsAt string `yaml:"starts_at" json:"starts_at"`
}

// Reward is the point value and history label for one gamified activity.
type Reward struct {
	Points int    `json:"points"`
	Label  string `json:"label"`
}

// RewardTable maps category and activity id to its reward.
type RewardTable map[ledger.Category]map[string]Reward

// Lookup returns the reward for an activity.
func (t RewardTable) Lookup(category ledger.Category, id string) (Reward, bool) {
	r, ok := t[category][id]
	return r, ok
}

// File is the on-disk shape of a catalog.
type File struct {
	Events     []model.EventConfig `yaml:"events"`
	Surveys    []Survey            `yaml:"surveys"`
	Polls      []Poll              `yaml:"polls"`
	Sponsors   []Sponsor           `yaml:"sponsors"`
	Challenges []model.Challenge   `yaml:"challenges"`
	Sessions   []Session           `yaml:"sessions"`
}

// Catalog is a validated, indexed File. It is immutable after load.
type Catalog struct {
	file       File
	rewards    RewardTable
	challenges map[string]model.Challenge
	events     map[string]model.EventConfig
}

var _ Provider = (*Catalog)(nil)

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Decode(bytes.NewReader(defaultCatalog))
}

// Load reads and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a YAML catalog. Unknown keys are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	return New(f)
}

// New validates f and builds a Catalog from it.
func New(f File) (*Catalog, error) {
	c := &Catalog{file: f}
	if err := c.build(); err != nil {
		return nil, err
	}
	return c, nil
}

// build validates every entry and indexes the catalog. All problems are
// reported together.
func (c *Catalog) build() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCatalog}, args...)...))
	}

	if len(c.file.Events) == 0 {
		bad("at least one event is required")
	}
	c.events = make(map[string]model.EventConfig, len(c.file.Events))
	for i, ev := range c.file.Events {
		switch {
		case strings.TrimSpace(ev.ID) == "":
			bad("events[%d]: missing id", i)
		case hasKey(c.events, ev.ID):
			bad("events[%d]: duplicate id %q", i, ev.ID)
		default:
			c.events[ev.ID] = ev
		}
	}

	c.rewards = RewardTable{
		ledger.Surveys:  {},
		ledger.Polls:    {},
		ledger.Sponsors: {},
	}
	add := func(cat ledger.Category, i int, id, title string, points int) {
		switch {
		case strings.TrimSpace(id) == "":
			bad("%s[%d]: missing id", cat, i)
		case hasKey(c.rewards[cat], id):
			bad("%s[%d]: duplicate id %q", cat, i, id)
		case points <= 0:
			bad("%s[%d]: reward for %q must be positive, got %d", cat, i, id, points)
		default:
			c.rewards[cat][id] = Reward{Points: points, Label: title}
		}
	}
	for i, s := range c.file.Surveys {
		add(ledger.Surveys, i, s.ID, "Survey: "+s.Title, s.Reward)
	}
	for i, p := range c.file.Polls {
		add(ledger.Polls, i, p.ID, "Poll: "+p.Question, p.Reward)
	}
	for i, s := range c.file.Sponsors {
		add(ledger.Sponsors, i, s.ID, "Visited "+s.Name, s.Reward)
	}

	c.challenges = make(map[string]model.Challenge, len(c.file.Challenges))
	for i, ch := range c.file.Challenges {
		switch {
		case strings.TrimSpace(ch.ID) == "":
			bad("challenges[%d]: missing id", i)
		case hasKey(c.challenges, ch.ID):
			bad("challenges[%d]: duplicate id %q", i, ch.ID)
		case !ch.Type.Valid():
			bad("challenges[%d]: unknown type %q", i, ch.Type)
		case ch.Target <= 0:
			bad("challenges[%d]: target must be positive, got %d", i, ch.Target)
		case ch.RewardPoints <= 0:
			bad("challenges[%d]: reward_points must be positive, got %d", i, ch.RewardPoints)
		default:
			c.challenges[ch.ID] = ch
		}
	}

	seen := make(map[string]struct{}, len(c.file.Sessions))
	for i, s := range c.file.Sessions {
		switch {
		case strings.TrimSpace(s.ID) == "":
			bad("sessions[%d]: missing id", i)
		case hasKey(seen, s.ID):
			bad("sessions[%d]: duplicate id %q", i, s.ID)
		default:
			seen[s.ID] = struct{}{}
		}
	}

	return errors.Join(errs...)
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}

// Rewards returns the validated reward table.
func (c *Catalog) Rewards() RewardTable { return c.rewards }

// Reward returns the reward for a survey, poll or sponsor.
func (c *Catalog) Reward(category ledger.Category, id string) (Reward, error) {
	r, ok := c.rewards.Lookup(category, id)
	if !ok {
		return Reward{}, fmt.Errorf("%w: %s %q", ErrNotFound, category, id)
	}
	return r, nil
}

// Challenge returns one challenge by id.
func (c *Catalog) Challenge(id string) (model.Challenge, error) {
	ch, ok := c.challenges[id]
	if !ok {
		return model.Challenge{}, fmt.Errorf("%w: challenge %q", ErrNotFound, id)
	}
	return ch, nil
}

// Challenges returns all challenges in file order.
func (c *Catalog) Challenges() []model.Challenge {
	return append([]model.Challenge(nil), c.file.Challenges...)
}

// Event returns one event by id.
func (c *Catalog) Event(id string) (model.EventConfig, error) {
	ev, ok := c.events[id]
	if !ok {
		return model.EventConfig{}, fmt.Errorf("%w: event %q", ErrNotFound, id)
	}
	return ev, nil
}

// Events returns all events in file order. The first is the default.
func (c *Catalog) Events() []model.EventConfig {
	return append([]model.EventConfig(nil), c.file.Events...)
}

// Sessions returns all sessions in file order.
func (c *Catalog) Sessions() []Session {
	return append([]Session(nil), c.file.Sessions...)
}

// Surveys returns all surveys in file order.
func (c *Catalog) Surveys() []Survey {
	return append([]Survey(nil), c.file.Surveys...)
}

// Polls returns all polls in file order.
func (c *Catalog) Polls() []Poll {
	return append([]Poll(nil), c.file.Polls...)
}

// Sponsors returns all sponsors in file order.
func (c *Catalog) Sponsors() []Sponsor {
	return append([]Sponsor(nil), c.file.Sponsors...)
}
