package model

import "time"

// EventConfig identifies the active conference event.
type EventConfig struct {
	ID      string          `json:"id" yaml:"id"`
	Name    string          `json:"name" yaml:"name"`
	Venue   string          `json:"venue,omitempty" yaml:"venue"`
	Modules map[string]bool `json:"modules,omitempty" yaml:"modules"`
}

// ModuleEnabled reports whether a feature module is switched on for the event.
// Events that declare no modules enable everything.
func (c EventConfig) ModuleEnabled(name string) bool {
	if len(c.Modules) == 0 {
		return true
	}
	return c.Modules[name]
}

// PointEvent records a single successful point award. Never mutated.
type PointEvent struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Points int       `json:"points"`
	At     time.Time `json:"at"`
}
