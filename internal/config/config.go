// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig; read errors wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/engage/internal/domain/engagement"
	"github.com/okian/engage/internal/domain/tier"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a YAML catalog. Empty uses the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// NotificationQueueSize bounds each notification sink's queue.
	NotificationQueueSize int `koanf:"notification_queue_size"`

	// InboxSize caps how many recent notifications each user keeps.
	InboxSize int `koanf:"inbox_size"`

	// PointsPolicy decides what happens to points on event switch: reset or per_event.
	PointsPolicy string `koanf:"points_policy"`

	// Tiers overrides the default tier table when non-empty.
	Tiers []tier.Tier `koanf:"tiers"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		NotificationQueueSize: 1024,
		InboxSize:             50,
		PointsPolicy:          "reset",
	}
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.NotificationQueueSize <= 0 {
		return fmt.Errorf("%w: notification_queue_size must be positive", ErrInvalidConfig)
	}
	if c.InboxSize <= 0 {
		return fmt.Errorf("%w: inbox_size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.TierTable(); err != nil {
		return err
	}
	return nil
}

// Policy resolves PointsPolicy.
func (c *Config) Policy() (engagement.PointsPolicy, error) {
	p, ok := engagement.PolicyByName(strings.ToLower(strings.TrimSpace(c.PointsPolicy)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown points_policy %q", ErrInvalidConfig, c.PointsPolicy)
	}
	return p, nil
}

// TierTable builds the configured tier table, or the default one.
func (c *Config) TierTable() (tier.Table, error) {
	if len(c.Tiers) == 0 {
		return tier.Default(), nil
	}
	t, err := tier.New(c.Tiers...)
	if err != nil {
		return tier.Table{}, fmt.Errorf("%w: tiers: %w", ErrInvalidConfig, err)
	}
	return t, nil
}
