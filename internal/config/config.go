// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Keys are flat snake_case names shared by YAML files and env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/rugbylens/internal/domain/filter"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the multipart body of one upload request.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxFiles caps the number of files in one upload.
	MaxFiles int `koanf:"max_files"`

	// SessionTTL expires sessions idle for longer. Zero disables expiry.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// MaxSessions caps live sessions; the least recently used is evicted.
	MaxSessions int `koanf:"max_sessions"`

	// UploadRate and UploadBurst configure the upload token bucket.
	UploadRate  float64 `koanf:"upload_rate"`
	UploadBurst int     `koanf:"upload_burst"`

	// DefaultBandwidth is the density bandwidth used when a request omits it.
	DefaultBandwidth float64 `koanf:"default_bandwidth"`

	// DensityStep is the density grid cell size in field units.
	DensityStep float64 `koanf:"density_step"`

	// OverviewRows is how many leading rows the overview returns.
	OverviewRows int `koanf:"overview_rows"`

	// ChartWidth and ChartHeight size the rendered chart page.
	ChartWidth  string `koanf:"chart_width"`
	ChartHeight string `koanf:"chart_height"`

	// ExcludedActions and ActionPriority shape the selectable action list.
	ExcludedActions []string `koanf:"excluded_actions"`
	ActionPriority  []string `koanf:"action_priority"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		MaxUploadBytes:   32 << 20,
		MaxFiles:         20,
		SessionTTL:       2 * time.Hour,
		MaxSessions:      64,
		UploadRate:       2,
		UploadBurst:      5,
		DefaultBandwidth: filter.DefaultBandwidth,
		DensityStep:      2,
		OverviewRows:     20,
		ChartWidth:       "1200px",
		ChartHeight:      "800px",
		ExcludedActions:  filter.DefaultExcludedActions(),
		ActionPriority:   filter.DefaultActionPriority(),
	}
}

// Catalog returns the action catalog described by the config.
func (c *Config) Catalog() filter.Catalog {
	return filter.Catalog{Excluded: c.ExcludedActions, Priority: c.ActionPriority}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Addr == "" {
		add("addr must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		add("log_format %q must be text or json", c.LogFormat)
	}
	if c.MaxUploadBytes <= 0 {
		add("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxFiles <= 0 {
		add("max_files must be positive, got %d", c.MaxFiles)
	}
	if c.SessionTTL < 0 {
		add("session_ttl must not be negative, got %s", c.SessionTTL)
	}
	if c.MaxSessions < 0 {
		add("max_sessions must not be negative, got %d", c.MaxSessions)
	}
	if c.UploadRate <= 0 || c.UploadBurst <= 0 {
		add("upload_rate and upload_burst must be positive")
	}
	if c.DefaultBandwidth < filter.MinBandwidth || c.DefaultBandwidth > filter.MaxBandwidth {
		add("default_bandwidth %.2f outside [%.1f, %.1f]", c.DefaultBandwidth, filter.MinBandwidth, filter.MaxBandwidth)
	}
	if c.DensityStep <= 0 {
		add("density_step must be positive")
	}
	if c.OverviewRows <= 0 {
		add("overview_rows must be positive")
	}
	if len(c.ActionPriority) == 0 {
		add("action_priority must not be empty")
	}
	return result.ErrorOrNil()
}
