package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackzampolin/provlink/internal/coords"
	"github.com/jackzampolin/provlink/internal/displayfield"
	"github.com/jackzampolin/provlink/internal/document"
	"github.com/jackzampolin/provlink/internal/review"
)

// Storage backends.
const (
	StorageHTTP = "http"
	StorageDir  = "dir"
)

// Config holds provlink configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server      ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage     StorageConfig `mapstructure:"storage" yaml:"storage"`
	Cache       CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Viewer      ViewerConfig  `mapstructure:"viewer" yaml:"viewer"`
	FormSchemas []FormSchema  `mapstructure:"form_schemas" yaml:"form_schemas"`
}

// FormSchema lists the fields shown for a form type, in display order.
// A list rather than a map: viper lowercases map keys and form types are case-sensitive.
type FormSchema struct {
	FormType string                  `mapstructure:"form_type" yaml:"form_type"`
	Fields   []displayfield.FieldDef `mapstructure:"fields" yaml:"fields"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               string `mapstructure:"port" yaml:"port"`
	LoadTimeoutSeconds int    `mapstructure:"load_timeout_seconds" yaml:"load_timeout_seconds"` // Per document load, 0 = none
}

// StorageConfig selects where documents and provenance come from.
type StorageConfig struct {
	Type           string  `mapstructure:"type" yaml:"type"`                       // "http" or "dir"
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`               // Storage service root (http)
	Token          string  `mapstructure:"token" yaml:"token"`                     // Bearer token (supports ${ENV_VAR} syntax)
	Dir            string  `mapstructure:"dir" yaml:"dir"`                         // Home directory to read documents from (dir); empty = --home
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Per request
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`         // Extra attempts for transient failures
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit"`           // Requests per second, 0 = unlimited
}

// CacheConfig configures the optional Redis document cache.
type CacheConfig struct {
	RedisURL   string `mapstructure:"redis_url" yaml:"redis_url"` // Empty disables the cache (supports ${ENV_VAR} syntax)
	TTLSeconds int    `mapstructure:"ttl_seconds" yaml:"ttl_seconds"`
}

// ViewerConfig holds overlay presentation settings. Changes apply to open sessions.
type ViewerConfig struct {
	TooltipWidth  float64 `mapstructure:"tooltip_width" yaml:"tooltip_width"`
	TooltipHeight float64 `mapstructure:"tooltip_height" yaml:"tooltip_height"`
	TooltipOffset float64 `mapstructure:"tooltip_offset" yaml:"tooltip_offset"`
	MinMargin     float64 `mapstructure:"min_margin" yaml:"min_margin"`
	MarkerSize    float64 `mapstructure:"marker_size" yaml:"marker_size"`
	ReducedMotion bool    `mapstructure:"reduced_motion" yaml:"reduced_motion"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               "8080",
			LoadTimeoutSeconds: 120,
		},
		Storage: StorageConfig{
			Type:           StorageDir,
			BaseURL:        "",
			Token:          "${PROVLINK_STORAGE_TOKEN}",
			TimeoutSeconds: 30,
			MaxRetries:     2,
			RateLimit:      10,
		},
		Cache: CacheConfig{
			TTLSeconds: 600,
		},
		Viewer: ViewerConfig{
			TooltipWidth:  coords.DefaultTooltip.Width,
			TooltipHeight: coords.DefaultTooltip.Height,
			TooltipOffset: coords.DefaultTooltip.Offset,
			MinMargin:     coords.DefaultTooltip.MinMargin,
			MarkerSize:    10,
		},
		FormSchemas: []FormSchema{{
			FormType: "W-2",
			Fields: []displayfield.FieldDef{
				{Name: "employerName", Label: "Employer name"},
				{Name: "federalWages", Label: "Box 1: Wages, tips, other compensation"},
				{Name: "federalTaxWithheld", Label: "Box 2: Federal income tax withheld"},
				{Name: "socialSecurityWages", Label: "Box 3: Social security wages"},
				{Name: "medicareWages", Label: "Box 5: Medicare wages and tips"},
				{Name: "stateWages", Label: "Box 16: State wages, tips, etc."},
			},
		}},
	}
}

// Validate checks settings that would otherwise fail later at first use.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageHTTP:
		if c.Storage.BaseURL == "" {
			return errors.New("storage.base_url is required for http storage")
		}
	case StorageDir:
	default:
		return fmt.Errorf("unknown storage.type %q (want %q or %q)", c.Storage.Type, StorageHTTP, StorageDir)
	}
	seen := make(map[string]bool, len(c.FormSchemas))
	for _, fs := range c.FormSchemas {
		if fs.FormType == "" {
			return errors.New("form_schemas entry is missing form_type")
		}
		if seen[fs.FormType] {
			return fmt.Errorf("duplicate form schema for %q", fs.FormType)
		}
		seen[fs.FormType] = true
	}
	if c.Viewer.TooltipWidth < 0 || c.Viewer.TooltipHeight < 0 || c.Viewer.MarkerSize < 0 {
		return errors.New("viewer sizes must not be negative")
	}
	return nil
}

// ToHTTPConfig converts storage settings for document.NewHTTPFetcher.
// It resolves ${ENV_VAR} references in the token.
func (c *Config) ToHTTPConfig() document.HTTPConfig {
	return document.HTTPConfig{
		BaseURL:    c.Storage.BaseURL,
		Token:      ResolveEnvVars(c.Storage.Token),
		Timeout:    time.Duration(c.Storage.TimeoutSeconds) * time.Second,
		MaxRetries: c.Storage.MaxRetries,
		RateLimit:  c.Storage.RateLimit,
	}
}

// ToReviewViewer converts viewer settings and form schemas for review sessions.
func (c *Config) ToReviewViewer() review.Viewer {
	return review.Viewer{
		Tooltip: coords.TooltipOptions{
			Width:     c.Viewer.TooltipWidth,
			Height:    c.Viewer.TooltipHeight,
			Offset:    c.Viewer.TooltipOffset,
			MinMargin: c.Viewer.MinMargin,
		},
		MarkerSize:    c.Viewer.MarkerSize,
		ReducedMotion: c.Viewer.ReducedMotion,
		Schema:        c.Schema(),
	}
}

// Schema returns the form schemas keyed by form type.
func (c *Config) Schema() displayfield.Schema {
	schema := make(displayfield.Schema, len(c.FormSchemas))
	for _, fs := range c.FormSchemas {
		schema[fs.FormType] = fs.Fields
	}
	return schema
}

// LoadTimeout returns the per-load timeout.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.Server.LoadTimeoutSeconds) * time.Second
}

// CacheTTL returns the document cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
