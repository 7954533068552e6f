// Package config loads chat-sentry configuration from environment
// variables, applies defaults, and validates the result.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Transport selects the chat transport implementation.
	Transport string `koanf:"transport" validate:"required,oneof=console discord"`

	// OpsAddr is the listen address for the ops HTTP server (health, stats,
	// metrics). Empty disables the server.
	OpsAddr string `koanf:"ops_addr"`

	// HelpChannels lists the channel ids that receive sticky handling.
	HelpChannels []string `koanf:"help_channels"`

	// StickyText is the body of the sticky message reposted in help channels.
	StickyText string `koanf:"sticky_text" validate:"required"`

	// StickyIdleSeconds is how long a help channel must be quiet before the
	// sticky is reposted. The boundary is inclusive.
	StickyIdleSeconds int `koanf:"sticky_idle_seconds" validate:"required,gte=1"`

	// StickyPollSeconds is the background poll interval for quiet channels.
	StickyPollSeconds int `koanf:"sticky_poll_seconds" validate:"required,gte=1"`

	// BlocklistPath is the local blocklist file, seeded at startup and
	// atomically replaced by each successful download.
	BlocklistPath string `koanf:"blocklist_path" validate:"required"`

	// BlocklistURL is the remote feed the refresher downloads. Empty
	// disables link blocking and the refresher entirely; the sticky
	// controller keeps running.
	BlocklistURL string `koanf:"blocklist_url" validate:"omitempty,url"`

	// RefreshSeconds is the period between blocklist downloads.
	RefreshSeconds int `koanf:"refresh_seconds" validate:"required,gte=60"`

	// FetchTimeoutSeconds bounds a single download attempt.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds" validate:"required,gte=1"`

	// MatchMode is the blocklist matching policy: "exact" or "domain".
	MatchMode string `koanf:"match_mode" validate:"required,oneof=exact domain"`

	// CacheSize is the verdict cache capacity. Zero disables the cache.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// BloomFPRate is the target false-positive rate for the Bloom filter.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// ReplyRateHelp is the cosmetic reply probability inside help channels.
	ReplyRateHelp float64 `koanf:"reply_rate_help" validate:"gte=0,lte=1"`

	// ReplyRate is the cosmetic reply probability everywhere else.
	ReplyRate float64 `koanf:"reply_rate" validate:"gte=0,lte=1"`
}

// StickyIdle returns the quiet threshold as a duration.
func (c *AppConfig) StickyIdle() time.Duration {
	return time.Duration(c.StickyIdleSeconds) * time.Second
}

// StickyPoll returns the background poll interval as a duration.
func (c *AppConfig) StickyPoll() time.Duration {
	return time.Duration(c.StickyPollSeconds) * time.Second
}

// RefreshPeriod returns the blocklist refresh period as a duration.
func (c *AppConfig) RefreshPeriod() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// FetchTimeout returns the per-download timeout as a duration.
func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// IsHelpChannel reports whether the given channel id receives sticky handling.
func (c *AppConfig) IsHelpChannel(channelID string) bool {
	for _, id := range c.HelpChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// DEFAULT_APP_CONFIG defines the default application configuration. The
// sticky timings and reply rates mirror the deployment this service was
// built for; every value can be overridden through the environment.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                 "prod",
	LogLevel:            "info",
	Transport:           "console",
	OpsAddr:             "",
	HelpChannels:        nil,
	StickyText:          "Before asking a question, check the pins and recent messages in this channel.",
	StickyIdleSeconds:   120,
	StickyPollSeconds:   10,
	BlocklistPath:       "blocklist.txt",
	BlocklistURL:        "https://phish.co.za/latest/phishing-links-ACTIVE.txt",
	RefreshSeconds:      86400,
	FetchTimeoutSeconds: 60,
	MatchMode:           "domain",
	CacheSize:           1024,
	BloomFPRate:         0.01,
	ReplyRateHelp:       0.0001,
	ReplyRate:           0.001,
}

// envLoader loads environment variables with the prefix "SENTRY_". Keys are
// lowercased with the prefix removed; values containing spaces or commas are
// split into lists so HELP_CHANNELS can carry multiple ids.
// It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "SENTRY_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "SENTRY_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into the provided koanf instance.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
