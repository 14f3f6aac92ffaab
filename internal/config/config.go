// Package config manages the gowa CLI's configuration using koanf/v2.
//
// Supports YAML files, environment variables, and the DefaultConfig
// fallback.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete gowa CLI configuration.
type Config struct {
	Account Account       `koanf:"account"`
	Chat    ChatConfig    `koanf:"chat"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
}

// Account holds the credentials used to authenticate (spec.md §6).
type Account struct {
	// Number is the phone number, decimal ASCII, no leading "+".
	Number string `koanf:"number"`

	// SecretBase64 is the 20-byte shared secret, base64-encoded.
	SecretBase64 string `koanf:"secret"`

	// Nickname is the display name sent on the post-auth presence
	// stanza.
	Nickname string `koanf:"nickname"`
}

// Secret decodes SecretBase64 into the raw shared secret bytes.
func (a Account) Secret() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.SecretBase64)
	if err != nil {
		return nil, fmt.Errorf("decode account secret: %w", err)
	}

	return raw, nil
}

// ChatConfig holds the transport and handshake parameters.
type ChatConfig struct {
	// Host is the chat server host (spec.md §6, default c.whatsapp.net).
	Host string `koanf:"host"`

	// Port is the chat server port ("443" primary, "5222" documented
	// fallback).
	Port string `koanf:"port"`

	// Device and Version identify the client build in the stream
	// prologue resource attribute.
	Device  string `koanf:"device"`
	Version string `koanf:"version"`

	// DialAttempts and DialBackoff control connect retry.
	DialAttempts int           `koanf:"dial_attempts"`
	DialBackoff  time.Duration `koanf:"dial_backoff"`

	// AutoReceipt selects the receipt policy: "none", "legacy", or
	// "current".
	AutoReceipt string `koanf:"auto_receipt"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with the documented
// defaults (spec.md §6).
func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			Host:         "c.whatsapp.net",
			Port:         "443",
			Device:       "gowa",
			Version:      "1.0",
			DialAttempts: 3,
			DialBackoff:  2 * time.Second,
			AutoReceipt:  "none",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for gowa configuration.
// Variables are named GOWA_<section>_<key>, e.g., GOWA_CHAT_HOST.
const envPrefix = "GOWA_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (GOWA_ prefix), and merges on top of DefaultConfig().
// Missing fields inherit defaults. path may be empty, in which case only
// defaults and env apply.
//
// Environment variable mapping:
//
//	GOWA_ACCOUNT_NUMBER -> account.number
//	GOWA_ACCOUNT_SECRET -> account.secret
//	GOWA_CHAT_HOST      -> chat.host
//	GOWA_LOG_LEVEL      -> log.level
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// envKeyMapper transforms GOWA_CHAT_HOST -> chat.host.
// Strips the GOWA_ prefix, lowercases, and replaces _ with .
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)

	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"chat.host":          defaults.Chat.Host,
		"chat.port":          defaults.Chat.Port,
		"chat.device":        defaults.Chat.Device,
		"chat.version":       defaults.Chat.Version,
		"chat.dial_attempts": defaults.Chat.DialAttempts,
		"chat.dial_backoff":  defaults.Chat.DialBackoff.String(),
		"chat.auto_receipt":  defaults.Chat.AutoReceipt,
		"metrics.addr":       defaults.Metrics.Addr,
		"metrics.path":       defaults.Metrics.Path,
		"log.level":          defaults.Log.Level,
		"log.format":         defaults.Log.Format,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyAccountNumber indicates account.number is unset.
	ErrEmptyAccountNumber = errors.New("account.number must not be empty")

	// ErrEmptyAccountSecret indicates account.secret is unset.
	ErrEmptyAccountSecret = errors.New("account.secret must not be empty")

	// ErrInvalidDialAttempts indicates chat.dial_attempts is less than 1.
	ErrInvalidDialAttempts = errors.New("chat.dial_attempts must be >= 1")

	// ErrInvalidAutoReceipt indicates chat.auto_receipt is not a
	// recognized value.
	ErrInvalidAutoReceipt = errors.New("chat.auto_receipt must be none, legacy, or current")
)

// ValidAutoReceiptValues lists the recognized chat.auto_receipt strings.
var ValidAutoReceiptValues = map[string]bool{
	"none":    true,
	"legacy":  true,
	"current": true,
}

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Account.Number == "" {
		return ErrEmptyAccountNumber
	}

	if cfg.Account.SecretBase64 == "" {
		return ErrEmptyAccountSecret
	}

	if cfg.Chat.DialAttempts < 1 {
		return ErrInvalidDialAttempts
	}

	if !ValidAutoReceiptValues[cfg.Chat.AutoReceipt] {
		return fmt.Errorf("%q: %w", cfg.Chat.AutoReceipt, ErrInvalidAutoReceipt)
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
