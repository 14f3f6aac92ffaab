package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dantte-lp/gowa/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if cfg.Chat.Host != "c.whatsapp.net" {
		t.Errorf("Chat.Host = %q, want %q", cfg.Chat.Host, "c.whatsapp.net")
	}

	if cfg.Chat.Port != "443" {
		t.Errorf("Chat.Port = %q, want %q", cfg.Chat.Port, "443")
	}

	if cfg.Chat.DialAttempts != 3 {
		t.Errorf("Chat.DialAttempts = %d, want %d", cfg.Chat.DialAttempts, 3)
	}

	if cfg.Chat.DialBackoff != 2*time.Second {
		t.Errorf("Chat.DialBackoff = %v, want %v", cfg.Chat.DialBackoff, 2*time.Second)
	}

	if cfg.Chat.AutoReceipt != "none" {
		t.Errorf("Chat.AutoReceipt = %q, want %q", cfg.Chat.AutoReceipt, "none")
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}

	// Defaults plus an account still need to pass validation.
	cfg.Account.Number = "15551234567"
	cfg.Account.SecretBase64 = "c2VjcmV0"

	if err := config.Validate(cfg); err != nil {
		t.Errorf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
account:
  number: "15551234567"
  secret: "c2VjcmV0"
  nickname: "tester"
chat:
  host: "c2.whatsapp.net"
  port: "5222"
  dial_attempts: 5
  dial_backoff: "1s"
  auto_receipt: "legacy"
metrics:
  addr: ":9200"
  path: "/custom-metrics"
log:
  level: "debug"
  format: "text"
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Account.Number != "15551234567" {
		t.Errorf("Account.Number = %q, want %q", cfg.Account.Number, "15551234567")
	}

	if cfg.Account.Nickname != "tester" {
		t.Errorf("Account.Nickname = %q, want %q", cfg.Account.Nickname, "tester")
	}

	secret, err := cfg.Account.Secret()
	if err != nil {
		t.Fatalf("Account.Secret() error: %v", err)
	}

	if string(secret) != "secret" {
		t.Errorf("Account.Secret() = %q, want %q", secret, "secret")
	}

	if cfg.Chat.Host != "c2.whatsapp.net" {
		t.Errorf("Chat.Host = %q, want %q", cfg.Chat.Host, "c2.whatsapp.net")
	}

	if cfg.Chat.Port != "5222" {
		t.Errorf("Chat.Port = %q, want %q", cfg.Chat.Port, "5222")
	}

	if cfg.Chat.DialAttempts != 5 {
		t.Errorf("Chat.DialAttempts = %d, want %d", cfg.Chat.DialAttempts, 5)
	}

	if cfg.Chat.DialBackoff != time.Second {
		t.Errorf("Chat.DialBackoff = %v, want %v", cfg.Chat.DialBackoff, time.Second)
	}

	if cfg.Chat.AutoReceipt != "legacy" {
		t.Errorf("Chat.AutoReceipt = %q, want %q", cfg.Chat.AutoReceipt, "legacy")
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9200")
	}

	if cfg.Metrics.Path != "/custom-metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/custom-metrics")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Parallel()

	// Partial YAML: only the account and log level are set. Everything
	// else should inherit from defaults.
	yamlContent := `
account:
  number: "15551234567"
  secret: "c2VjcmV0"
log:
  level: "warn"
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}

	// Default values should be preserved.
	if cfg.Chat.Host != "c.whatsapp.net" {
		t.Errorf("Chat.Host = %q, want default %q", cfg.Chat.Host, "c.whatsapp.net")
	}

	if cfg.Chat.Port != "443" {
		t.Errorf("Chat.Port = %q, want default %q", cfg.Chat.Port, "443")
	}

	if cfg.Chat.DialAttempts != 3 {
		t.Errorf("Chat.DialAttempts = %d, want default %d", cfg.Chat.DialAttempts, 3)
	}

	if cfg.Chat.AutoReceipt != "none" {
		t.Errorf("Chat.AutoReceipt = %q, want default %q", cfg.Chat.AutoReceipt, "none")
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want default %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want default %q", cfg.Log.Format, "json")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	base := func() *config.Config {
		cfg := config.DefaultConfig()
		cfg.Account.Number = "15551234567"
		cfg.Account.SecretBase64 = "c2VjcmV0"

		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name: "empty account number",
			modify: func(cfg *config.Config) {
				cfg.Account.Number = ""
			},
			wantErr: config.ErrEmptyAccountNumber,
		},
		{
			name: "empty account secret",
			modify: func(cfg *config.Config) {
				cfg.Account.SecretBase64 = ""
			},
			wantErr: config.ErrEmptyAccountSecret,
		},
		{
			name: "zero dial attempts",
			modify: func(cfg *config.Config) {
				cfg.Chat.DialAttempts = 0
			},
			wantErr: config.ErrInvalidDialAttempts,
		},
		{
			name: "negative dial attempts",
			modify: func(cfg *config.Config) {
				cfg.Chat.DialAttempts = -1
			},
			wantErr: config.ErrInvalidDialAttempts,
		},
		{
			name: "unrecognized auto receipt",
			modify: func(cfg *config.Config) {
				cfg.Chat.AutoReceipt = "sometimes"
			},
			wantErr: config.ErrInvalidAutoReceipt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := base()
			tt.modify(cfg)

			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "INFO", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "WARN", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "Error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := config.ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Fatal("Load() returned nil error for nonexistent file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GOWA_ACCOUNT_NUMBER", "15557654321")
	t.Setenv("GOWA_ACCOUNT_SECRET", "c2VjcmV0")
	t.Setenv("GOWA_CHAT_HOST", "env.whatsapp.net")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Account.Number != "15557654321" {
		t.Errorf("Account.Number = %q, want %q", cfg.Account.Number, "15557654321")
	}

	if cfg.Chat.Host != "env.whatsapp.net" {
		t.Errorf("Chat.Host = %q, want %q", cfg.Chat.Host, "env.whatsapp.net")
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "gowa.yml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
