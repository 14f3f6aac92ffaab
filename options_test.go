package gowa

import (
	"testing"
	"time"

	"github.com/dantte-lp/gowa/internal/session"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	if cfg.host != defaultHost {
		t.Errorf("host = %q, want %q", cfg.host, defaultHost)
	}

	if cfg.port != defaultPort {
		t.Errorf("port = %q, want %q", cfg.port, defaultPort)
	}

	if cfg.dialAttempts != defaultDialAttempts {
		t.Errorf("dialAttempts = %d, want %d", cfg.dialAttempts, defaultDialAttempts)
	}

	if cfg.dialBackoff != defaultDialBackoff {
		t.Errorf("dialBackoff = %v, want %v", cfg.dialBackoff, defaultDialBackoff)
	}

	if cfg.autoReceipt != session.ReceiptNone {
		t.Errorf("autoReceipt = %v, want %v", cfg.autoReceipt, session.ReceiptNone)
	}
}

func TestOptionsApply(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	opts := []Option{
		WithHost("example.org"),
		WithPort("5222"),
		WithDevice("mydevice", "2.0"),
		WithDialRetry(7, 3*time.Second),
		WithAutoReceiptLegacy(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.host != "example.org" {
		t.Errorf("host = %q, want %q", cfg.host, "example.org")
	}

	if cfg.port != "5222" {
		t.Errorf("port = %q, want %q", cfg.port, "5222")
	}

	if cfg.device != "mydevice" || cfg.version != "2.0" {
		t.Errorf("device/version = %q/%q, want %q/%q", cfg.device, cfg.version, "mydevice", "2.0")
	}

	if cfg.dialAttempts != 7 || cfg.dialBackoff != 3*time.Second {
		t.Errorf("dialAttempts/dialBackoff = %d/%v, want %d/%v", cfg.dialAttempts, cfg.dialBackoff, 7, 3*time.Second)
	}

	if cfg.autoReceipt != session.ReceiptLegacy {
		t.Errorf("autoReceipt = %v, want %v", cfg.autoReceipt, session.ReceiptLegacy)
	}
}

func TestWithAutoReceiptCurrent(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	WithAutoReceiptCurrent()(cfg)

	if cfg.autoReceipt != session.ReceiptCurrent {
		t.Errorf("autoReceipt = %v, want %v", cfg.autoReceipt, session.ReceiptCurrent)
	}
}

func TestWithMetrics(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	if cfg.metrics != nil {
		t.Fatal("metrics should be nil by default")
	}

	collector := testCollector(t)
	WithMetrics(collector)(cfg)

	if cfg.metrics != collector {
		t.Error("WithMetrics did not set the collector")
	}
}
