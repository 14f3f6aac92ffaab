package gowa

import (
	"io"
	"log/slog"
	"time"

	wametrics "github.com/dantte-lp/gowa/internal/metrics"
	"github.com/dantte-lp/gowa/internal/session"
)

// defaultHost and defaultPort are the primary transport endpoint
// (spec.md §6); WithPort can override the port to fall back to 5222.
const (
	defaultHost = "c.whatsapp.net"
	defaultPort = "443"

	defaultDialAttempts = 3
	defaultDialBackoff  = 2 * time.Second
)

// Option configures a Client at construction time.
type Option func(*config)

type config struct {
	host    string
	port    string
	device  string
	version string

	dialAttempts int
	dialBackoff  time.Duration

	autoReceipt session.ReceiptPolicy

	logger  *slog.Logger
	trace   io.Writer
	metrics *wametrics.Collector
}

func newConfig() *config {
	return &config{
		host:         defaultHost,
		port:         defaultPort,
		device:       "gowa",
		version:      "1.0",
		dialAttempts: defaultDialAttempts,
		dialBackoff:  defaultDialBackoff,
		autoReceipt:  session.ReceiptNone,
	}
}

// WithHost overrides the chat server host. Defaults to c.whatsapp.net.
func WithHost(host string) Option {
	return func(c *config) { c.host = host }
}

// WithPort overrides the chat server port. Defaults to "443"; the
// documented fallback is "5222".
func WithPort(port string) Option {
	return func(c *config) { c.port = port }
}

// WithDevice sets the device/version strings reported in the stream
// prologue resource attribute.
func WithDevice(device, version string) Option {
	return func(c *config) {
		c.device = device
		c.version = version
	}
}

// WithDialRetry sets the number of connect attempts and the fixed delay
// between them. This is a fixed-attempts retry, not exponential backoff
// with jitter (see SPEC_FULL.md §6).
func WithDialRetry(attempts int, backoff time.Duration) Option {
	return func(c *config) {
		c.dialAttempts = attempts
		c.dialBackoff = backoff
	}
}

// WithLogger overrides the default slog.Logger used for session
// diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithAutoReceiptLegacy replies to receipt requests with the legacy
// <message><received/></message> form.
func WithAutoReceiptLegacy() Option {
	return func(c *config) { c.autoReceipt = session.ReceiptLegacy }
}

// WithAutoReceiptCurrent replies to receipt requests with
// <receipt type="read"/>.
func WithAutoReceiptCurrent() Option {
	return func(c *config) { c.autoReceipt = session.ReceiptCurrent }
}

// WithWireTrace records w as the client's wire-trace sink. Dial does not
// pass the sink on to the session, so nothing is written to w.
func WithWireTrace(w io.Writer) Option {
	return func(c *config) { c.trace = w }
}

// WithMetrics attaches a Prometheus collector that the session updates
// as it sends/receives stanzas, transitions state, and fails auth. Off
// by default.
func WithMetrics(collector *wametrics.Collector) Option {
	return func(c *config) { c.metrics = collector }
}
