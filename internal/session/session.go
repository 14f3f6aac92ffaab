// Package session drives one TCP connection through the stream
// handshake and the steady-state dispatch loop (spec.md §4.6, §5).
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/dantte-lp/gowa/internal/dispatch"
	wametrics "github.com/dantte-lp/gowa/internal/metrics"
	"github.com/dantte-lp/gowa/internal/stanza"
	"github.com/dantte-lp/gowa/internal/wacrypto"
	"github.com/dantte-lp/gowa/internal/wire"
)

// pollTimeout is the socket read deadline applied on every ServiceLoop
// iteration (spec.md §5: "the only blocking/suspension points are the
// socket poll (with TIMEOUT = 100 ms)").
const pollTimeout = 100 * time.Millisecond

// AliveInterval is the keep-alive period: a presence "active" is sent
// after this much time with no outbound traffic (spec.md §4.6).
const AliveInterval = 30 * time.Second

// Config carries everything a Session needs to dial and authenticate.
type Config struct {
	Host     string
	Port     string
	Phone    string
	Secret   []byte
	Nickname string
	Device   string
	Version  string

	DialAttempts int
	DialBackoff  time.Duration

	AutoReceipt ReceiptPolicy

	Logger  *slog.Logger
	Metrics *wametrics.Collector
}

// ReceiptPolicy selects how inbound receipt requests are answered
// (spec.md §4.6).
type ReceiptPolicy uint8

const (
	// ReceiptNone sends neither form of acknowledgement.
	ReceiptNone ReceiptPolicy = iota

	// ReceiptLegacy replies with a <message><received/></message>.
	ReceiptLegacy

	// ReceiptCurrent replies with <receipt type="read"/>.
	ReceiptCurrent
)

// AccountInfo holds the attributes the server returns on the success
// stanza (spec.md §4.6, supplemented per kind/status/creation/expiration
// accessors).
type AccountInfo map[string]string

// Kind returns the "kind" attribute (e.g. "paid", "free").
func (a AccountInfo) Kind() string { return a["kind"] }

// Status returns the "status" attribute (e.g. "active").
func (a AccountInfo) Status() string { return a["status"] }

// CreatedAt parses the "creation" attribute as Unix seconds. Zero if
// absent or unparsable.
func (a AccountInfo) CreatedAt() time.Time {
	return parseUnixSeconds(a["creation"])
}

// ExpiresAt parses the "expiration" attribute as Unix seconds. Zero if
// absent or unparsable.
func (a AccountInfo) ExpiresAt() time.Time {
	return parseUnixSeconds(a["expiration"])
}

func parseUnixSeconds(s string) time.Time {
	var secs int64
	if _, err := fmt.Sscanf(s, "%d", &secs); err != nil {
		return time.Time{}
	}

	return time.Unix(secs, 0).UTC()
}

// Session owns the single TCP connection, wire codec, frame cipher, and
// callback registry for one authenticated chat connection. It is not
// safe for concurrent use: one goroutine drives ServiceLoop and calls
// Send (spec.md §5).
type Session struct {
	cfg    Config
	logger *slog.Logger

	conn   net.Conn
	reader *wire.Reader
	cipher *wacrypto.Cipher

	state       State
	account     AccountInfo
	lastSendAt  time.Time
	challenge   []byte

	msgIDs msgIDCounter

	Registry *dispatch.Registry
}

// New returns an unconnected Session. Dial must be called before any
// send operation.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "session")),
		reader:   wire.NewReader(),
		state:    StateClosed,
		Registry: dispatch.NewRegistry(),
	}
}

// State returns the current handshake FSM state.
func (s *Session) State() State {
	return s.state
}

// Account returns the attributes from the success stanza. Empty before
// authentication completes.
func (s *Session) Account() AccountInfo {
	return s.account
}

// transition applies event to the FSM and logs a state change.
func (s *Session) transition(event Event) Result {
	result := ApplyEvent(s.state, event)
	s.state = result.NewState

	if result.Changed {
		s.logger.Debug("state transition",
			slog.String("from", result.OldState.String()),
			slog.String("to", result.NewState.String()),
			slog.String("event", event.String()))

		if s.cfg.Metrics != nil {
			s.cfg.Metrics.RecordStateTransition(result.OldState.String(), result.NewState.String())
			s.cfg.Metrics.SetUp(result.NewState == StateSteady)
		}
	}

	return result
}

// Dial opens the TCP connection and runs the handshake through to
// Steady. It retries up to cfg.DialAttempts times on connect failure,
// waiting cfg.DialBackoff between attempts (spec.md §4.6 step 1;
// retry shape follows SPEC_FULL.md's supplemented-features section).
func (s *Session) Dial(ctx context.Context) error {
	attempts := s.cfg.DialAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return newConnectionError("dial cancelled: %w", ctx.Err())
			case <-time.After(s.cfg.DialBackoff):
			}
		}

		conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", net.JoinHostPort(s.cfg.Host, s.cfg.Port))
		if err != nil {
			lastErr = err
			s.logger.Warn("dial attempt failed", slog.Int("attempt", i+1), slog.Any("error", err))

			continue
		}

		s.conn = conn
		s.transition(EventDialed)

		return s.handshake()
	}

	s.transition(EventFailure)

	return newConnectionError("dial %s after %d attempts: %w", net.JoinHostPort(s.cfg.Host, s.cfg.Port), attempts, lastErr)
}

// Close closes the underlying socket, if any, and moves the FSM to
// Closed.
func (s *Session) Close() error {
	s.transition(EventClosed)

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil

	return err
}

// Send encodes n and writes it as a frame, encrypting once the session
// is authenticated. It updates lastSendAt for the keep-alive timer.
func (s *Session) Send(n *stanza.Node) error {
	payload := wire.EncodeNode(n)

	encrypted := s.cipher != nil && s.state != StateChallenging
	if encrypted {
		payload = s.cipher.Encrypt(payload)
	}

	frame, err := wire.EncodeFrame(payload, encrypted)
	if err != nil {
		return err
	}

	if _, err := s.conn.Write(frame); err != nil {
		return newConnectionError("write: %w", err)
	}

	s.lastSendAt = time.Now()

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.IncStanzaSent(n.Name)
	}

	return nil
}
