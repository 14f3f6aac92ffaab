package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dantte-lp/gowa/internal/stanza"
	"github.com/dantte-lp/gowa/internal/wacrypto"
	"github.com/dantte-lp/gowa/internal/wire"
)

// waAuthMechanism is the SASL-like mechanism name advertised by the
// client (spec.md §4.6, GLOSSARY: WAUTH-2).
const waAuthMechanism = "WAUTH-2"

// handshake drives the session from Connecting through Steady: stream
// prologue, auth stanza, challenge/response, and success/failure
// (spec.md §4.6 steps 2-4). Dial calls this immediately after a
// successful TCP connect.
func (s *Session) handshake() error {
	resource := fmt.Sprintf("%s-%s-%s", s.cfg.Device, s.cfg.Version, s.cfg.Port)

	prologue := wire.StreamPrologue("s.whatsapp.net", resource)
	if _, err := s.conn.Write(prologue); err != nil {
		s.transition(EventFailure)
		return newConnectionError("write prologue: %w", err)
	}

	featuresFrame, err := wire.EncodeFrame(wire.EncodeNode(stanza.New("stream:features")), false)
	if err != nil {
		s.transition(EventFailure)
		return err
	}

	if _, err := s.conn.Write(featuresFrame); err != nil {
		s.transition(EventFailure)
		return newConnectionError("write stream:features: %w", err)
	}

	auth := stanza.New("auth").SetAttr("mechanism", waAuthMechanism).SetAttr("user", s.cfg.Phone)

	authFrame, err := wire.EncodeFrame(wire.EncodeNode(auth), false)
	if err != nil {
		s.transition(EventFailure)
		return err
	}

	if _, err := s.conn.Write(authFrame); err != nil {
		s.transition(EventFailure)
		return newConnectionError("write auth: %w", err)
	}

	s.transition(EventStreamSent)

	return s.awaitOutcome()
}

// awaitOutcome blocks (via direct socket reads, outside ServiceLoop)
// until the handshake reaches a terminal state: Steady or an error.
func (s *Session) awaitOutcome() error {
	for {
		node, err := s.readOneBlocking()
		if err != nil {
			s.transition(EventFailure)
			return err
		}

		switch node.Name {
		case "challenge":
			s.transition(EventChallengeReceived)

			if err := s.handleChallenge(node); err != nil {
				s.transition(EventFailure)
				return err
			}
		case "success":
			s.account = node.Attrs
			s.transition(EventSuccess)

			if err := s.sendPostAuthPresence(); err != nil {
				s.transition(EventFailure)
				return err
			}

			s.transition(EventPresenceSent)

			return nil
		case "failure":
			s.transition(EventFailure)

			if s.cfg.Metrics != nil {
				s.cfg.Metrics.IncAuthFailures()
			}

			return &LoginError{Reason: failureReason(node)}
		}
	}
}

func failureReason(n *stanza.Node) string {
	if len(n.Children) > 0 {
		return n.Children[0].Name
	}

	return "unknown"
}

// handleChallenge derives the session keys from the challenge payload
// and sends the encrypted response (spec.md §4.4, §4.6 step 3).
func (s *Session) handleChallenge(n *stanza.Node) error {
	s.challenge = n.Text

	keys := wacrypto.DeriveKeySet(s.cfg.Secret, s.challenge)

	cipher, err := wacrypto.NewCipher(keys)
	if err != nil {
		return fmt.Errorf("derive cipher: %w", err)
	}

	s.cipher = cipher

	now := time.Now().Unix()

	plain := append([]byte(s.cfg.Phone), s.challenge...)
	plain = append(plain, []byte(fmt.Sprintf("%d", now))...)

	blob := s.cipher.Encrypt(plain)

	response := stanza.New("response").WithText(blob)

	if err := s.Send(response); err != nil {
		return err
	}

	s.logger.Debug("sent auth response", slog.Int("challenge_len", len(s.challenge)))

	return nil
}

// sendPostAuthPresence sends the presence stanza required immediately
// after Authenticated (spec.md §4.6 step 4).
func (s *Session) sendPostAuthPresence() error {
	presence := stanza.New("presence").SetAttr("name", s.cfg.Nickname)
	return s.Send(presence)
}

// readOneBlocking reads from the socket, growing the decoder buffer,
// until exactly one stanza decodes. Used only during the handshake,
// before ServiceLoop takes over cooperative polling.
func (s *Session) readOneBlocking() (*stanza.Node, error) {
	buf := make([]byte, 4096)

	for {
		node, err := s.reader.ReadStanza(s.decryptFrame)
		if err == nil {
			return node, nil
		}

		if err != wire.ErrIncomplete { //nolint:errorlint // sentinel compared directly
			return nil, s.classifyReadError(err)
		}

		n, readErr := s.conn.Read(buf)
		if readErr != nil {
			return nil, newConnectionError("read: %w", readErr)
		}

		s.reader.Feed(buf[:n])
	}
}

// decryptFrame adapts the session's Cipher to wire.Decrypt.
func (s *Session) decryptFrame(payload []byte) ([]byte, error) {
	if s.cipher == nil {
		return nil, newConnectionError("encrypted frame before keys derived: %w", wacrypto.ErrMacMismatch)
	}

	plain, err := s.cipher.Decrypt(payload)
	if err != nil {
		return nil, &EncryptionError{Err: err}
	}

	return plain, nil
}

// classifyReadError maps a wire-layer error to the session error
// taxonomy (spec.md §7).
func (s *Session) classifyReadError(err error) error {
	switch err {
	case wire.ErrEndOfStream:
		return newConnectionError("stream ended: %w", err)
	default:
		return err
	}
}
