package session

import (
	"time"

	"github.com/dantte-lp/gowa/internal/stanza"
)

// maybeKeepAlive sends a presence "active" stanza if no traffic has
// left the client for at least AliveInterval (spec.md §4.6).
func (s *Session) maybeKeepAlive() error {
	if s.lastSendAt.IsZero() {
		return nil
	}

	if time.Since(s.lastSendAt) < AliveInterval {
		return nil
	}

	return s.Send(stanza.New("presence").SetAttr("type", "active"))
}
