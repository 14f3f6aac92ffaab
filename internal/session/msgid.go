package session

import (
	"fmt"
	"sync/atomic"
)

// msgIDCounter produces the per-session monotonic integer suffix for
// NewMessageID. It is package-level state on the struct, not global: each
// Session owns its own counter value.
type msgIDCounter struct {
	n atomic.Uint64
}

func (c *msgIDCounter) next() uint64 {
	return c.n.Add(1)
}

// NewMessageID renders "{prefix}-{unixSeconds}-{counter}" (spec.md §4.6).
// IDs are opaque to the server but unique within a session, which is all
// that is required to correlate replies.
func (s *Session) NewMessageID(prefix string, unixSeconds int64) string {
	return fmt.Sprintf("%s-%d-%d", prefix, unixSeconds, s.msgIDs.next())
}
