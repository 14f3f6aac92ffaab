package session

import (
	"errors"
	"net"
	"time"

	"github.com/dantte-lp/gowa/internal/stanza"
	"github.com/dantte-lp/gowa/internal/wire"
)

const readBufSize = 4096

// ServiceLoop drives exactly one poll iteration: it reads whatever is
// available from the socket within pollTimeout, decodes as many
// complete stanzas as the buffer holds, runs the fixed inbound-dispatch
// rules on each, then hands it to the callback Registry, and finally
// checks the keep-alive timer. wait_for-style blocking callers loop on
// this method (spec.md §4.5, §4.6, §5).
func (s *Session) ServiceLoop() error {
	if err := s.pollOnce(); err != nil {
		return err
	}

	for {
		node, err := s.reader.ReadStanza(s.decryptFrame)
		if err != nil {
			if err == wire.ErrIncomplete { //nolint:errorlint // sentinel compared directly
				break
			}

			return s.classifyReadError(err)
		}

		if s.cfg.Metrics != nil {
			s.cfg.Metrics.IncStanzaReceived(node.Name)
		}

		if err := s.handleInbound(node); err != nil {
			return err
		}

		if matched := s.Registry.Dispatch(node); matched == 0 && s.cfg.Metrics != nil {
			s.cfg.Metrics.IncStanzaDropped()
		}
	}

	return s.maybeKeepAlive()
}

// pollOnce reads from the socket with a pollTimeout deadline. A timeout
// is not an error at this layer: it simply means no bytes arrived this
// iteration.
func (s *Session) pollOnce() error {
	if err := s.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return newConnectionError("set read deadline: %w", err)
	}

	buf := make([]byte, readBufSize)

	n, err := s.conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil
		}

		return newConnectionError("read: %w", err)
	}

	s.reader.Feed(buf[:n])

	return nil
}

// handleInbound applies the fixed inbound-dispatch rules that run ahead
// of any registered callback (spec.md §4.6).
func (s *Session) handleInbound(n *stanza.Node) error {
	switch {
	case n.Name == "challenge":
		return s.handleChallenge(n)

	case n.Name == "iq" && n.AttrOr("type", "") == "get" && n.HasChild("ping"):
		return s.Send(stanza.New("iq").SetAttr("type", "result").SetAttr("id", n.AttrOr("id", "")))

	case n.Name == "iq" && n.AttrOr("type", "") == "result" && len(n.Children) == 0:
		return nil

	case n.Name == "message":
		return s.maybeSendReceipt(n)

	case n.Name == "ib":
		return s.handleIB(n)

	case n.Name == "notification":
		return s.ackNotification(n)

	case n.Name == "stream:error":
		return &StreamError{Kind: firstChildName(n)}
	}

	return nil
}

func firstChildName(n *stanza.Node) string {
	if len(n.Children) == 0 {
		return "unknown"
	}

	return n.Children[0].Name
}

// handleIB processes an "ib" stanza's children: a "dirty" child gets a
// "clean" iq reply with the category echoed; an "offline" child is
// ignored (spec.md §4.6).
func (s *Session) handleIB(n *stanza.Node) error {
	for _, child := range n.Children {
		if child.Name != "dirty" {
			continue
		}

		clean := stanza.New("iq").
			SetAttr("type", "set").
			SetAttr("id", s.NewMessageID("cleardirty", time.Now().Unix())).
			Add(stanza.New("clean").SetAttr("category", child.AttrOr("type", "")))

		if err := s.Send(clean); err != nil {
			return err
		}
	}

	return nil
}

// ackNotification replies to a notification with an ack echoing
// to/from/id/participant and class="notification" (spec.md §4.6).
func (s *Session) ackNotification(n *stanza.Node) error {
	ack := stanza.New("ack").SetAttr("class", "notification")

	for _, attr := range []string{"to", "from", "id", "participant"} {
		if v, ok := n.Attr(attr); ok {
			ack.SetAttr(attr, v)
		}
	}

	return s.Send(ack)
}

// maybeSendReceipt applies the receipt policy: when a message carries a
// request child with xmlns urn:xmpp:receipts, reply according to
// cfg.AutoReceipt (spec.md §4.6). ReceiptNone sends nothing.
func (s *Session) maybeSendReceipt(n *stanza.Node) error {
	request := n.Child("request")
	if request == nil {
		return nil
	}

	if xmlns, _ := request.Attr("xmlns"); xmlns != "urn:xmpp:receipts" {
		return nil
	}

	switch s.cfg.AutoReceipt {
	case ReceiptLegacy:
		reply := stanza.New("message").
			SetAttr("to", n.AttrOr("from", "")).
			SetAttr("id", n.AttrOr("id", "")).
			Add(stanza.New("received"))

		return s.Send(reply)
	case ReceiptCurrent:
		reply := stanza.New("receipt").
			SetAttr("type", "read").
			SetAttr("to", n.AttrOr("from", "")).
			SetAttr("id", n.AttrOr("id", ""))

		return s.Send(reply)
	default:
		return nil
	}
}
