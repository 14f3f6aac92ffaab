// Package gowa is a client for the WA binary chat protocol: a
// token-compressed, tree-structured stanza format running over a
// single RC4+HMAC-framed TCP connection.
package gowa

import (
	"context"
	"fmt"
	"time"

	"github.com/dantte-lp/gowa/internal/dispatch"
	"github.com/dantte-lp/gowa/internal/session"
	"github.com/dantte-lp/gowa/internal/stanza"
)

// Client is the public handle to one authenticated chat connection. It
// is not safe for concurrent use (spec.md §5); callers that need
// concurrent access must serialize it themselves.
type Client struct {
	session  *session.Session
	phone    string
	nickname string
}

// Dial connects to the chat server and runs the handshake through to
// Steady, authenticating as phone with secret (a 20-byte shared blob;
// DeriveSecret produces the 16-byte legacy secret from a MAC/IMEI
// string).
func Dial(ctx context.Context, phone string, secret []byte, nickname string, opts ...Option) (*Client, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sess := session.New(session.Config{
		Host:         cfg.host,
		Port:         cfg.port,
		Phone:        phone,
		Secret:       secret,
		Nickname:     nickname,
		Device:       cfg.device,
		Version:      cfg.version,
		DialAttempts: cfg.dialAttempts,
		DialBackoff:  cfg.dialBackoff,
		AutoReceipt:  cfg.autoReceipt,
		Logger:       cfg.logger,
		Metrics:      cfg.metrics,
	})

	if err := sess.Dial(ctx); err != nil {
		return nil, err
	}

	return &Client{session: sess, phone: phone, nickname: nickname}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.session.Close()
}

// ServiceLoop drives one poll iteration of the underlying session. Call
// it in a loop to keep the connection alive and callbacks firing.
func (c *Client) ServiceLoop() error {
	return c.session.ServiceLoop()
}

// Account returns the attributes the server sent on the success stanza.
func (c *Client) Account() session.AccountInfo {
	return c.session.Account()
}

func (c *Client) now() time.Time {
	return time.Now()
}

func (c *Client) nextID(prefix string) string {
	return c.session.NewMessageID(prefix, c.now().Unix())
}

// outgoingMessageEnvelope wraps body in the standard outgoing message
// children (spec.md §4.7).
func (c *Client) outgoingMessageEnvelope(msgType, to, id string, body *stanza.Node) *stanza.Node {
	n := stanza.New("message").
		SetAttr("type", msgType).
		SetAttr("id", id).
		SetAttr("t", fmt.Sprintf("%d", c.now().Unix())).
		SetAttr("to", session.FormJID(to)).
		Add(stanza.New("x").SetAttr("xmlns", "jabber:x:event").Add(stanza.New("server"))).
		Add(stanza.New("notify").SetAttr("xmlns", "urn:xmpp:whatsapp").SetAttr("name", c.nickname)).
		Add(stanza.New("request").SetAttr("xmlns", "urn:xmpp:receipts"))

	if body != nil {
		n.Add(body)
	}

	return n
}

// Message sends a one-to-one text message and returns its message-id.
func (c *Client) Message(to, text string) (string, error) {
	id := c.nextID("message")
	n := c.outgoingMessageEnvelope("text", to, id, stanza.New("body").WithTextString(text))

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// GroupMessage sends a text message to a group and returns its
// message-id.
func (c *Client) GroupMessage(group, text string) (string, error) {
	return c.Message(group, text)
}

// chatstateNames are the recognized chatstate values (spec.md §4.7).
var chatstateNames = map[string]bool{
	"active":    true,
	"inactive":  true,
	"composing": true,
	"paused":    true,
	"gone":      true,
}

// Chatstate sends a chatstate notification. state must be one of
// active, inactive, composing, paused, gone.
func (c *Client) Chatstate(to, state string) (string, error) {
	if !chatstateNames[state] {
		return "", newInvalidArgument("unknown chatstate %q", state)
	}

	id := c.nextID("chatstate")
	n := c.outgoingMessageEnvelope("chatstate", to, id, stanza.New(state).SetAttr("xmlns", "http://jabber.org/protocol/chatstates"))

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// Presence sends a bare presence update (e.g. "active", "unavailable").
func (c *Client) Presence(state string) error {
	return c.session.Send(stanza.New("presence").SetAttr("type", state))
}

// Image sends an image media message.
func (c *Client) Image(to, url, filename string, size int64, thumbnail []byte) (string, error) {
	media := stanza.New("media").
		SetAttr("type", "image").
		SetAttr("url", url).
		SetAttr("file", filename).
		SetAttr("size", fmt.Sprintf("%d", size))

	if len(thumbnail) > 0 {
		media.WithText(thumbnail)
	}

	id := c.nextID("message")
	n := c.outgoingMessageEnvelope("media", to, id, media)

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// audioAttrs are the recognized keys for Audio's attrs map (spec.md
// §4.7).
var audioAttrs = map[string]bool{
	"abitrate":  true,
	"acodec":    true,
	"asampfmt":  true,
	"asampfreq": true,
	"duration":  true,
	"encoding":  true,
	"filehash":  true,
	"mimetype":  true,
}

// Audio sends an audio media message. attrs keys must be a subset of
// abitrate, acodec, asampfmt, asampfreq, duration, encoding, filehash,
// mimetype.
func (c *Client) Audio(to, url, filename string, size int64, attrs map[string]string) (string, error) {
	media := stanza.New("media").
		SetAttr("type", "audio").
		SetAttr("url", url).
		SetAttr("file", filename).
		SetAttr("size", fmt.Sprintf("%d", size))

	for k, v := range attrs {
		if !audioAttrs[k] {
			return "", newInvalidArgument("unknown audio attribute %q", k)
		}

		media.SetAttr(k, v)
	}

	id := c.nextID("message")
	n := c.outgoingMessageEnvelope("media", to, id, media)

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// Location sends a location media message.
func (c *Client) Location(to string, lat, lng float64) (string, error) {
	media := stanza.New("media").
		SetAttr("type", "location").
		SetAttr("latitude", fmt.Sprintf("%f", lat)).
		SetAttr("longitude", fmt.Sprintf("%f", lng))

	id := c.nextID("message")
	n := c.outgoingMessageEnvelope("media", to, id, media)

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// VCard sends a vcard media message carrying data (the raw vCard text)
// under the given display name.
func (c *Client) VCard(to, name string, data []byte) (string, error) {
	media := stanza.New("media").SetAttr("type", "vcard")
	vcard := stanza.New("vcard").SetAttr("name", name).WithText(data)
	media.Add(vcard)

	id := c.nextID("message")
	n := c.outgoingMessageEnvelope("media", to, id, media)

	if err := c.session.Send(n); err != nil {
		return "", err
	}

	return id, nil
}

// LastSeen blocks until the server replies with the target's last-seen
// duration, registering an iq callback keyed on the outgoing
// message-id (spec.md §4.7).
func (c *Client) LastSeen(number string) (time.Duration, error) {
	id := c.nextID("lastseen")

	query := stanza.New("iq").
		SetAttr("type", "get").
		SetAttr("id", id).
		SetAttr("to", session.FormJID(number)).
		Add(stanza.New("query").SetAttr("xmlns", "jabber:iq:last"))

	var seconds int64

	record := &dispatch.Record{
		Name: "iq",
		Predicate: func(n *stanza.Node) bool {
			replyID, _ := n.Attr("id")
			return replyID == id
		},
		Action: func(n *stanza.Node) (any, error) {
			q := n.Child("query")
			if q == nil {
				return nil, fmt.Errorf("last_seen reply missing query child")
			}

			s, ok := q.Attr("seconds")
			if !ok {
				return nil, fmt.Errorf("last_seen reply missing seconds attribute")
			}

			if _, err := fmt.Sscanf(s, "%d", &seconds); err != nil {
				return nil, fmt.Errorf("parse seconds: %w", err)
			}

			return seconds, nil
		},
	}

	c.session.Registry.Register(record)

	if err := c.session.Send(query); err != nil {
		c.session.Registry.Unregister(record)
		return 0, err
	}

	result, err := c.session.Registry.WaitFor(record, c.session.ServiceLoop)
	if err != nil {
		return 0, err
	}

	return time.Duration(result.(int64)) * time.Second, nil
}
