package dispatch

import "github.com/dantte-lp/gowa/internal/stanza"

// LoginSuccess matches the stanza name "success" (spec.md §4.5).
func LoginSuccess(n *stanza.Node) bool {
	return n.Name == "success"
}

// LoginFailure matches the stanza name "failure".
func LoginFailure(n *stanza.Node) bool {
	return n.Name == "failure"
}

// PresenceOnline matches a "presence" stanza whose type attribute is
// present and not "unavailable".
func PresenceOnline(n *stanza.Node) bool {
	if n.Name != "presence" {
		return false
	}

	typ, ok := n.Attr("type")

	return ok && typ != "unavailable"
}

// PresenceOffline matches a "presence" stanza with type "unavailable".
func PresenceOffline(n *stanza.Node) bool {
	if n.Name != "presence" {
		return false
	}

	typ, _ := n.Attr("type")

	return typ == "unavailable"
}

// ChatstateComposing matches a "message" whose first child is "composing".
func ChatstateComposing(n *stanza.Node) bool {
	return firstChatstate(n) == "composing"
}

// ChatstatePaused matches a "message" whose first child is "paused".
func ChatstatePaused(n *stanza.Node) bool {
	return firstChatstate(n) == "paused"
}

func firstChatstate(n *stanza.Node) string {
	if n.Name != "message" || len(n.Children) == 0 {
		return ""
	}

	return n.Children[0].Name
}

// NotificationGroupJoined matches a "notification" stanza with an "add"
// child.
func NotificationGroupJoined(n *stanza.Node) bool {
	return n.Name == "notification" && n.HasChild("add")
}

// NotificationGroupLeft matches a "notification" stanza with a "remove"
// child.
func NotificationGroupLeft(n *stanza.Node) bool {
	return n.Name == "notification" && n.HasChild("remove")
}

// NotificationGroupChanged matches a "notification" stanza whose type
// attribute is "subject" or "picture".
func NotificationGroupChanged(n *stanza.Node) bool {
	if n.Name != "notification" {
		return false
	}

	typ, _ := n.Attr("type")

	return typ == "subject" || typ == "picture"
}

// MessageSingle matches a "message" stanza that is neither a group
// message (no "participant" attribute) nor an offline replay (no
// "offline" child).
func MessageSingle(n *stanza.Node) bool {
	return n.Name == "message" && !n.HasChild("offline") && !hasParticipant(n)
}

// MessageGroup matches a "message" stanza carrying a "participant"
// attribute.
func MessageGroup(n *stanza.Node) bool {
	return n.Name == "message" && hasParticipant(n)
}

// MessageOffline matches a "message" stanza carrying an "offline" child.
func MessageOffline(n *stanza.Node) bool {
	return n.Name == "message" && n.HasChild("offline")
}

func hasParticipant(n *stanza.Node) bool {
	_, ok := n.Attr("participant")
	return ok
}

// TextMessage matches a "message" with type "text" and a "body" child.
func TextMessage(n *stanza.Node) bool {
	if n.Name != "message" {
		return false
	}

	typ, _ := n.Attr("type")

	return typ == "text" && n.HasChild("body")
}

// mediaTypes are the recognized values for a media_message type
// whitelist (spec.md §4.5).
var mediaTypes = map[string]bool{
	"image":    true,
	"video":    true,
	"audio":    true,
	"vcard":    true,
	"location": true,
}

// MediaMessage returns a predicate matching a "message" with type
// "media" and a "media" child. If whitelist is non-empty, the media
// child's type attribute must also appear in it; entries outside the
// recognized media types are ignored.
func MediaMessage(whitelist ...string) Predicate {
	allowed := make(map[string]bool, len(whitelist))

	for _, w := range whitelist {
		if mediaTypes[w] {
			allowed[w] = true
		}
	}

	return func(n *stanza.Node) bool {
		if n.Name != "message" {
			return false
		}

		typ, _ := n.Attr("type")
		if typ != "media" {
			return false
		}

		media := n.Child("media")
		if media == nil {
			return false
		}

		if len(allowed) == 0 {
			return true
		}

		mediaType, _ := media.Attr("type")

		return allowed[mediaType]
	}
}

// IQSyncResult matches an "iq" stanza with a "sync" child.
func IQSyncResult(n *stanza.Node) bool {
	return n.Name == "iq" && n.HasChild("sync")
}
