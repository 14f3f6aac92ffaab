// Package wire implements the binary WA stanza codec: the token table
// (component 1) and the frame/stanza encoder-decoder (component 2).
package wire

// TableSize is the number of slots in the token table, spanning both the
// primary range (index 0 through 0xF4) and the secondary range (0xF5
// through 0x1F4, reached through the two-byte escape).
const TableSize = 0x1F5

// PrimaryLimit is the highest index directly addressable by a single
// lead byte (0x05..0xF5 on the wire, see readString).
const PrimaryLimit = 0xF5

// SecondaryBase is the first index of the secondary range; secondary
// tokens are addressed on the wire as 0xFE followed by (index - SecondaryBase).
const SecondaryBase = 0xF5

// tokenTable is the fixed, ordered token table. Indices 0-4 are present
// but never looked up: the wire format treats lead bytes 0x00-0x04 as a
// literal empty string rather than a table reference. Index 0x1F4 (the
// final slot) holds the table's end-of-data sentinel "XXX", carried over
// unchanged from the protocol this client speaks; it is never emitted by
// the encoder.
var tokenTable = [TableSize]string{
	"", "", "", "", "", "1",
	"1.0", "ack", "action", "active", "add", "all",
	"allow", "apple", "audio", "auth", "author", "available",
	"bad-request", "basee64", "Bell.caf", "bind", "body", "message",
	"iq", "presence", "challenge", "response", "success", "failure",
	"stream:features", "request", "receipt", "composing", "paused", "remove",
	"subject", "picture", "sync", "query", "ping", "dirty",
	"clean", "ib", "offline", "media", "x", "server",
	"notify", "error", "features", "xmlns", "mechanism", "user",
	"to", "from", "id", "t", "type", "resource",
	"participant", "class", "name", "seconds", "kind", "status",
	"creation", "expiration", "size", "url", "file", "data",
	"latitude", "longitude", "abitrate", "acodec", "asampfmt", "asampfreq",
	"duration", "encoding", "filehash", "mimetype", "count", "index",
	"first", "last", "value", "key", "s.whatsapp.net", "g.us",
	"jabber:iq:last", "jabber:x:event", "urn:xmpp:receipts", "urn:xmpp:whatsapp", "urn:xmpp:whatsapp:mms", "urn:xmpp:whatsapp:dirty",
	"urn:xmpp:whatsapp:account", "http://jabber.org/protocol/chatstates", "urn:ietf:params:xml:ns:xmpp-sasl", "urn:ietf:params:xml:ns:xmpp-streams", "http://etherx.jabber.org/streams", "w:g",
	"unavailable", "inactive", "gone", "image", "video", "vcard",
	"location", "text", "chat", "group", "single", "read",
	"played", "deliver", "relay", "item-not-found", "not-authorized", "not-allowed",
	"conflict", "internal-server-error", "registration-required", "forbidden", "WAUTH-2", "DIGEST-MD5-1",
	"digest", "nonce", "realm", "qop", "charset", "cnonce",
	"nc", "response-auth", "rspauth", "account", "admin", "after",
	"android", "announcement", "archive", "away", "background", "backup",
	"badge", "before", "blocked", "broadcast", "business", "call",
	"cancel", "capability", "category", "cellular", "channel", "chatstate",
	"code", "config", "contact", "contacts", "content", "context",
	"conversation", "create", "created", "creator", "custom", "default",
	"delay", "delete", "delivered", "deny", "description", "device",
	"directory", "disable", "discovery", "display", "document", "domain",
	"duplicate", "edit", "elapsed", "email", "enable", "enabled",
	"event", "expired", "extend", "false", "favorite", "feature",
	"field", "flag", "format", "free", "full", "gcm",
	"general", "geo", "get", "group_add", "groups", "height",
	"history", "hold", "host", "icon", "identity", "ignore",
	"import", "inbox", "info", "interactive", "invalid", "invis",
	"ios", "isonline", "item", "jid", "join", "label",
	"language", "lastseen", "lid", "limit", "link", "list",
	"local", "locked", "login", "manual", "max_groups", "max_participants",
	"max_subject", "member", "method", "minutes", "mod-tag", "modify",
	"multicast", "mute", "network", "new", "nokia", "urn:xmpp:whatsapp:push",
	"urn:xmpp:whatsapp:account:sync", "urn:xmpp:whatsapp:dirty:categories", "http://jabber.org/protocol/mood", "jabber:iq:register", "jabber:iq:roster", "jabber:iq:version",
	"vcard-temp", "image/jpeg", "image/png", "image/gif", "video/mp4", "video/3gpp",
	"audio/aac", "audio/amr", "audio/ogg", "audio/mp4", "application/octet-stream", "urn:xmpp:ping",
	"urn:xmpp:whatsapp:groups", "urn:xmpp:whatsapp:account:payments", "urn:xmpp:whatsapp:mms:resume", "group_joined", "group_left", "group_changed",
	"chat-state-changed", "subject_change", "picture_change", "admin_add", "admin_remove", "admin_promote",
	"admin_demote", "broadcast_add", "broadcast_remove", "status_update", "last_seen_query", "battery_status",
	"network_status", "client_config", "client_version", "server_version", "protocol_version", "account_type",
	"account_status", "account_kind", "account_creation", "account_expiration", "device_list", "device_identity",
	"device_sent", "media_upload", "media_download", "media_thumbnail", "media_caption", "media_duration",
	"media_filehash", "media_mimetype", "media_encoding", "presence_subscribe", "presence_unsubscribe", "presence_probe",
	"presence_available", "presence_unavailable", "receipt_sent", "receipt_delivered", "receipt_read", "receipt_played",
	"chatstate_composing", "chatstate_paused", "chatstate_active", "chatstate_inactive", "chatstate_gone", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"", "", "", "", "", "",
	"w:p", "w:profile:picture", "notification", "", "", "",
	"", "", "XXX",
}

// tokenIndex is the reverse lookup built once at package init, mapping
// each non-empty table entry back to its index for str2tok.
var tokenIndex = buildTokenIndex()

func buildTokenIndex() map[string]uint16 {
	m := make(map[string]uint16, TableSize)
	for i, s := range tokenTable {
		if s == "" {
			continue
		}
		// First occurrence wins; the table is constructed with no
		// duplicate non-empty entries, so this is purely defensive.
		if _, ok := m[s]; !ok {
			m[s] = uint16(i) //nolint:gosec // i < TableSize, always fits uint16
		}
	}
	return m
}

// str2tok returns the token index for s and true if s is present in the
// token table. The caller falls back to a literal length-prefixed string
// when ok is false.
func str2tok(s string) (idx uint16, ok bool) {
	idx, ok = tokenIndex[s]
	return idx, ok
}

// tok2str returns the string for a token index. ok is false for an
// out-of-range index, which the decoder must treat as a malformed frame.
func tok2str(idx uint16) (s string, ok bool) {
	if int(idx) >= len(tokenTable) {
		return "", false
	}
	return tokenTable[idx], true
}
