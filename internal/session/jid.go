package session

import "strings"

// Server JID suffixes (spec.md §4.6).
const (
	groupServer = "g.us"
	userServer  = "s.whatsapp.net"
)

// FormJID renders target as a full JID. A target already containing "@"
// is used verbatim. Otherwise a "-" marks a group id, and a bare number
// is addressed at the single-contact server.
func FormJID(target string) string {
	if strings.Contains(target, "@") {
		return target
	}

	if strings.Contains(target, "-") {
		return target + "@" + groupServer
	}

	return target + "@" + userServer
}
