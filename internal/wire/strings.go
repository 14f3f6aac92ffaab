package wire

import "strings"

// Wire lead bytes for the string encoding (spec.md §4.2).
const (
	leadEmptyMax  = 0x04
	leadJID       = 0xFA
	leadShortLen  = 0xFC
	leadLongLen   = 0xFD
	leadSecondary = 0xFE
)

// Wire lead bytes for the list-length opcode (spec.md §4.2).
const (
	listEmpty    = 0x00
	listShortLen = 0xF8
	listLongLen  = 0xF9
)

// maxShortLiteral is the largest length using the one-byte-length literal
// form; one byte more and the three-byte-length form is used instead.
const maxShortLiteral = 0xFF

// encodeString renders s the shortest way the wire format allows: a
// single-byte token, a two-byte secondary-token escape, a JID composite
// if s contains "@", or a length-prefixed literal otherwise.
func encodeString(s string) []byte {
	if idx, ok := str2tok(s); ok {
		if idx <= PrimaryLimit {
			return []byte{byte(idx)}
		}

		return []byte{leadSecondary, byte(idx - SecondaryBase)}
	}

	if i := strings.IndexByte(s, '@'); i >= 0 {
		return encodeJID(s[:i], s[i+1:])
	}

	return encodeLiteral([]byte(s))
}

// encodeJID renders the two-string composite form for a "user@server"
// value. An empty user renders the dedicated null-user marker byte
// rather than a zero-length literal.
func encodeJID(user, server string) []byte {
	buf := []byte{leadJID}

	if user == "" {
		buf = append(buf, 0x00)
	} else {
		buf = append(buf, encodeString(user)...)
	}

	return append(buf, encodeString(server)...)
}

// encodeLiteral renders raw bytes using the shortest length-prefixed
// form. Unlike encodeString, this never consults the token table: it is
// used for text_data payloads, which are always written literally.
func encodeLiteral(b []byte) []byte {
	if len(b) <= maxShortLiteral {
		buf := make([]byte, 0, 2+len(b))
		buf = append(buf, leadShortLen, byte(len(b)))

		return append(buf, b...)
	}

	buf := make([]byte, 0, 4+len(b))
	buf = append(buf, leadLongLen)
	buf = append(buf, putUint24(uint32(len(b)))...)

	return append(buf, b...)
}

// encodeListStart renders the list-length opcode for a list of the given
// element count. Lengths above 0xFF use a two-byte big-endian count
// (spec.md §9 REDESIGN FLAGS: the single-byte form seen in one legacy
// client variant is a bug this wire format does not reproduce).
func encodeListStart(length int) []byte {
	switch {
	case length == 0:
		return []byte{listEmpty}
	case length <= maxShortLiteral:
		return []byte{listShortLen, byte(length)}
	default:
		buf := []byte{listLongLen}
		return append(buf, putUint16(uint16(length))...) //nolint:gosec // length is bounded by attribute/child counts, never near 2^16
	}
}
