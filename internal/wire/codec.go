package wire

import "github.com/dantte-lp/gowa/internal/stanza"

// ProtocolVersionMajor and ProtocolVersionMinor are the two version bytes
// sent immediately after the literal "WA" in the stream prologue
// (spec.md §4.2, §6).
const (
	ProtocolVersionMajor = 1
	ProtocolVersionMinor = 2
)

// prologueHeader is the fixed 3-byte header introducing the start
// stanza, sent right after "WA" + version (spec.md §4.2: "00 00 18").
var prologueHeader = [3]byte{0x00, 0x00, 0x18}

// StreamPrologue renders the exact byte sequence a client sends as the
// first bytes on a fresh connection: "WA", the two version bytes, the
// fixed header, and the stream-start list with {to, resource} attributes.
func StreamPrologue(to, resource string) []byte {
	buf := []byte{'W', 'A', ProtocolVersionMajor, ProtocolVersionMinor}
	buf = append(buf, prologueHeader[:]...)

	attrs := map[string]string{"to": to, "resource": resource}

	return append(buf, EncodeStreamStart(attrs)...)
}

// Reader decodes a byte stream into stanzas. It owns an append-only
// buffer; Feed appends bytes received from the transport and ReadStanza
// attempts to decode exactly one frame's worth.
type Reader struct {
	buf []byte
}

// NewReader returns an empty Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Feed appends newly received bytes to the reader's buffer.
func (r *Reader) Feed(b []byte) {
	r.buf = append(r.buf, b...)
}

// Buffered returns the number of unconsumed bytes currently held.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

// Decrypt is the function a Reader calls on an encrypted frame's payload
// before decoding it as a stanza.
type Decrypt func(payload []byte) ([]byte, error)

// ReadStanza attempts to decode exactly one stanza from the buffered
// bytes.
//
//   - If fewer bytes are buffered than the declared frame length, it
//     returns (nil, ErrIncomplete) without consuming anything.
//   - If the frame's encrypted flag is set, decrypt is invoked on the raw
//     payload before decoding; decrypt must be non-nil once the session
//     has keyed (spec.md §4.4).
//   - On a stream-end marker it returns (nil, ErrEndOfStream).
//   - On a malformed opcode it returns (nil, a *ProtocolError).
func (r *Reader) ReadStanza(decrypt Decrypt) (*stanza.Node, error) {
	if len(r.buf) < 3 {
		return nil, ErrIncomplete
	}

	length, encrypted := peekHeader(r.buf)
	if 3+length > len(r.buf) {
		return nil, ErrIncomplete
	}

	payload := r.buf[3 : 3+length]

	node, err := r.decodePayload(payload, encrypted, decrypt)
	if err != nil && err != ErrEndOfStream { //nolint:errorlint // sentinel compared directly; no wrapping produced here
		return nil, err
	}

	// Commit the frame now that it decoded without a structural error;
	// EndOfStream still consumes the frame that signaled it.
	r.buf = r.buf[3+length:]

	return node, err
}

func (r *Reader) decodePayload(payload []byte, encrypted bool, decrypt Decrypt) (*stanza.Node, error) {
	if encrypted {
		if decrypt == nil {
			return nil, newProtocolError("encrypted frame received before keys were derived")
		}

		plain, err := decrypt(payload)
		if err != nil {
			return nil, err
		}

		payload = plain
	}

	d := &decoder{buf: payload}

	return d.readNode()
}
