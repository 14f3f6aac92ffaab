package wacrypto

import (
	"crypto/hmac"
	"crypto/rc4" //nolint:gosec // G405: RC4 required by the wire format's legacy key schedule
	"crypto/sha1" //nolint:gosec // G505: SHA1 required by the wire format's legacy MAC
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Iterations and macSize are fixed by the wire format, not
// configurable (spec.md §4.4).
const (
	pbkdf2Iterations = 2
	keyLen           = 20
	macSize          = 4
)

// ErrMacMismatch indicates an incoming frame's appended MAC did not match
// the expected value computed from K3 and seq_in. The connection this
// cipher belongs to must be torn down. Decrypt returns it before touching
// the inbound RC4 engine or seq_in, so both are left unchanged.
var ErrMacMismatch = errors.New("wacrypto: mac mismatch")

// KeySet holds the four session keys derived once per connection from
// (secret, challenge) (spec.md §4.4). K0/K2 seed the RC4 engines; K1/K3
// are used directly as HMAC keys.
type KeySet struct {
	K0, K1, K2, K3 []byte
}

// DeriveKeySet runs the four PBKDF2-HMAC-SHA1 derivations against secret
// and challenge. secret is already a 20-byte shared blob delivered
// out-of-band; it is not re-hashed before use as the PBKDF2 password.
func DeriveKeySet(secret, challenge []byte) *KeySet {
	keys := make([][]byte, 4)

	for i := 1; i <= 4; i++ {
		salt := append(append([]byte{}, challenge...), byte(i))
		keys[i-1] = pbkdf2.Key(secret, salt, pbkdf2Iterations, keyLen, sha1.New)
	}

	return &KeySet{K0: keys[0], K1: keys[1], K2: keys[2], K3: keys[3]}
}

// Cipher applies the per-frame encrypt/decrypt/MAC rules of spec.md §4.4
// over a KeySet. It is not safe for concurrent use; the session that
// owns it serializes access the same way it serializes the socket.
type Cipher struct {
	keys *KeySet

	out     *rc4.Cipher
	in      *rc4.Cipher
	seqOut  uint32
	seqIn   uint32
}

// NewCipher builds the RC4 engines for keys, discarding the first
// discardBytes keystream bytes from each (spec.md §4.3).
func NewCipher(keys *KeySet) (*Cipher, error) {
	out, err := newEngine(keys.K0)
	if err != nil {
		return nil, fmt.Errorf("wacrypto: build outbound engine: %w", err)
	}

	in, err := newEngine(keys.K2)
	if err != nil {
		return nil, fmt.Errorf("wacrypto: build inbound engine: %w", err)
	}

	return &Cipher{keys: keys, out: out, in: in}, nil
}

// Encrypt renders plain as cipher‖mac4, advancing seq_out.
func (c *Cipher) Encrypt(plain []byte) []byte {
	cipherText := make([]byte, len(plain))
	c.out.XORKeyStream(cipherText, plain)

	mac := c.computeMac(c.keys.K1, cipherText, c.seqOut)
	c.seqOut++

	return append(cipherText, mac...)
}

// Decrypt verifies and strips the trailing MAC from an encrypted inbound
// payload, returning the recovered plaintext and advancing seq_in. It
// returns ErrMacMismatch without advancing seq_in if verification fails.
func (c *Cipher) Decrypt(payload []byte) ([]byte, error) {
	if len(payload) < macSize {
		return nil, fmt.Errorf("wacrypto: encrypted payload shorter than mac: %d bytes", len(payload))
	}

	body := payload[:len(payload)-macSize]
	gotMac := payload[len(payload)-macSize:]

	wantMac := c.computeMac(c.keys.K3, body, c.seqIn)
	if subtle.ConstantTimeCompare(gotMac, wantMac) != 1 {
		return nil, ErrMacMismatch
	}

	plain := make([]byte, len(body))
	c.in.XORKeyStream(plain, body)
	c.seqIn++

	return plain, nil
}

// computeMac returns HMAC-SHA1(key, data || be32(seq))[0:macSize].
func (c *Cipher) computeMac(key, data []byte, seq uint32) []byte {
	var seqBuf [4]byte
	binary.BigEndian.PutUint32(seqBuf[:], seq)

	h := hmac.New(sha1.New, key)
	h.Write(data)
	h.Write(seqBuf[:])

	return h.Sum(nil)[:macSize]
}
