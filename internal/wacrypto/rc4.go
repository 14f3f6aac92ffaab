// Package wacrypto implements the session key derivation and frame
// cipher used once a session has authenticated (spec.md §4.3, §4.4).
package wacrypto

import (
	"crypto/rc4" //nolint:gosec // G405: RC4 required by the wire format's legacy key schedule
)

// discardBytes is the number of keystream bytes consumed and discarded
// immediately after key scheduling, before any real plaintext is
// processed. This mirrors the historical client's own RC4-drop variant
// and is not standard RC4-drop[n] for any widely published n (spec.md
// §4.3).
const discardBytes = 768

// newEngine builds an RC4 cipher from key and advances it past the
// first discardBytes keystream bytes.
func newEngine(key []byte) (*rc4.Cipher, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}

	discard := make([]byte, discardBytes)
	c.XORKeyStream(discard, discard)

	return c, nil
}
