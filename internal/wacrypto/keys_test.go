package wacrypto_test

import (
	"bytes"
	"testing"

	"github.com/dantte-lp/gowa/internal/wacrypto"
)

func TestDeriveKeySetDistinctAndSized(t *testing.T) {
	t.Parallel()

	secret := []byte("0123456789012345678X") // stand-in 20-byte shared secret
	challenge := []byte{0xAA, 0xBB, 0xCC, 0xDD}

	keys := wacrypto.DeriveKeySet(secret, challenge)

	all := [][]byte{keys.K0, keys.K1, keys.K2, keys.K3}
	for i, k := range all {
		if len(k) != 20 {
			t.Errorf("K%d: got length %d, want 20", i, len(k))
		}
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if bytes.Equal(all[i], all[j]) {
				t.Errorf("K%d and K%d are equal, want distinct", i, j)
			}
		}
	}
}

func TestDeriveKeySetDeterministic(t *testing.T) {
	t.Parallel()

	secret := []byte("0123456789012345678X")
	challenge := []byte{0x01, 0x02, 0x03}

	a := wacrypto.DeriveKeySet(secret, challenge)
	b := wacrypto.DeriveKeySet(secret, challenge)

	if !bytes.Equal(a.K0, b.K0) || !bytes.Equal(a.K1, b.K1) || !bytes.Equal(a.K2, b.K2) || !bytes.Equal(a.K3, b.K3) {
		t.Error("DeriveKeySet is not deterministic for identical inputs")
	}
}

func TestDeriveKeySetChallengeSensitive(t *testing.T) {
	t.Parallel()

	secret := []byte("0123456789012345678X")

	a := wacrypto.DeriveKeySet(secret, []byte{0x01})
	b := wacrypto.DeriveKeySet(secret, []byte{0x02})

	if bytes.Equal(a.K0, b.K0) {
		t.Error("K0 unchanged across different challenges")
	}
}

func TestCipherEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	clientKeys := wacrypto.DeriveKeySet([]byte("0123456789012345678X"), []byte{0x10, 0x20})

	// The peer's cipher sees K0/K2 and K1/K3 swapped: what the client
	// sends outbound, the peer must decrypt as its inbound stream.
	serverKeys := &wacrypto.KeySet{K0: clientKeys.K2, K1: clientKeys.K3, K2: clientKeys.K0, K3: clientKeys.K1}

	client, err := wacrypto.NewCipher(clientKeys)
	if err != nil {
		t.Fatalf("NewCipher(client): %v", err)
	}

	server, err := wacrypto.NewCipher(serverKeys)
	if err != nil {
		t.Fatalf("NewCipher(server): %v", err)
	}

	messages := []string{"hello", "", "a slightly longer stanza payload to exercise more keystream bytes"}

	for _, msg := range messages {
		framed := client.Encrypt([]byte(msg))

		got, err := server.Decrypt(framed)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", msg, err)
		}

		if string(got) != msg {
			t.Errorf("round trip: got %q, want %q", got, msg)
		}
	}
}

func TestCipherDecryptMacMismatch(t *testing.T) {
	t.Parallel()

	clientKeys := wacrypto.DeriveKeySet([]byte("0123456789012345678X"), []byte{0x10, 0x20})
	serverKeys := &wacrypto.KeySet{K0: clientKeys.K2, K1: clientKeys.K3, K2: clientKeys.K0, K3: clientKeys.K1}

	client, err := wacrypto.NewCipher(clientKeys)
	if err != nil {
		t.Fatalf("NewCipher(client): %v", err)
	}

	server, err := wacrypto.NewCipher(serverKeys)
	if err != nil {
		t.Fatalf("NewCipher(server): %v", err)
	}

	framed := client.Encrypt([]byte("hello"))
	framed[0] ^= 0xFF // corrupt the ciphertext without touching the MAC

	if _, err := server.Decrypt(framed); err != wacrypto.ErrMacMismatch { //nolint:errorlint // sentinel compared directly
		t.Errorf("got err %v, want ErrMacMismatch", err)
	}
}

func TestCipherSequenceCountersAdvance(t *testing.T) {
	t.Parallel()

	clientKeys := wacrypto.DeriveKeySet([]byte("0123456789012345678X"), []byte{0x01})
	serverKeys := &wacrypto.KeySet{K0: clientKeys.K2, K1: clientKeys.K3, K2: clientKeys.K0, K3: clientKeys.K1}

	client, err := wacrypto.NewCipher(clientKeys)
	if err != nil {
		t.Fatalf("NewCipher(client): %v", err)
	}

	server, err := wacrypto.NewCipher(serverKeys)
	if err != nil {
		t.Fatalf("NewCipher(server): %v", err)
	}

	first := client.Encrypt([]byte("same"))
	second := client.Encrypt([]byte("same"))

	if bytes.Equal(first, second) {
		t.Error("two identical plaintexts encrypted to identical frames; seq_out should change the MAC and keystream position")
	}

	if _, err := server.Decrypt(first); err != nil {
		t.Fatalf("Decrypt(first): %v", err)
	}

	if _, err := server.Decrypt(second); err != nil {
		t.Fatalf("Decrypt(second): %v", err)
	}
}
