package gowa

import (
	"crypto/md5" //nolint:gosec // G501: MD5 required to reproduce the legacy account-secret derivation
	"strings"
)

// DeriveSecret reproduces the legacy account-secret hash: a MAC address
// (detected by the presence of ":") is upper-cased and doubled before
// hashing; anything else (an IMEI number) is reversed before hashing.
// The result is the 16-byte MD5 digest used as the password for account
// registration flows that predate the 20-byte shared-secret blob this
// client otherwise expects (see SPEC_FULL.md §6).
func DeriveSecret(raw string) []byte {
	var data string

	if strings.Contains(raw, ":") {
		upper := strings.ToUpper(raw)
		data = upper + upper
	} else {
		data = reverseString(raw)
	}

	sum := md5.Sum([]byte(data)) //nolint:gosec // G401: see package doc

	return sum[:]
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}

	return string(r)
}
