package logging

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprintKey scopes fingerprints to this program so they cannot be
// matched against unkeyed hashes of phone numbers elsewhere.
var fingerprintKey = []byte("vendorconsole/log-fingerprint/v1")

// Fingerprint returns a short, stable, non-reversible tag for a sensitive
// value (phone numbers, provider user ids) so log lines can be correlated
// without carrying the value itself. Empty input yields "-".
func Fingerprint(value string) string {
	if value == "" {
		return "-"
	}
	h, err := blake2b.New(8, fingerprintKey)
	if err != nil {
		// only possible with an oversized key
		panic(err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
