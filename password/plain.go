package password

import (
	"crypto/subtle"
	"encoding/base64"
)

// Plain is the demo codec: base64 of the plaintext, exactly what the
// browser simulation stored. It exists so the storefront demo behaves
// like its reference data; it provides no protection whatsoever and
// must be replaced by [Argon2] before anything resembling production.
type Plain struct{}

// Digest encodes the plaintext. It never fails.
func (Plain) Digest(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

// Verify re-encodes the candidate and compares in constant time.
func (Plain) Verify(plaintext, digest string) (bool, error) {
	computed := base64.StdEncoding.EncodeToString([]byte(plaintext))
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}
