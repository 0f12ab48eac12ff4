// Package credentials implements salted one-way password digests. Stored
// credentials are a per-account random salt plus a PBKDF2-SHA256 digest;
// neither is reversible, and identical passwords produce different digests
// because salts differ.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 10000
	keyLength  = 32
)

// NewSalt returns a fresh base64-encoded salt from a cryptographically secure
// source. Generated once at account creation and never regenerated.
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Hash derives a deterministic digest from the password and salt.
func Hash(password, salt string) string {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		// A malformed salt still produces a stable digest so Verify can
		// return false instead of failing.
		rawSalt = []byte(salt)
	}
	digest := pbkdf2.Key([]byte(password), rawSalt, iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(digest)
}

// Verify recomputes the digest and compares in constant time. It returns
// false for any mismatch, including malformed input; it never fails on
// user-controlled data.
func Verify(password, salt, digest string) bool {
	computed := Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
