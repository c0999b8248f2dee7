// Package secretx generates opaque bearer secrets and computes their
// one-way digests.
//
// Digest is a fast, unsalted SHA-256. That is only safe because every input
// comes out of GenerateSecret and therefore carries full random entropy.
// User-chosen passwords must never go through this package; they are hashed
// with the slow, salted primitive in passwordx instead.
package secretx

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateSecret returns a hex-encoded string of size cryptographically
// random bytes. The resulting string length is twice the size, since each
// byte expands to two hex characters.
//
// It returns an error if the system random number generator fails.
func GenerateSecret(size int) (string, error) {

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Digest returns the hex-encoded SHA-256 digest of secret. It is
// deterministic: the same input always yields the same output.
func Digest(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
