// Package passwordx hashes and verifies admin passwords with bcrypt.
//
// This is the slow, salted primitive for low-entropy user-chosen secrets.
// It is deliberately separate from secretx, whose fast unsalted digest is
// reserved for high-entropy random tokens.
package passwordx

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt hash of password at the default cost.
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether password matches the stored bcrypt hash.
func Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
