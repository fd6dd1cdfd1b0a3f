// Package identity derives the pseudonymous donor identity written to the ledger.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Anonymous is the identity recorded when the donor opted out or gave no email.
const Anonymous = "anonymous"

const hashPrefixLen = 10

// HashEmail returns the first 10 lowercase hex characters of SHA-256(email).
// The email is hashed exactly as given.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])[:hashPrefixLen]
}

// DonorIdentity returns Anonymous without hashing when anonymous is set or the
// email is absent or blank, and HashEmail(email) otherwise.
func DonorIdentity(email *string, anonymous bool) string {
	if anonymous || email == nil || strings.TrimSpace(*email) == "" {
		return Anonymous
	}
	return HashEmail(*email)
}
