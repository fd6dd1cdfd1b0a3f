package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinAdminPasswordLength is the shortest admin password HashAdminPassword accepts.
const MinAdminPasswordLength = 12

// ErrWeakPassword is returned for admin passwords below MinAdminPasswordLength.
var ErrWeakPassword = errors.New("admin password too short")

// HashAdminPassword produces the bcrypt value stored in ADMIN_PASSWORD_HASH.
func HashAdminPassword(password string) (string, error) {
	if len(password) < MinAdminPasswordLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, MinAdminPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin password: %w", err)
	}
	return string(hash), nil
}

// AdminPasswordMatches reports whether password matches the configured bcrypt hash.
// An empty hash never matches.
func AdminPasswordMatches(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RandomTxHash returns a 0x-prefixed hex string built from n random bytes,
// shaped like an EVM transaction hash when n is 32.
func RandomTxHash(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("byte length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}
