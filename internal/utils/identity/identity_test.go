package identity_test

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"

	"github.com/SscSPs/heartchain_backend/internal/utils/identity"
	"github.com/stretchr/testify/assert"
)

var hexPrefix = regexp.MustCompile(`^[0-9a-f]{10}$`)

func strPtr(s string) *string { return &s }

func TestHashEmail_Deterministic(t *testing.T) {
	a := identity.HashEmail("donor@example.com")
	b := identity.HashEmail("donor@example.com")

	assert.Equal(t, a, b)
	assert.Regexp(t, hexPrefix, a)

	sum := sha256.Sum256([]byte("donor@example.com"))
	assert.Equal(t, hex.EncodeToString(sum[:])[:10], a)
}

func TestHashEmail_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, identity.HashEmail("a@example.com"), identity.HashEmail("b@example.com"))
}

func TestDonorIdentity(t *testing.T) {
	tests := []struct {
		name      string
		email     *string
		anonymous bool
		want      string
	}{
		{name: "anonymous flag wins", email: strPtr("donor@example.com"), anonymous: true, want: identity.Anonymous},
		{name: "nil email", email: nil, want: identity.Anonymous},
		{name: "empty email", email: strPtr(""), want: identity.Anonymous},
		{name: "blank email", email: strPtr("   "), want: identity.Anonymous},
		{name: "hashed", email: strPtr("donor@example.com"), want: identity.HashEmail("donor@example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.DonorIdentity(tt.email, tt.anonymous))
		})
	}
}
