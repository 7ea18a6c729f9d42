package token

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Opaque refresh values carry 256 bits of entropy. They have no decodable
// structure; their only function is exact-match lookup.
const opaqueValueSize = 32

// RefreshToken is one outstanding session credential.
type RefreshToken struct {
	ID        string
	UserID    string
	Value     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Valid reports whether the token may still be presented: not yet revoked
// and not past its expiry. A token with RevokedAt unset but an elapsed
// expiry is treated exactly like a revoked one.
func (t *RefreshToken) Valid(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// NewOpaqueValue produces a cryptographically random, URL-safe opaque
// string for use as a refresh-token value.
func NewOpaqueValue() (string, error) {
	var buf [opaqueValueSize]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
