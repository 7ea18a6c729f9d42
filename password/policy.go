package password

import "errors"

// ErrTooWeak is returned by Validate for a password below policy.
var ErrTooWeak = errors.New("password too weak")

// DefaultMinLength is the policy floor used when no minimum is configured.
const DefaultMinLength = 8

// Validate applies the acceptance policy to a candidate password. Length is
// measured in bytes, matching how the hash is computed.
func Validate(password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if len(password) < minLength {
		return ErrTooWeak
	}
	return nil
}
