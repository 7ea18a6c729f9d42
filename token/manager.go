package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Rotate and Revoke when the presented value
// is unknown, expired, or already revoked. Callers must not be able to tell
// those causes apart.
var ErrInvalidToken = errors.New("invalid refresh token")

// Manager owns every refresh-token state transition. It is stateless apart
// from its configuration; the durable copy of every token lives in the
// injected [Store].
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a Manager issuing tokens with the given TTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue generates a fresh opaque value, persists a token for the user with
// expiry now+TTL, and returns it. It performs exactly one durable write and
// fails only on generation or persistence errors.
func (m *Manager) Issue(ctx context.Context, userID string) (*RefreshToken, error) {
	value, err := NewOpaqueValue()
	if err != nil {
		return nil, fmt.Errorf("generate opaque value: %w", err)
	}

	now := m.now()
	t := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Value:     value,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	if err := m.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return t, nil
}

// Rotate exchanges a presented value for a brand-new token owned by the
// same user. The located token is revoked before the replacement is issued;
// issuing first would transiently leave two valid tokens for one session.
//
// The conditional store revoke is what makes a presented value single-use:
// when two rotations race on one value, the loser's Revoke reports
// [ErrTokenNotFound] and the rotation fails with [ErrInvalidToken].
func (m *Manager) Rotate(ctx context.Context, value string) (*RefreshToken, error) {
	current, err := m.store.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	if !current.Valid(m.now()) {
		return nil, ErrInvalidToken
	}

	if err := m.store.Revoke(ctx, current.ID, m.now()); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return m.Issue(ctx, current.UserID)
}

// Revoke invalidates the token carrying the presented value. Used for
// logout.
func (m *Manager) Revoke(ctx context.Context, value string) error {
	current, err := m.store.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("find refresh token: %w", err)
	}

	if err := m.store.Revoke(ctx, current.ID, m.now()); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAll revokes every active token owned by the user. Used when a
// password changes, to invalidate every other live session. Idempotent:
// a second call finds nothing left to flip and is a no-op.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	if _, err := m.store.RevokeAllForUser(ctx, userID, m.now()); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}
