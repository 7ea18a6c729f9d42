package token

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned by [Store] lookups when no row matches, and
// by Revoke when the row is missing or was already revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

// Store is the persistence collaborator for refresh tokens. Implementations
// live under store/; an in-memory one is provided here for tests and
// single-process setups.
//
// Revoke must be conditional: it succeeds only if the row exists and its
// revocation timestamp is still unset, and returns [ErrTokenNotFound]
// otherwise. This is what closes the concurrent-rotation race — two
// rotations presenting the same value may both pass the validity read, but
// only one conditional revoke can win.
type Store interface {
	Save(ctx context.Context, t *RefreshToken) error
	FindByValue(ctx context.Context, value string) (*RefreshToken, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	// RevokeAllForUser revokes every active token owned by the user and
	// reports how many rows it flipped. Already-revoked rows are skipped,
	// making the operation idempotent.
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
}
