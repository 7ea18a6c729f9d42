package flows

import (
	"context"
	"errors"

	"github.com/credgate/credgate/token"
)

// LogoutFailureKind classifies logout flow failures for root-level mapping.
type LogoutFailureKind int

const (
	LogoutFailureNone LogoutFailureKind = iota
	LogoutFailureInvalidToken
	LogoutFailureStore
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	Revoke    func(ctx context.Context, value string) error
	RevokeAll func(ctx context.Context, userID string) error
}

// LogoutResult reports how a logout attempt ended.
type LogoutResult struct {
	Failure LogoutFailureKind
	Err     error
}

// RunLogout revokes the session identified by the presented refresh value.
func RunLogout(ctx context.Context, value string, deps LogoutDeps) LogoutResult {
	if err := deps.Revoke(ctx, value); err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return LogoutResult{Failure: LogoutFailureInvalidToken, Err: err}
		}
		return LogoutResult{Failure: LogoutFailureStore, Err: err}
	}
	return LogoutResult{}
}

// RunLogoutAll revokes every active session the user owns. Idempotent; a
// user with nothing active gets a successful no-op.
func RunLogoutAll(ctx context.Context, userID string, deps LogoutDeps) LogoutResult {
	if err := deps.RevokeAll(ctx, userID); err != nil {
		return LogoutResult{Failure: LogoutFailureStore, Err: err}
	}
	return LogoutResult{}
}
