package credgate

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/credgate/credgate/token"
)

// The session surface exposes the bare token lifecycle for callers that
// bring their own credential verification and access-token format. Login
// and Refresh are thin compositions over these.

// IssueSession creates a refresh token for the user without any credential
// check. The caller is responsible for having authenticated the user.
func (e *Engine) IssueSession(ctx context.Context, userID string) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	t, err := e.tokens.Issue(ctx, userID)
	if err != nil {
		e.logger.Warn("session issue failed", zap.Error(err))
		return nil, ErrUnexpected
	}

	return &Session{
		RefreshToken: t.Value,
		ExpiresAt:    t.ExpiresAt,
	}, nil
}

// RotateSession exchanges a presented refresh value for a new one, revoking
// the old value first. Unknown, expired, and revoked values all return
// [ErrInvalidToken].
func (e *Engine) RotateSession(ctx context.Context, refreshToken string) (*Rotation, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	t, err := e.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		e.logger.Warn("session rotate failed", zap.Error(err))
		return nil, ErrUnexpected
	}

	return &Rotation{
		UserID:       t.UserID,
		RefreshToken: t.Value,
		ExpiresAt:    t.ExpiresAt,
	}, nil
}

// EndSession revokes the session identified by the presented refresh value.
func (e *Engine) EndSession(ctx context.Context, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.tokens.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return ErrInvalidToken
		}
		e.logger.Warn("session end failed", zap.Error(err))
		return ErrUnexpected
	}
	return nil
}

// EndAllSessions revokes every active session owned by the user.
// Idempotent: a second call is a no-op, not an error.
func (e *Engine) EndAllSessions(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.tokens.RevokeAll(ctx, userID); err != nil {
		e.logger.Warn("session end-all failed", zap.Error(err))
		return ErrUnexpected
	}
	return nil
}
