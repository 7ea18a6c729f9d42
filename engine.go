package credgate

import (
	"context"

	"go.uber.org/zap"

	"github.com/credgate/credgate/internal/flows"
	"github.com/credgate/credgate/jwt"
	"github.com/credgate/credgate/password"
	"github.com/credgate/credgate/ratelimit"
	"github.com/credgate/credgate/token"
)

// Engine is the credential orchestrator: it composes the token lifecycle
// manager, the rate limiter, the password verifier, and the access-token
// signer behind one concurrency-safe surface. Configure through [Builder]
// and treat as immutable afterwards.
type Engine struct {
	config  Config
	tokens  *token.Manager
	limiter *ratelimit.Limiter
	jwt     *jwt.Manager
	hasher  *password.Argon2
	users   UserProvider
	audit   *auditDispatcher
	logger  *zap.Logger
	deps    flows.Deps
}

// Close drains and stops the audit dispatcher. Call on shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Login verifies the identifier/password pair and, on success, issues a
// refresh token and a signed access token. Bad credentials (unknown user or
// wrong password, indistinguishable) return [ErrInvalidCredentials]; the
// signer is never consulted in that case.
func (e *Engine) Login(ctx context.Context, identifier, passwd string) (*Credentials, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.users == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunLogin(ctx, identifier, passwd, e.deps.Login)
	switch result.Failure {
	case flows.LoginFailureNone:
		e.emitAudit(ctx, AuditLoginSuccess, result.UserID, "auth", true, "", nil)
		return &Credentials{
			UserID:       result.UserID,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			ExpiresAt:    result.ExpiresAt,
		}, nil
	case flows.LoginFailureBadCredentials:
		e.emitAudit(ctx, AuditLoginFailed, result.UserID, "auth", false, "invalid_credentials", nil)
		return nil, ErrInvalidCredentials
	default:
		e.logger.Warn("login failed unexpectedly", zap.Error(result.Err))
		return nil, ErrUnexpected
	}
}

// Refresh rotates the presented refresh value and returns a fresh
// credential pair for its owner. The presented value is single-use: after
// one successful Refresh it is permanently invalid.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, refreshToken, e.deps.Refresh)
	switch result.Failure {
	case flows.RefreshFailureNone:
		e.emitAudit(ctx, AuditRefreshSuccess, result.UserID, "auth", true, "", nil)
		return &Credentials{
			UserID:       result.UserID,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			ExpiresAt:    result.ExpiresAt,
		}, nil
	case flows.RefreshFailureInvalidToken:
		e.emitAudit(ctx, AuditRefreshFailed, "", "auth", false, "invalid_token", nil)
		return nil, ErrInvalidToken
	default:
		e.logger.Warn("refresh failed unexpectedly", zap.Error(result.Err))
		return nil, ErrUnexpected
	}
}

// Logout revokes the session identified by the presented refresh value.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	result := flows.RunLogout(ctx, refreshToken, e.deps.Logout)
	switch result.Failure {
	case flows.LogoutFailureNone:
		e.emitAudit(ctx, AuditLogout, "", "auth", true, "", nil)
		return nil
	case flows.LogoutFailureInvalidToken:
		return ErrInvalidToken
	default:
		e.logger.Warn("logout failed unexpectedly", zap.Error(result.Err))
		return ErrUnexpected
	}
}

// LogoutAll revokes every active session the user owns. Idempotent.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	result := flows.RunLogoutAll(ctx, userID, e.deps.Logout)
	if result.Failure != flows.LogoutFailureNone {
		e.logger.Warn("logout-all failed unexpectedly", zap.Error(result.Err))
		return ErrUnexpected
	}

	e.emitAudit(ctx, AuditLogoutAll, userID, "auth", true, "", nil)
	return nil
}

// Register creates a user with a policy-checked, argon2id-hashed password
// and returns the new user ID.
func (e *Engine) Register(ctx context.Context, identifier, passwd string) (string, error) {
	if e == nil || e.users == nil {
		return "", ErrEngineNotReady
	}

	result := flows.RunRegister(identifier, passwd, e.deps.Register)
	switch result.Failure {
	case flows.RegisterFailureNone:
		e.emitAudit(ctx, AuditRegister, result.UserID, "user", true, "", nil)
		return result.UserID, nil
	case flows.RegisterFailureExists:
		return "", ErrUserExists
	case flows.RegisterFailureWeakPassword:
		return "", ErrWeakPassword
	default:
		e.logger.Warn("register failed unexpectedly", zap.Error(result.Err))
		return "", ErrUnexpected
	}
}

// ChangePassword verifies the current password, stores a new hash, and
// cascade-revokes every active session so other devices must log in again.
func (e *Engine) ChangePassword(ctx context.Context, userID, current, next string) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}

	result := flows.RunChangePassword(ctx, userID, current, next, e.deps.ChangePassword)
	switch result.Failure {
	case flows.ChangePasswordFailureNone:
		e.emitAudit(ctx, AuditChangePasswordSuccess, userID, "user", true, "", nil)
		return nil
	case flows.ChangePasswordFailureNotFound:
		return ErrUserNotFound
	case flows.ChangePasswordFailureBadCurrent:
		e.emitAudit(ctx, AuditChangePasswordFailed, userID, "user", false, "invalid_current_password", nil)
		return ErrInvalidCredentials
	case flows.ChangePasswordFailureWeakPassword:
		return ErrWeakPassword
	default:
		e.logger.Warn("change password failed unexpectedly", zap.Error(result.Err))
		return ErrUnexpected
	}
}

// Validate parses a signed access token and returns the owning user ID.
func (e *Engine) Validate(accessToken string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(accessToken)
	if err != nil {
		return "", ErrInvalidAccessToken
	}
	return claims.Subject, nil
}

// Admit reports whether a request for path by clientID fits the configured
// admission budget. Unthrottled paths always pass; a backend failure
// denies (fail-closed).
func (e *Engine) Admit(ctx context.Context, path, clientID string) bool {
	if e == nil {
		return false
	}
	return e.limiter.Admit(ctx, path, clientID)
}

// Throttle is the error form of [Engine.Admit] for callers composing with
// errors.Is chains: a denial, including one caused by an unreachable
// backend, returns [ErrRateLimited].
func (e *Engine) Throttle(ctx context.Context, path, clientID string) error {
	if !e.Admit(ctx, path, clientID) {
		return ErrRateLimited
	}
	return nil
}

// Limiter exposes the engine's rate limiter for HTTP middleware wiring.
func (e *Engine) Limiter() *ratelimit.Limiter {
	if e == nil {
		return nil
	}
	return e.limiter
}
