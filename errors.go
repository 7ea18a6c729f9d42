package credgate

import "errors"

var (
	// ErrInvalidToken is returned when a presented refresh token is unknown,
	// expired, or already revoked. The three causes are deliberately not
	// distinguished so a caller holding a stale value learns nothing about
	// token state.
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrInvalidCredentials is returned on login with a bad identifier or
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAccessToken is returned when an access token fails
	// signature, expiry, or claim checks.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrUserExists is returned by Register when the identifier is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user lookup by ID fails.
	ErrUserNotFound = errors.New("user not found")
	// ErrWeakPassword is returned when a new password fails the policy check.
	ErrWeakPassword = errors.New("password too weak")
	// ErrRateLimited is returned when admission is denied, including when
	// the rate-limit backend is unreachable (fail-closed).
	ErrRateLimited = errors.New("rate limited")
	// ErrUnexpected is returned when the token store, signer, or another
	// collaborator fails. The cause is logged, never attached: callers get
	// a generic internal failure with no backend detail.
	ErrUnexpected = errors.New("unexpected internal error")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not ready")
)
