package flows

import "context"

// ChangePasswordFailureKind classifies password-change failures for
// root-level mapping.
type ChangePasswordFailureKind int

const (
	ChangePasswordFailureNone ChangePasswordFailureKind = iota
	ChangePasswordFailureLookup
	ChangePasswordFailureNotFound
	ChangePasswordFailureBadCurrent
	ChangePasswordFailureVerify
	ChangePasswordFailureWeakPassword
	ChangePasswordFailureHash
	ChangePasswordFailureUpdate
	ChangePasswordFailureRevokeAll
)

// ChangePasswordDeps captures password-change flow dependencies.
type ChangePasswordDeps struct {
	GetAccount     func(userID string) (*Account, error)
	VerifyPassword func(plain, hash string) (bool, error)
	ValidatePolicy func(password string) error
	HashPassword   func(password string) (string, error)
	UpdateHash     func(userID, newHash string) error
	RevokeAll      func(ctx context.Context, userID string) error
}

// ChangePasswordResult reports how a password change ended.
type ChangePasswordResult struct {
	Failure ChangePasswordFailureKind
	Err     error
}

// RunChangePassword verifies the current password, persists the new hash,
// then cascade-revokes every active session so a leaked credential cannot
// outlive the password that minted it. The revoke runs after the hash
// update; a failure there is surfaced rather than leaving stale sessions
// silently alive.
func RunChangePassword(ctx context.Context, userID, current, next string, deps ChangePasswordDeps) ChangePasswordResult {
	account, err := deps.GetAccount(userID)
	if err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureLookup, Err: err}
	}
	if account == nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureNotFound}
	}

	ok, err := deps.VerifyPassword(current, account.PasswordHash)
	if err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureVerify, Err: err}
	}
	if !ok {
		return ChangePasswordResult{Failure: ChangePasswordFailureBadCurrent}
	}

	if err := deps.ValidatePolicy(next); err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureWeakPassword, Err: err}
	}

	hash, err := deps.HashPassword(next)
	if err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureHash, Err: err}
	}

	if err := deps.UpdateHash(userID, hash); err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureUpdate, Err: err}
	}

	if err := deps.RevokeAll(ctx, userID); err != nil {
		return ChangePasswordResult{Failure: ChangePasswordFailureRevokeAll, Err: err}
	}

	return ChangePasswordResult{}
}
