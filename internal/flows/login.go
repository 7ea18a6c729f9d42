package flows

import (
	"context"
	"time"

	"github.com/credgate/credgate/token"
)

// LoginFailureKind classifies login flow failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureLookup
	LoginFailureBadCredentials
	LoginFailureVerify
	LoginFailureIssue
	LoginFailureSignAccess
)

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	// FindAccount returns (nil, nil) for an unknown identifier; an error
	// only for provider failure.
	FindAccount    func(identifier string) (*Account, error)
	VerifyPassword func(plain, hash string) (bool, error)
	IssueToken     func(ctx context.Context, userID string) (*token.RefreshToken, error)
	SignAccess     func(userID string) (string, error)
}

// LoginResult carries either the issued credential pair or failure metadata.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RunLogin verifies the presented credentials and, only on success, issues
// a refresh token and signs an access token. The signer is never reached on
// a credential failure.
func RunLogin(ctx context.Context, identifier, password string, deps LoginDeps) LoginResult {
	account, err := deps.FindAccount(identifier)
	if err != nil {
		return LoginResult{Failure: LoginFailureLookup, Err: err}
	}
	if account == nil {
		return LoginResult{Failure: LoginFailureBadCredentials}
	}

	ok, err := deps.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return LoginResult{Failure: LoginFailureVerify, Err: err, UserID: account.ID}
	}
	if !ok {
		return LoginResult{Failure: LoginFailureBadCredentials, UserID: account.ID}
	}

	refresh, err := deps.IssueToken(ctx, account.ID)
	if err != nil {
		return LoginResult{Failure: LoginFailureIssue, Err: err, UserID: account.ID}
	}

	access, err := deps.SignAccess(account.ID)
	if err != nil {
		return LoginResult{Failure: LoginFailureSignAccess, Err: err, UserID: account.ID}
	}

	return LoginResult{
		UserID:       account.ID,
		AccessToken:  access,
		RefreshToken: refresh.Value,
		ExpiresAt:    refresh.ExpiresAt,
	}
}
