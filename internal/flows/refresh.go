package flows

import (
	"context"
	"errors"
	"time"

	"github.com/credgate/credgate/token"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureInvalidToken
	RefreshFailureRotate
	RefreshFailureSignAccess
)

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Rotate     func(ctx context.Context, value string) (*token.RefreshToken, error)
	SignAccess func(userID string) (string, error)
}

// RefreshResult carries either the rotated credential pair or failure
// metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RunRefresh rotates the presented refresh value and signs a new access
// token for its owner. Unknown, expired, and revoked values all surface as
// the same invalid-token failure.
func RunRefresh(ctx context.Context, value string, deps RefreshDeps) RefreshResult {
	rotated, err := deps.Rotate(ctx, value)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return RefreshResult{Failure: RefreshFailureInvalidToken, Err: err}
		}
		return RefreshResult{Failure: RefreshFailureRotate, Err: err}
	}

	access, err := deps.SignAccess(rotated.UserID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureSignAccess, Err: err, UserID: rotated.UserID}
	}

	return RefreshResult{
		UserID:       rotated.UserID,
		AccessToken:  access,
		RefreshToken: rotated.Value,
		ExpiresAt:    rotated.ExpiresAt,
	}
}
