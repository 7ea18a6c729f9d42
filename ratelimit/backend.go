package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrBackendUnavailable is returned by a [Backend] when its store cannot be
// consulted. Callers treat it as a denial, never as permission.
var ErrBackendUnavailable = errors.New("rate limit backend unavailable")

// Backend answers whether one more request under key fits the (limit,
// window) budget. Both implementations must expose identical admission
// semantics for the same call sequence.
//
// The backend is selected once at startup and passed to the [Limiter];
// nothing branches on the backend type per call.
type Backend interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
