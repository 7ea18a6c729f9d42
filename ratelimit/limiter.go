package ratelimit

import (
	"context"

	"go.uber.org/zap"
)

// Limiter binds a [Policy] to a [Backend] and answers admission questions.
// One Limiter is constructed at startup and passed explicitly to consumers.
type Limiter struct {
	policy  Policy
	backend Backend
	logger  *zap.Logger
}

// NewLimiter creates a Limiter. A nil logger is replaced with a nop logger.
func NewLimiter(policy Policy, backend Backend, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		policy:  policy,
		backend: backend,
		logger:  logger,
	}
}

// Admit reports whether a request for path by clientID may proceed. Paths
// outside the policy are always admitted. A backend failure is logged and
// answered with false: the caller sees a throttling rejection, never an
// internal error, and never a free pass.
func (l *Limiter) Admit(ctx context.Context, path, clientID string) bool {
	rule, ok := l.policy.RuleFor(path)
	if !ok {
		return true
	}

	allowed, err := l.backend.Check(ctx, Key(path, clientID), rule.Limit, rule.Window)
	if err != nil {
		l.logger.Warn("rate limit backend check failed, denying",
			zap.String("path", path),
			zap.String("client", clientID),
			zap.Error(err),
		)
		return false
	}

	return allowed
}
