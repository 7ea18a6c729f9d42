package ratelimit

import (
	"strings"
	"time"
)

// Rule is the budget for one path: at most Limit requests per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Policy maps a normalized request path to its budget. Paths with no entry
// are unthrottled.
type Policy map[string]Rule

// DefaultPolicy covers the credential endpoints. Login and logout get the
// tight budget; refresh, register, and password change get the looser one.
func DefaultPolicy() Policy {
	return Policy{
		"/auth/login":               {Limit: 5, Window: time.Minute},
		"/auth/logout":              {Limit: 5, Window: time.Minute},
		"/auth/refresh":             {Limit: 10, Window: time.Minute},
		"/auth/register":            {Limit: 10, Window: time.Minute},
		"/users/me/change-password": {Limit: 10, Window: time.Minute},
	}
}

// RuleFor returns the budget for path, if any.
func (p Policy) RuleFor(path string) (Rule, bool) {
	r, ok := p[path]
	return r, ok
}

// ClientIdentifier computes the throttling identity for a caller.
// Priority, first match wins:
//
//  1. authenticated user id → "user:<id>"
//  2. forwarded client address (first comma-separated token) → "ip:<addr>"
//  3. the shared literal "unknown"
//
// Collapsing unidentifiable callers onto one bucket is deliberate: stripping
// headers must not buy an unthrottled quota, at the cost of shared-fate
// throttling for anonymous traffic behind one proxy.
func ClientIdentifier(userID, forwardedFor string) string {
	if userID != "" {
		return "user:" + userID
	}

	if forwardedFor != "" {
		addr, _, _ := strings.Cut(forwardedFor, ",")
		addr = strings.TrimSpace(addr)
		if addr != "" {
			return "ip:" + addr
		}
	}

	return "unknown"
}

// Key combines the path and client identifier into the backend key, so the
// same caller gets an independent window per throttled path.
func Key(path, clientID string) string {
	return path + ":" + clientID
}
