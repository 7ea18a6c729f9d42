// Package token owns the refresh-token state machine: issue on login,
// rotate on refresh, revoke on logout, cascade-revoke on password change.
//
// A token is a persisted row with an opaque random value; validity is a
// derived property (not revoked AND not past expiry), never stored. Rows
// are mutated only by revocation and never deleted, so a revoked or
// expired token stays inert forever and remains available for audit.
//
// The [Manager] is the sole writer. It keeps no token copy across calls;
// the [Store] holds the only durable state.
package token
