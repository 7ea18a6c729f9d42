// Package credgate issues, rotates, and revokes session credentials and
// throttles abusive request patterns. It pairs short-lived signed access
// tokens with rotating opaque refresh tokens persisted in a pluggable store,
// and admits requests through a fixed-window rate limiter with in-process
// and Redis backends.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// credgate is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([UserProvider], [AuditSink]), and value types
// (Credentials, Session, AuditEvent). Token lifecycle lives in the token
// subpackage, admission control in ratelimit, signing in jwt, hashing in
// password. Flow orchestration lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose store handles, Redis clients, or hashing parameters through
//     Engine results.
//   - Hold an in-process lock across any store or Redis round-trip.
//   - Let an audit failure surface to the caller of a primary operation.
package credgate
