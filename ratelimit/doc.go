// Package ratelimit provides fixed-window request admission with two
// interchangeable backends: a mutex-guarded in-process map and a Redis
// backend that evaluates the same algorithm atomically through a Lua
// script.
//
// # Window semantics
//
// The counter is a plain fixed window, not a sliding window or token
// bucket: when the reset instant passes, the count drops to zero and the
// window advances, then the request is counted and admitted iff the count
// is within the limit. Across a window boundary this admits up to twice
// the limit in the worst case; that is an accepted trade-off and both
// backends must preserve it exactly, so the same scripted call sequence
// yields identical allow/deny answers against either.
//
// # Failure policy
//
// A backend error during a check is a denial (fail-closed). The limiter
// exists to bound load under stress, including stress that may itself be
// the cause of backend errors.
package ratelimit
