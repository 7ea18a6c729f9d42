// Package jwt signs and verifies the short-lived access credentials paired
// with opaque refresh tokens. It supports HS256 for single-service setups
// and ed25519 where verifiers should not hold the signing key.
package jwt
