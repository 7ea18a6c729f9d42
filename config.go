package credgate

import (
	"errors"
	"time"

	"github.com/credgate/credgate/ratelimit"
)

// Config is the engine configuration tree. Zero values are filled with
// defaults at Build; invalid combinations fail Build.
type Config struct {
	Token     TokenConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

// TokenConfig tunes refresh-token issuance.
type TokenConfig struct {
	// RefreshTTL is the absolute lifetime of an issued refresh token.
	RefreshTTL time.Duration
}

// JWTConfig configures the access-token signer.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// PasswordConfig tunes argon2id hashing and the acceptance policy.
type PasswordConfig struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// RateLimitConfig selects the admission policy and Redis namespace. A nil
// Policy means [ratelimit.DefaultPolicy].
type RateLimitConfig struct {
	Policy      ratelimit.Policy
	RedisPrefix string
}

// AuditConfig tunes the fire-and-forget audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of waiting when the buffer is full.
	// Dropped events are counted, never surfaced to the caller.
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			RefreshTTL: 30 * 24 * time.Hour,
		},
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   8,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func (c Config) validate() error {
	if c.Token.RefreshTTL <= 0 {
		return errors.New("token: RefreshTTL must be positive")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("jwt: AccessTTL must be positive")
	}
	if c.JWT.AccessTTL >= c.Token.RefreshTTL {
		return errors.New("jwt: AccessTTL must be shorter than RefreshTTL")
	}
	if c.Password.MinLength < 0 {
		return errors.New("password: MinLength must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit: BufferSize must not be negative")
	}
	return nil
}
