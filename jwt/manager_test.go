package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func newHSManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		AccessTTL:     ttl,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-secret-test-secret-test-1234"),
		Issuer:        "credgate-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestGenerateParseRoundTrip(t *testing.T) {
	m := newHSManager(t, 15*time.Minute)

	signed, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Issuer != "credgate-test" {
		t.Fatalf("issuer = %q, want credgate-test", claims.Issuer)
	}
}

func TestParseExpiredToken(t *testing.T) {
	// TTL of one nanosecond: expired by the time Parse runs.
	m := newHSManager(t, time.Nanosecond)

	signed, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("err = %v, want ErrInvalidAccessToken", err)
	}
}

func TestParseWrongKey(t *testing.T) {
	m := newHSManager(t, 15*time.Minute)
	other, err := NewManager(Config{
		AccessTTL:     15 * time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("a-different-secret-entirely-5678"),
		Issuer:        "credgate-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	signed, err := other.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("err = %v, want ErrInvalidAccessToken", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	m := newHSManager(t, 15*time.Minute)
	other, err := NewManager(Config{
		AccessTTL:     15 * time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-secret-test-secret-test-1234"),
		Issuer:        "someone-else",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	signed, err := other.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("err = %v, want ErrInvalidAccessToken", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := newHSManager(t, 15*time.Minute)

	for _, s := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Parse(s); !errors.Is(err, ErrInvalidAccessToken) {
			t.Fatalf("Parse(%q): err = %v, want ErrInvalidAccessToken", s, err)
		}
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	m, err := NewManager(Config{
		AccessTTL:     15 * time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	signed, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{"missing secret", Config{AccessTTL: time.Minute, SigningMethod: MethodHS256}},
		{"unknown method", Config{AccessTTL: time.Minute, SigningMethod: "rs256", PrivateKey: []byte("k")}},
		{"excessive leeway", Config{AccessTTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("k"), Leeway: 10 * time.Minute}},
		{"bad ed25519 key", Config{AccessTTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: []byte("short")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("NewManager accepted invalid config")
			}
		})
	}
}
