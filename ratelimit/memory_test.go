package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBackendLimitAndReset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b := NewMemoryBackend()
	b.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		allowed, err := b.Check(ctx, "login:ip:1.2.3.4", 5, time.Minute)
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d denied, want admitted", i+1)
		}
	}

	allowed, err := b.Check(ctx, "login:ip:1.2.3.4", 5, time.Minute)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if allowed {
		t.Fatal("request 6 admitted, want denied")
	}

	// A different key has its own bucket.
	allowed, err = b.Check(ctx, "login:ip:5.6.7.8", 5, time.Minute)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !allowed {
		t.Fatal("unrelated key denied, want admitted")
	}

	// After the window elapses the original key is admitted again.
	now = now.Add(time.Minute)
	allowed, err = b.Check(ctx, "login:ip:1.2.3.4", 5, time.Minute)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !allowed {
		t.Fatal("denied after window reset, want admitted")
	}
}

func TestMemoryBackendNonPositiveLimit(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	for _, limit := range []int{0, -1, -100} {
		allowed, err := b.Check(ctx, "k", limit, time.Minute)
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if allowed {
			t.Fatalf("limit %d admitted a request, want denied", limit)
		}
	}
}
