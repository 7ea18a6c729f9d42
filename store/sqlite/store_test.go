package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/credgate/credgate/token"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newToken(userID string) *token.RefreshToken {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &token.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Value:     uuid.NewString(),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestConcurrentStoresMigrateIndependently(t *testing.T) {
	// Each store carries its own migration provider; opening a second one
	// must not disturb the first.
	ctx := context.Background()

	a := newTestStore(t)
	b := newTestStore(t)

	tok := newToken("u-1")
	if err := a.Save(ctx, tok); err != nil {
		t.Fatalf("Save on first store failed: %v", err)
	}
	if err := b.Save(ctx, tok); err != nil {
		t.Fatalf("Save on second store failed: %v", err)
	}
	if _, err := a.FindByValue(ctx, tok.Value); err != nil {
		t.Fatalf("FindByValue on first store failed: %v", err)
	}
}

func TestSaveAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved := newToken("u-1")
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := s.FindByValue(ctx, saved.Value)
	if err != nil {
		t.Fatalf("FindByValue failed: %v", err)
	}
	if found.ID != saved.ID || found.UserID != saved.UserID {
		t.Fatalf("found %+v, want %+v", found, saved)
	}
	if found.RevokedAt != nil {
		t.Fatal("fresh token came back revoked")
	}
	if !found.ExpiresAt.Equal(saved.ExpiresAt) {
		t.Fatalf("expires at %v, want %v", found.ExpiresAt, saved.ExpiresAt)
	}
}

func TestFindUnknownValue(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.FindByValue(context.Background(), "never-saved"); !errors.Is(err, token.ErrTokenNotFound) {
		t.Fatalf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestRevokeIsConditional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved := newToken("u-1")
	if err := s.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.Revoke(ctx, saved.ID, at); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	found, err := s.FindByValue(ctx, saved.Value)
	if err != nil {
		t.Fatalf("FindByValue failed: %v", err)
	}
	if found.RevokedAt == nil {
		t.Fatal("revocation did not persist")
	}

	// The second revoke finds no unrevoked row.
	if err := s.Revoke(ctx, saved.ID, at); !errors.Is(err, token.ErrTokenNotFound) {
		t.Fatalf("second Revoke: err = %v, want ErrTokenNotFound", err)
	}
	if err := s.Revoke(ctx, "no-such-id", at); !errors.Is(err, token.ErrTokenNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrTokenNotFound", err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var mine []*token.RefreshToken
	for i := 0; i < 3; i++ {
		tok := newToken("u-1")
		if err := s.Save(ctx, tok); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		mine = append(mine, tok)
	}
	other := newToken("u-2")
	if err := s.Save(ctx, other); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Millisecond)
	n, err := s.RevokeAllForUser(ctx, "u-1", at)
	if err != nil {
		t.Fatalf("RevokeAllForUser failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("revoked %d tokens, want 3", n)
	}

	for _, tok := range mine {
		found, err := s.FindByValue(ctx, tok.Value)
		if err != nil {
			t.Fatalf("FindByValue failed: %v", err)
		}
		if found.RevokedAt == nil {
			t.Fatalf("token %s survived the sweep", tok.ID)
		}
	}

	found, err := s.FindByValue(ctx, other.Value)
	if err != nil {
		t.Fatalf("FindByValue failed: %v", err)
	}
	if found.RevokedAt != nil {
		t.Fatal("sweep touched another user's token")
	}

	// Idempotent: nothing left to flip.
	n, err = s.RevokeAllForUser(ctx, "u-1", at)
	if err != nil {
		t.Fatalf("second RevokeAllForUser failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep revoked %d tokens, want 0", n)
	}
}

func TestManagerOverSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := token.NewManager(s, time.Hour)
	issued, err := m.Issue(ctx, "u-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	rotated, err := m.Rotate(ctx, issued.Value)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if _, err := m.Rotate(ctx, issued.Value); !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("stale rotate: err = %v, want ErrInvalidToken", err)
	}
	if err := m.Revoke(ctx, rotated.Value); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
}
