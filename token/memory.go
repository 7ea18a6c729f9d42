package token

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory [Store]. State is per-process
// and lost on restart; intended for tests, examples, and single-instance
// deployments that accept that trade-off.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*RefreshToken
	byValue map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*RefreshToken),
		byValue: make(map[string]string),
	}
}

func (s *MemoryStore) Save(_ context.Context, t *RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.byID[cp.ID] = &cp
	s.byValue[cp.Value] = cp.ID
	return nil
}

func (s *MemoryStore) FindByValue(_ context.Context, value string) (*RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byValue[value]
	if !ok {
		return nil, ErrTokenNotFound
	}
	t, ok := s.byID[id]
	if !ok {
		return nil, ErrTokenNotFound
	}

	cp := *t
	if t.RevokedAt != nil {
		at := *t.RevokedAt
		cp.RevokedAt = &at
	}
	return &cp, nil
}

func (s *MemoryStore) Revoke(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[id]
	if !ok || t.RevokedAt != nil {
		return ErrTokenNotFound
	}

	t.RevokedAt = &at
	return nil
}

func (s *MemoryStore) RevokeAllForUser(_ context.Context, userID string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, t := range s.byID {
		if t.UserID != userID || t.RevokedAt != nil {
			continue
		}
		ts := at
		t.RevokedAt = &ts
		n++
	}
	return n, nil
}
