package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps one bucket per key behind a single mutex. Cheap, but
// state is per-process and lost on restart — acceptable only for
// single-instance deployments.
//
// The critical section covers exactly the in-memory read-check-write and
// never wraps any remote call.
type MemoryBackend struct {
	mu      sync.Mutex
	buckets map[string]*Bucket
	now     func() time.Time
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]*Bucket),
		now:     time.Now,
	}
}

// Check applies the fixed-window transition for key. Buckets are created
// lazily on first observation and never destroyed. A non-positive limit
// denies everything, matching the Redis backend's verdict for the same
// rule.
func (m *MemoryBackend) Check(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = NewBucket(now, window)
		m.buckets[key] = b
	}

	return b.Allow(uint64(limit), window, now), nil
}
