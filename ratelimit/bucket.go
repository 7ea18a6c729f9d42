package ratelimit

import "time"

// Bucket is one key's admission window: a running count and the instant at
// which the window resets. Buckets are owned by the in-process backend and
// never escape it.
type Bucket struct {
	Count   uint64
	ResetAt time.Time
}

// NewBucket opens a window starting at now.
func NewBucket(now time.Time, window time.Duration) *Bucket {
	return &Bucket{ResetAt: now.Add(window)}
}

// Allow applies the fixed-window transition: reset if the window has
// elapsed, count the request, admit iff the count is within the limit.
// The reset and the increment happen in one step so a caller holding the
// bucket's lock can never under- or over-count.
func (b *Bucket) Allow(limit uint64, window time.Duration, now time.Time) bool {
	if !now.Before(b.ResetAt) {
		b.Count = 0
		b.ResetAt = now.Add(window)
	}

	b.Count++
	return b.Count <= limit
}
