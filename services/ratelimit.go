package services

import (
	"context"
	"sync"
	"time"
)

// RateLimitResult is the outcome of one check-and-increment attempt.
// ResetAt is always the next UTC midnight, whether or not the call was
// allowed.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Usage is the read-only view of a user's daily consumption.
type Usage struct {
	Used      int
	Limit     int
	Remaining int
}

// RateLimiter enforces the per-user daily debate quota. CheckRateLimit must
// perform its read-check-increment atomically: two concurrent calls for the
// same user must never both pass the limit.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID string) (RateLimitResult, error)
	GetUsage(ctx context.Context, userID string) (Usage, error)
}

// UsageKey is the per-user-per-UTC-day counter document id.
func UsageKey(userID string, now time.Time) string {
	return userID + "/" + now.UTC().Format("2006-01-02")
}

// NextUTCMidnight returns the quota reset instant following now.
func NextUTCMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// MemoryRateLimiter is the in-process implementation used by tests and local
// tooling that runs without MongoDB. Counters reset implicitly when the day
// key changes.
type MemoryRateLimiter struct {
	limit int
	now   func() time.Time

	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryRateLimiter(limit int) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:  limit,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

func (l *MemoryRateLimiter) CheckRateLimit(ctx context.Context, userID string) (RateLimitResult, error) {
	now := l.now()
	key := UsageKey(userID, now)

	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.counts[key]
	if count >= l.limit {
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: NextUTCMidnight(now)}, nil
	}
	l.counts[key] = count + 1
	return RateLimitResult{
		Allowed:   true,
		Remaining: l.limit - (count + 1),
		ResetAt:   NextUTCMidnight(now),
	}, nil
}

func (l *MemoryRateLimiter) GetUsage(ctx context.Context, userID string) (Usage, error) {
	key := UsageKey(userID, l.now())

	l.mu.Lock()
	defer l.mu.Unlock()

	used := l.counts[key]
	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{Used: used, Limit: l.limit, Remaining: remaining}, nil
}
