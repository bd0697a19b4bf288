package services

import (
	"context"
	"sync"
	"time"
)

// RateLimiter bounds magic-link requests per key. The flow consults it
// once per requester IP and once per target email. Implementations must
// be safe for concurrent use. A no-op implementation is valid for
// environments without a limiter.
type RateLimiter interface {
	Allow(ctx context.Context, kind, key string) (bool, error)
}

type noopRateLimiter struct{}

// NewNoopRateLimiter returns a limiter that always allows.
func NewNoopRateLimiter() RateLimiter {
	return noopRateLimiter{}
}

func (noopRateLimiter) Allow(context.Context, string, string) (bool, error) {
	return true, nil
}

// memoryRateLimiter counts requests per (kind,key) within a fixed window.
// Process-local; suitable for single-instance deployments and tests.
type memoryRateLimiter struct {
	mu     sync.Mutex
	data   map[string]*rateWindow
	max    int
	window time.Duration
	clock  func() time.Time
}

type rateWindow struct {
	count     int
	windowEnd time.Time
}

// NewMemoryRateLimiter constructs an in-memory fixed-window limiter.
func NewMemoryRateLimiter(maxRequests int, window time.Duration) RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryRateLimiter{
		data:   make(map[string]*rateWindow),
		max:    maxRequests,
		window: window,
		clock:  time.Now,
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, kind, key string) (bool, error) {
	now := l.clock()
	mapKey := kind + "|" + key

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop stale windows opportunistically to bound growth.
	for k, w := range l.data {
		if now.After(w.windowEnd) {
			delete(l.data, k)
		}
	}

	w, ok := l.data[mapKey]
	if !ok || now.After(w.windowEnd) {
		w = &rateWindow{windowEnd: now.Add(l.window)}
		l.data[mapKey] = w
	}

	w.count++
	return w.count <= l.max, nil
}
