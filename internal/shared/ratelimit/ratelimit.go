package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pageforge/gateway/internal/shared/kv"
)

// Policy is a named request budget over a fixed window
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Named policy scopes. Each scope keeps its own counters, so one key can be
// budgeted independently under several policies at once.
var (
	// PolicyAPI covers generic API traffic
	PolicyAPI = Policy{Name: "api", Limit: 100, Window: time.Minute}

	// PolicyAuth throttles authentication attempts: tighter limit, longer window
	PolicyAuth = Policy{Name: "auth", Limit: 10, Window: 15 * time.Minute}

	// PolicyGenerate covers deployment generation requests
	PolicyGenerate = Policy{Name: "generate", Limit: 10, Window: time.Minute}

	// PolicyAPIKey covers API-key holders, keyed by key prefix
	PolicyAPIKey = Policy{Name: "apikey", Limit: 300, Window: time.Minute}
)

// Decision is the outcome of one admission check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before retrying
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait
}

// Limiter enforces fixed-window request budgets across stateless instances.
// Counters live in the external store; the limiter itself holds no state.
type Limiter struct {
	store    kv.Store
	counters kv.Counter
	now      func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithNow overrides the limiter clock, used in tests
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter over the default store and the consistent counter
func New(store kv.Store, counters kv.Counter, opts ...Option) *Limiter {
	l := &Limiter{store: store, counters: counters, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func counterKey(p Policy, key string, windowID int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", p.Name, key, windowID)
}

func (l *Limiter) window(p Policy) (int64, time.Time) {
	windowMs := p.Window.Milliseconds()
	id := l.now().UnixMilli() / windowMs
	resetAt := time.UnixMilli((id + 1) * windowMs)
	return id, resetAt
}

// Check admits or rejects a request for key under p.
//
// The read-then-write sequence against the shared store is not atomic:
// concurrent requests on the same key from different instances can both read
// a stale count and both be admitted, overshooting the limit slightly. That
// is the accepted trade for a coordination-free default path; callers that
// need exact enforcement go through CheckConsistent.
func (l *Limiter) Check(ctx context.Context, key string, p Policy) (Decision, error) {
	windowID, resetAt := l.window(p)
	storeKey := counterKey(p, key, windowID)

	count := 0
	val, ok, err := l.store.Get(ctx, storeKey)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit read failed: %w", err)
	}
	if ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			count = parsed
		}
	}

	if count >= p.Limit {
		return Decision{Allowed: false, Limit: p.Limit, Remaining: 0, ResetAt: resetAt}, nil
	}

	newCount := count + 1
	if err := l.store.Put(ctx, storeKey, strconv.Itoa(newCount), p.Window); err != nil {
		return Decision{}, fmt.Errorf("rate limit write failed: %w", err)
	}

	remaining := p.Limit - newCount
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: p.Limit, Remaining: remaining, ResetAt: resetAt}, nil
}

// CheckConsistent admits or rejects a request with exact enforcement. The
// increment-and-compare runs atomically on a single counter owner per key,
// trading one extra round of latency for no overshoot across instances.
func (l *Limiter) CheckConsistent(ctx context.Context, key string, p Policy) (Decision, error) {
	windowID, resetAt := l.window(p)
	storeKey := counterKey(p, key, windowID)

	count, err := l.counters.IncrWithTTL(ctx, storeKey, p.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr failed: %w", err)
	}

	if count > int64(p.Limit) {
		return Decision{Allowed: false, Limit: p.Limit, Remaining: 0, ResetAt: resetAt}, nil
	}

	remaining := p.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: p.Limit, Remaining: remaining, ResetAt: resetAt}, nil
}
