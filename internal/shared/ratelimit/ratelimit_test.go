package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageforge/gateway/internal/shared/kv"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCheckWithinWindow(t *testing.T) {
	store := kv.NewMemory()
	now := time.UnixMilli(10_000)
	limiter := New(store, store, WithNow(fixedClock(now)))

	policy := Policy{Name: "test", Limit: 3, Window: time.Second}

	for _, wantRemaining := range []int{2, 1, 0} {
		decision, err := limiter.Check(context.Background(), "caller-1", policy)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, wantRemaining, decision.Remaining)
		assert.Equal(t, 3, decision.Limit)
	}

	decision, err := limiter.Check(context.Background(), "caller-1", policy)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, time.UnixMilli(11_000), decision.ResetAt)
}

func TestCheckFreshWindowReadmits(t *testing.T) {
	store := kv.NewMemory()
	at := time.UnixMilli(10_000)
	limiter := New(store, store, WithNow(func() time.Time { return at }))

	policy := Policy{Name: "test", Limit: 2, Window: time.Second}

	for i := 0; i < 2; i++ {
		decision, err := limiter.Check(context.Background(), "caller-1", policy)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	decision, err := limiter.Check(context.Background(), "caller-1", policy)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// Cross the window boundary: the counter key changes, so the caller
	// gets a fresh budget even before the old entry's TTL fires.
	at = time.UnixMilli(11_050)
	decision, err = limiter.Check(context.Background(), "caller-1", policy)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Remaining)
}

func TestCheckKeysAreIndependent(t *testing.T) {
	store := kv.NewMemory()
	limiter := New(store, store, WithNow(fixedClock(time.UnixMilli(10_000))))

	policy := Policy{Name: "test", Limit: 1, Window: time.Second}

	decision, err := limiter.Check(context.Background(), "caller-1", policy)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = limiter.Check(context.Background(), "caller-1", policy)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	decision, err = limiter.Check(context.Background(), "caller-2", policy)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestPolicyScopesAreIndependent(t *testing.T) {
	store := kv.NewMemory()
	limiter := New(store, store, WithNow(fixedClock(time.UnixMilli(10_000))))

	tight := Policy{Name: "auth", Limit: 1, Window: time.Minute}
	loose := Policy{Name: "api", Limit: 5, Window: time.Minute}

	decision, err := limiter.Check(context.Background(), "caller-1", tight)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = limiter.Check(context.Background(), "caller-1", tight)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// Same key under a different policy scope keeps its own counter.
	decision, err = limiter.Check(context.Background(), "caller-1", loose)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 4, decision.Remaining)
}

func TestCheckConsistentBoundary(t *testing.T) {
	store := kv.NewMemory()
	limiter := New(store, store, WithNow(fixedClock(time.UnixMilli(10_000))))

	policy := Policy{Name: "ent", Limit: 3, Window: time.Second}

	for _, wantRemaining := range []int{2, 1, 0} {
		decision, err := limiter.CheckConsistent(context.Background(), "ent-caller", policy)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, wantRemaining, decision.Remaining)
	}

	decision, err := limiter.CheckConsistent(context.Background(), "ent-caller", policy)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestRetryAfter(t *testing.T) {
	resetAt := time.UnixMilli(11_000)
	decision := Decision{ResetAt: resetAt}

	assert.Equal(t, 400*time.Millisecond, decision.RetryAfter(time.UnixMilli(10_600)))
	assert.Equal(t, time.Duration(0), decision.RetryAfter(time.UnixMilli(11_500)))
}
