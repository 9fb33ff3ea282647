package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client, max, time.Minute, 30*time.Second), mr
}

func TestLimiter_IPWindow(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 2)

	for i := 0; i < 2; i++ {
		exceeded, err := l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", PurposeLogin)
		require.NoError(t, err)
		assert.False(t, exceeded)
		require.NoError(t, l.RecordIPRequestWithPurpose(ctx, "10.0.0.1", PurposeLogin))
	}

	exceeded, err := l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", PurposeLogin)
	require.NoError(t, err)
	assert.True(t, exceeded)

	// Purposes and IPs are counted separately.
	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", PurposeRegister)
	require.NoError(t, err)
	assert.False(t, exceeded)
	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.2", PurposeLogin)
	require.NoError(t, err)
	assert.False(t, exceeded)

	mr.FastForward(time.Minute + time.Second)

	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", PurposeLogin)
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLimiter_EmailCooldown(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 5)

	active, err := l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, l.SetEmailCooldown(ctx, "a@example.com"))
	active, err = l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, active)

	mr.FastForward(31 * time.Second)
	active, err = l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLimiter_DisabledWithoutClient(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(nil, 0, time.Minute, time.Minute)

	assert.False(t, l.Enabled())
	require.NoError(t, l.RecordIPRequestWithPurpose(ctx, "10.0.0.1", PurposeLogin))
	exceeded, err := l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", PurposeLogin)
	require.NoError(t, err)
	assert.False(t, exceeded)
	require.NoError(t, l.SetEmailCooldown(ctx, "a@example.com"))
}
