package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock_MutualExclusion(t *testing.T) {
	locker := NewLocalLock()
	ctx := context.Background()

	ok, err := locker.Lock(ctx, "shop:2026-03-02", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locker.Lock(ctx, "shop:2026-03-02", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// A different key is independent.
	ok, err = locker.Lock(ctx, "shop:2026-03-03", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLock_UnlockReleases(t *testing.T) {
	locker := NewLocalLock()
	ctx := context.Background()

	ok, err := locker.Lock(ctx, "shop:2026-03-02", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Unlock(ctx, "shop:2026-03-02"))

	ok, err = locker.Lock(ctx, "shop:2026-03-02", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLock_ExpiredLockIsReacquirable(t *testing.T) {
	locker := NewLocalLock()
	ctx := context.Background()

	ok, err := locker.Lock(ctx, "shop:2026-03-02", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, err = locker.Lock(ctx, "shop:2026-03-02", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
