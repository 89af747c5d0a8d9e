package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/adapters/redis"
)

func TestLocker_AcquireRelease(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "acme", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultLockPrefix+"acme"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(redis.DefaultLockPrefix+"acme"))
}

func TestLocker_BlocksUntilReleased(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "acme", time.Minute)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locker.Lock(ctx, "acme", time.Minute)
		if err == nil {
			_ = second(ctx)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock returned while the first was held")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second Lock never acquired")
	}
}

func TestLocker_ContextCancel(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "")

	_, err := locker.Lock(context.Background(), "acme", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "acme", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "")
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "acme", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = locker.Lock(ctx, "acme", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists(redis.DefaultLockPrefix+"acme"), "expired holder must not release the new owner's lock")
}

func TestStore_Locker(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	unlock, err := store.Locker().Lock(ctx, "acme", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis.DefaultLockPrefix+"acme"))
	require.NoError(t, unlock(ctx))
}
