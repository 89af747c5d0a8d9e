package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/adapters/redis"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return clock }),
	)
	ctx := context.Background()
	tenantID := "tenant-ttl"

	err := store.Save(ctx, tenantID, domain.Snapshot{CustomerCount: 1})
	require.NoError(t, err)

	tenants, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, tenants, tenantID)

	mr.FastForward(2 * time.Second)
	clock = clock.Add(2 * time.Second)

	_, err = store.Load(ctx, tenantID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	tenants, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, tenants)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	tenantID := "acme"

	err := store.Save(ctx, tenantID, domain.Snapshot{HasPhone: true})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:data:acme"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	raw, err := mr.Get("custom:app:data:acme")
	require.NoError(t, err)
	assert.Contains(t, raw, `"has_phone":true`)

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, tenantID)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"data:broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRedisStore_Ping(t *testing.T) {
	_, client := newClient(t)
	assert.NoError(t, redis.NewFromClient(client).Ping(context.Background()))
}

func TestRedisStore_TenantNamedIndex(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "acme", domain.Snapshot{CustomerCount: 1}))
	require.NoError(t, store.Save(ctx, "index", domain.Snapshot{CustomerCount: 2}))

	assert.True(t, mr.Exists(redis.DefaultPrefix+"data:index"))
	members, err := mr.ZMembers(redis.DefaultPrefix + "index")
	require.NoError(t, err, "index key must still hold the sorted set")
	assert.ElementsMatch(t, []string{"acme", "index"}, members)

	tenants, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme", "index"}, tenants)

	snap, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.CustomerCount)
}
