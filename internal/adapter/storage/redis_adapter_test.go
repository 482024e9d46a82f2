package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return rdb
}

func TestAcquireLock_ExclusiveUntilReleased(t *testing.T) {
	rdb := getRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	name := "test-lock-exclusive"
	rdb.Del(ctx, lockKeyPrefix+name)

	adapter := NewRedisAdapter(rdb)

	token, ok, err := adapter.AcquireLock(ctx, name, 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	_, ok, err = adapter.AcquireLock(ctx, name, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "held lock must not be acquirable")

	require.NoError(t, adapter.ReleaseLock(ctx, name, token))

	_, ok, err = adapter.AcquireLock(ctx, name, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "released lock must be acquirable again")

	rdb.Del(ctx, lockKeyPrefix+name)
}

func TestReleaseLock_WrongTokenKeepsLock(t *testing.T) {
	rdb := getRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	name := "test-lock-token"
	rdb.Del(ctx, lockKeyPrefix+name)

	adapter := NewRedisAdapter(rdb)

	_, ok, err := adapter.AcquireLock(ctx, name, 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, adapter.ReleaseLock(ctx, name, "stale-token"))

	_, ok, err = adapter.AcquireLock(ctx, name, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "a stale holder must not release the current lock")

	rdb.Del(ctx, lockKeyPrefix+name)
}

func TestAcquireLock_ExpiresAfterTTL(t *testing.T) {
	rdb := getRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	name := "test-lock-ttl"
	rdb.Del(ctx, lockKeyPrefix+name)

	adapter := NewRedisAdapter(rdb)

	_, ok, err := adapter.AcquireLock(ctx, name, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)

	_, ok, err = adapter.AcquireLock(ctx, name, time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be acquirable")

	rdb.Del(ctx, lockKeyPrefix+name)
}
