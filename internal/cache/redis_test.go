package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore_GetSet(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	val, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, "v", val)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Hash(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.HGetAll(ctx, "h")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = store.HGet(ctx, "h", "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.HSetWithTTL(ctx, "h", map[string]string{"a": "1", "b": "2"}, time.Minute))
	// Replacing drops fields that are no longer present
	require.NoError(t, store.HSetWithTTL(ctx, "h", map[string]string{"a": "3"}, 5*time.Minute))

	fields, err := store.HGetAll(ctx, "h")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3"}, fields)

	val, err := store.HGet(ctx, "h", "a")
	assert.NoError(t, err)
	assert.Equal(t, "3", val)
	assert.Equal(t, 5*time.Minute, mr.TTL("h"))
}

func TestRedisStore_Set(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.SMembers(ctx, "s")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.SAddWithTTL(ctx, "s", []string{"1", "2"}, time.Minute))
	require.NoError(t, store.SAddWithTTL(ctx, "s", []string{"3"}, time.Minute))

	members, err := store.SMembers(ctx, "s")
	assert.NoError(t, err)
	assert.Equal(t, []string{"3"}, members)
	assert.Equal(t, time.Minute, mr.TTL("s"))

	require.NoError(t, store.SAddWithTTL(ctx, "s", nil, time.Minute))
	assert.False(t, mr.Exists("s"))
}

func TestRedisStore_DelPattern(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	// More keys than one scan batch
	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("app:user:1:k%d", i), "x"))
	}
	require.NoError(t, mr.Set("app:user:10:k", "x"))
	require.NoError(t, mr.Set("app:topics", "x"))

	require.NoError(t, store.DelPattern(ctx, "app:user:1:*"))

	assert.Equal(t, []string{"app:topics", "app:user:10:k"}, mr.Keys())
}

func TestRedisStore_DelAndExpire(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "1"))

	require.NoError(t, store.Expire(ctx, "a", time.Second))
	assert.Equal(t, time.Second, mr.TTL("a"))

	require.NoError(t, store.Del(ctx, "a", "b"))
	require.NoError(t, store.Del(ctx))
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_ServerError(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	mr.SetError("LOADING")

	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, store.HSetWithTTL(ctx, "h", map[string]string{"a": "1"}, time.Minute))
	assert.Error(t, store.DelPattern(ctx, "*"))
	assert.Error(t, store.Ping(ctx))
}
