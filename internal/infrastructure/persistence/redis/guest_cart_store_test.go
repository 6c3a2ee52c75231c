package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestGuestCartStore_RoundTrip(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewGuestCartStore(client, time.Hour)
	ctx := context.Background()

	data, err := store.Get(ctx, "guest_cart:s1")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Set(ctx, "guest_cart:s1", []byte(`[{"book_id":"A","quantity":1}]`)))
	data, err = store.Get(ctx, "guest_cart:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"book_id":"A","quantity":1}]`, string(data))
	assert.Equal(t, time.Hour, mr.TTL("guest_cart:s1"))

	require.NoError(t, store.Remove(ctx, "guest_cart:s1"))
	require.NoError(t, store.Remove(ctx, "guest_cart:s1"))
	assert.False(t, mr.Exists("guest_cart:s1"))
}

func TestGuestCartStore_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewGuestCartStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "guest_cart:s1", []byte("[]")))
	mr.FastForward(2 * time.Minute)

	data, err := store.Get(ctx, "guest_cart:s1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGuestCartStore_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewGuestCartStore(client, time.Minute)
	mr.Close()

	_, err := store.Get(context.Background(), "guest_cart:s1")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "guest_cart:s1", []byte("[]")))
}
