package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func TestSessionStore_Session(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	loginAt := time.Unix(1700000000, 0)
	require.NoError(t, store.SaveSession(ctx, LoginSession{
		UserID: 7, CartSession: "s1", LoginAt: loginAt, ClientIP: "10.0.0.1",
	}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("session:7"))

	sess, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.CartSession)
	assert.Equal(t, "10.0.0.1", sess.ClientIP)
	assert.True(t, loginAt.Equal(sess.LoginAt))

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.Equal(t, apperrors.ErrUnauthorized, err)
}

func TestSessionStore_Blacklist(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	ok, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Minute))
	ok, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_CartSessionBinding(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	id, err := store.BoundCartSession(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, id, "未登录")
	assert.Equal(t, apperrors.ErrUnauthorized, store.BindCartSession(ctx, 7, "s1"))
	assert.False(t, mr.Exists("session:7"), "不能凭空创建登录会话")

	require.NoError(t, store.SaveSession(ctx, LoginSession{UserID: 7}, time.Hour))
	id, err = store.BoundCartSession(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, id, "登录时未携带购物车会话")

	require.NoError(t, store.BindCartSession(ctx, 7, "s1"))
	id, err = store.BoundCartSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, time.Hour, mr.TTL("session:7"), "绑定不改变过期时间")
}
