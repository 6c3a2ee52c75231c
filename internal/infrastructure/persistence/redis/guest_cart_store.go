package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// GuestCartStore 访客购物车存储,实现cart.LocalStore
// Key设计：guest_cart:{session_id} → JSON数组,每次写入刷新TTL
type GuestCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ cart.LocalStore = (*GuestCartStore)(nil)

// NewGuestCartStore 创建访客购物车存储;ttl<=0表示不过期
func NewGuestCartStore(client *redis.Client, ttl time.Duration) *GuestCartStore {
	return &GuestCartStore{client: client, ttl: ttl}
}

// Get 键不存在时返回(nil, nil)
func (s *GuestCartStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "读取访客购物车失败")
	}
	return data, nil
}

// Set 整体覆盖写入
func (s *GuestCartStore) Set(ctx context.Context, key string, value []byte) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入访客购物车失败")
	}
	return nil
}

// Remove 删除访客购物车,键不存在不视为错误
func (s *GuestCartStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "删除访客购物车失败")
	}
	return nil
}
