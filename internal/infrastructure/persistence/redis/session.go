package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// LoginSession 用户登录会话
type LoginSession struct {
	UserID      uint
	CartSession string // 登录时绑定的购物车会话ID
	LoginAt     time.Time
	ClientIP    string
}

// SessionStore 登录会话与Token黑名单
// Key设计：session:{user_id}(Hash)、blacklist:{token}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string { return fmt.Sprintf("session:%d", userID) }

func blacklistKey(token string) string { return "blacklist:" + token }

// SaveSession 保存登录会话,过期时间与Refresh Token一致
func (s *SessionStore) SaveSession(ctx context.Context, sess LoginSession, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"cart_session", sess.CartSession,
			"login_at", sess.LoginAt.Unix(),
			"client_ip", sess.ClientIP,
		)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取登录会话,不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (*LoginSession, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	sess := &LoginSession{
		UserID:      userID,
		CartSession: result["cart_session"],
		ClientIP:    result["client_ip"],
	}
	if ts, err := strconv.ParseInt(result["login_at"], 10, 64); err == nil {
		sess.LoginAt = time.Unix(ts, 0)
	}
	return sess, nil
}

// DeleteSession 删除登录会话(登出)
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单,ttl取Token剩余有效期
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

// BoundCartSession 登录会话上绑定的购物车会话ID
// 未登录、会话已过期或尚未绑定时返回空串
func (s *SessionStore) BoundCartSession(ctx context.Context, userID uint) (string, error) {
	id, err := s.client.HGet(ctx, sessionKey(userID), "cart_session").Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrap(err, "获取购物车会话绑定失败")
	}
	return id, nil
}

// BindCartSession 为已存在的登录会话绑定购物车会话;登录会话不存在时返回ErrUnauthorized
func (s *SessionStore) BindCartSession(ctx context.Context, userID uint, cartSession string) error {
	key := sessionKey(userID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return apperrors.Wrap(err, "绑定购物车会话失败")
	}
	if n == 0 {
		return apperrors.ErrUnauthorized
	}
	if err := s.client.HSet(ctx, key, "cart_session", cartSession).Err(); err != nil {
		return apperrors.Wrap(err, "绑定购物车会话失败")
	}
	return nil
}
