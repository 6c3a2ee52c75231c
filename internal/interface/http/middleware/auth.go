package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/response"
)

// Context键
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxAccessToken = "access_token"
	ctxTokenExpiry = "token_expiry"
)

// TokenBlacklist Token黑名单(由redis.SessionStore实现)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 校验Bearer Token与黑名单,并把用户信息注入gin.Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if err := m.authenticate(c, token); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录
// Token缺失或无效时按访客继续处理
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			_ = m.authenticate(c, token)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) error {
	if m.blacklist != nil {
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
		if err != nil {
			return err
		}
		if revoked {
			return apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效,请重新登录")
		}
	}

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Refresh {
		return apperrors.ErrInvalidToken
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxAccessToken, token)
	if claims.ExpiresAt != nil {
		c.Set(ctxTokenExpiry, claims.ExpiresAt.Time)
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID 当前登录用户ID,未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetAccessToken 当前请求的Access Token与剩余有效期
func GetAccessToken(c *gin.Context) (string, time.Duration) {
	token := c.GetString(ctxAccessToken)
	var ttl time.Duration
	if exp, ok := c.Get(ctxTokenExpiry); ok {
		if t, ok := exp.(time.Time); ok {
			ttl = time.Until(t)
		}
	}
	return token, ttl
}

// MustGetUserID 用于RequireAuth之后的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
