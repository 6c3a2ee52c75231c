package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/pkg/response"
)

// CartSessionHeader 购物车会话头
const CartSessionHeader = "X-Cart-Session"

const ctxCartSession = "cart_session"

// CartSessions 会话管理(由session.Manager实现)
type CartSessions interface {
	Sync(ctx context.Context, sessionID, userID string) (*session.Session, error)
	Get(sessionID string) (*session.Session, bool)
}

// CartBindings 登录会话与购物车会话的绑定(由redis.SessionStore实现)
type CartBindings interface {
	BoundCartSession(ctx context.Context, userID uint) (string, error)
	BindCartSession(ctx context.Context, userID uint, cartSession string) error
}

// CartSession 绑定购物车会话,必须放在OptionalAuth或RequireAuth之后
//  1. 登录用户使用登录会话上绑定的购物车会话,忽略X-Cart-Session
//  2. 尚未绑定时采用请求携带的会话并写入绑定
//  3. 请求携带的会话已由其他身份登录时,分配新的访客会话
//  4. 按请求身份切换会话认证状态(访客→登录时触发合并)
//
// bindings为nil时只按X-Cart-Session处理
func CartSession(carts CartSessions, bindings CartBindings) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.GetHeader(CartSessionHeader)

		uid := GetUserID(c)
		var owner, bound string
		if uid != 0 {
			owner = strconv.FormatUint(uint64(uid), 10)
			if bindings != nil {
				var err error
				if bound, err = bindings.BoundCartSession(ctx, uid); err != nil {
					response.Error(c, err)
					c.Abort()
					return
				}
			}
		}

		switch {
		case bound != "":
			id = bound
		case id != "" && foreign(carts, id, owner):
			id = ""
		}
		if id == "" {
			id = uuid.NewString()
		}
		if uid != 0 && bound == "" && bindings != nil {
			if err := bindings.BindCartSession(ctx, uid, id); err != nil {
				_ = c.Error(err)
			}
		}
		c.Header(CartSessionHeader, id)

		s, err := carts.Sync(ctx, id, owner)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ctxCartSession, s)
		c.Next()
	}
}

// foreign 会话已由owner以外的身份登录
func foreign(carts CartSessions, id, owner string) bool {
	s, ok := carts.Get(id)
	if !ok || s.Auth == nil {
		return false
	}
	state := s.Auth.Current()
	return state.SignedIn && state.UserID != owner
}

// GetCartSession 当前请求绑定的购物车会话
func GetCartSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxCartSession); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// CartSessionID 当前请求的购物车会话ID;未经过CartSession时取请求头
func CartSessionID(c *gin.Context) string {
	if s := GetCartSession(c); s != nil {
		return s.ID
	}
	return c.GetHeader(CartSessionHeader)
}
