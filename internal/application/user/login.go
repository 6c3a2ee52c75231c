package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/pkg/jwt"
)

// LoginSessions 登录会话存储(由redis.SessionStore实现)
type LoginSessions interface {
	SaveSession(ctx context.Context, sess redis.LoginSession, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// CartSessions 购物车会话的认证状态切换(由session.Manager实现)
type CartSessions interface {
	Sync(ctx context.Context, sessionID, userID string) (*session.Session, error)
	Get(sessionID string) (*session.Session, bool)
}

// LoginUseCase 用户登录用例
// 1. 校验邮箱密码并签发Token对
// 2. 保存登录会话(失败只记日志)
// 3. 请求携带购物车会话时,把该会话切换为登录态,触发访客购物车合并
type LoginUseCase struct {
	userService   user.Service
	jwtManager    *jwt.Manager
	sessions      LoginSessions
	carts         CartSessions
	sessionExpire time.Duration
	log           *zap.Logger
}

// NewLoginUseCase 创建登录用例;sessionExpire与Refresh Token有效期一致
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions LoginSessions,
	carts CartSessions,
	sessionExpire time.Duration,
	log *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:   userService,
		jwtManager:    jwtManager,
		sessions:      sessions,
		carts:         carts,
		sessionExpire: sessionExpire,
		log:           log,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email       string
	Password    string
	CartSession string // 可选,X-Cart-Session
	ClientIP    string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	CartSession  string   `json:"cart_session,omitempty"`
	CartItems    int      `json:"cart_items"` // 合并后购物车行数
}

// Execute 执行登录
// 合并在返回前完成,响应中的CartItems已是合并后的结果
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Nickname)
	if err != nil {
		return nil, err
	}

	// 已由其他用户登录的会话不能被接管
	if req.CartSession != "" && uc.ownedByOther(req.CartSession, u.CartOwnerID()) {
		uc.log.Warn("cart session owned by another user",
			zap.Uint("user_id", u.ID),
			zap.String("session_id", req.CartSession),
		)
		req.CartSession = ""
	}

	sess := redis.LoginSession{
		UserID:      u.ID,
		CartSession: req.CartSession,
		LoginAt:     time.Now(),
		ClientIP:    req.ClientIP,
	}
	if err := uc.sessions.SaveSession(ctx, sess, uc.sessionExpire); err != nil {
		uc.log.Warn("save login session failed", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	resp := &LoginResponse{
		User:         UserInfo{ID: u.ID, Email: u.Email, Nickname: u.Nickname},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		CartSession:  req.CartSession,
	}

	if req.CartSession != "" {
		s, err := uc.carts.Sync(ctx, req.CartSession, u.CartOwnerID())
		if err != nil {
			uc.log.Warn("bind cart session failed",
				zap.Uint("user_id", u.ID),
				zap.String("session_id", req.CartSession),
				zap.Error(err),
			)
		} else if s != nil {
			resp.CartItems = len(s.Reconciler.Items())
		}
	}

	return resp, nil
}

func (uc *LoginUseCase) ownedByOther(sessionID, owner string) bool {
	s, ok := uc.carts.Get(sessionID)
	if !ok || s.Auth == nil {
		return false
	}
	state := s.Auth.Current()
	return state.SignedIn && state.UserID != owner
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessions LoginSessions
	carts    CartSessions
	log      *zap.Logger
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions LoginSessions, carts CartSessions, log *zap.Logger) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, carts: carts, log: log}
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	UserID      uint
	AccessToken string
	TokenTTL    time.Duration // Access Token剩余有效期
	CartSession string
}

// Execute 执行登出
// Token加入黑名单后,购物车会话切回访客态并重新加载访客购物车
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if req.TokenTTL > 0 {
		if err := uc.sessions.AddToBlacklist(ctx, req.AccessToken, req.TokenTTL); err != nil {
			return err
		}
	}
	if err := uc.sessions.DeleteSession(ctx, req.UserID); err != nil {
		return err
	}

	if req.CartSession != "" {
		if _, err := uc.carts.Sync(ctx, req.CartSession, ""); err != nil {
			uc.log.Warn("unbind cart session failed",
				zap.Uint("user_id", req.UserID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// RefreshUseCase 刷新Access Token
type RefreshUseCase struct {
	jwtManager *jwt.Manager
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(jwtManager *jwt.Manager) *RefreshUseCase {
	return &RefreshUseCase{jwtManager: jwtManager}
}

// Execute 用Refresh Token换取新的Access Token
func (uc *RefreshUseCase) Execute(refreshToken string) (string, error) {
	return uc.jwtManager.RefreshAccessToken(refreshToken)
}
